package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/resolver"

	"github.com/shopspring/decimal"
)

type OrderUsecase struct {
	tx       repo.TransactionManager
	orders   repo.OrderRepository
	resolver *resolver.Resolver
	log      *slog.Logger
}

func NewOrderUsecase(tx repo.TransactionManager, repos repo.Repos, res *resolver.Resolver, log *slog.Logger) *OrderUsecase {
	return &OrderUsecase{tx: tx, orders: repos.Orders, resolver: res, log: log}
}

// TotalAmountがnilならカートの合計（現在価格×数量）を使う
type PlaceOrderInput struct {
	ShippingAddress string
	PaymentMethod   string
	TotalAmount     *float64
}

// カートの中身を注文にする。
// 在庫減算・明細作成・カートのクリアは1トランザクション（どれか失敗したら全部戻す）
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (model.OrderWithItems, error) {
	if userID <= 0 {
		return model.OrderWithItems{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	address := strings.TrimSpace(in.ShippingAddress)
	if address == "" {
		return model.OrderWithItems{}, NewHTTPError(http.StatusBadRequest, "shipping_address required")
	}
	payment := strings.TrimSpace(in.PaymentMethod)
	if payment == "" {
		return model.OrderWithItems{}, NewHTTPError(http.StatusBadRequest, "payment_method required")
	}
	if in.TotalAmount != nil && *in.TotalAmount < 0 {
		return model.OrderWithItems{}, NewHTTPError(http.StatusBadRequest, "total_amount must be >= 0")
	}

	var out model.OrderWithItems

	err := u.tx.WithinTx(ctx, func(r repo.Repos) error {
		res := resolver.New(r)

		cart, err := res.CartWithItems(ctx, userID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}

		total := decimal.Zero
		items := make([]model.OrderItem, 0, len(cart.Items))
		for _, ci := range cart.Items {
			if ci.Product.Deleted() {
				return NewHTTPError(http.StatusBadRequest, "product no longer available")
			}

			//在庫減算（足りなければ ErrInsufficientStock）
			if _, err := r.Products.AdjustStock(ctx, ci.ProductID, -ci.Quantity); err != nil {
				return err
			}

			//価格は注文時点の商品価格
			items = append(items, model.OrderItem{
				ProductID: ci.ProductID,
				Quantity:  ci.Quantity,
				Price:     ci.Product.Price,
			})
			total = total.Add(decimal.NewFromFloat(ci.Product.Price).Mul(decimal.NewFromInt(ci.Quantity)))
		}

		amount := total.InexactFloat64()
		if in.TotalAmount != nil {
			amount = *in.TotalAmount
		}

		order, err := r.Orders.Create(ctx, model.Order{
			UserID:          userID,
			TotalAmount:     amount,
			Status:          model.OrderStatusPending,
			ShippingAddress: address,
			PaymentMethod:   payment,
		})
		if err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if _, err := r.OrderItems.CreateBulk(ctx, items); err != nil {
			return err
		}

		//再注文防止のためカートを空にする
		if _, err := r.CartItems.DeleteByCartID(ctx, cart.Cart.ID); err != nil {
			return err
		}

		out, err = res.OrderView(ctx, order)
		return err
	})
	if err != nil {
		return model.OrderWithItems{}, repoError(ctx, u.log, err, "")
	}

	u.log.InfoContext(ctx, "order placed",
		slog.Int64("order_id", out.ID),
		slog.Int64("user_id", userID),
		slog.Int("items", len(out.Items)),
		slog.Float64("total_amount", out.TotalAmount),
	)
	return out, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]model.Order, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	orders, err := u.orders.ListByUserID(ctx, userID)
	if err != nil {
		return nil, repoError(ctx, u.log, err, "")
	}
	return orders, nil
}

// 他人の注文は403
func (u *OrderUsecase) GetMyOrder(ctx context.Context, userID int64, orderID int64) (model.OrderWithItems, error) {
	if userID <= 0 {
		return model.OrderWithItems{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return model.OrderWithItems{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.resolver.OrderWithItems(ctx, orderID)
	if err != nil {
		return model.OrderWithItems{}, repoError(ctx, u.log, err, "order not found")
	}
	if o.UserID != userID {
		return model.OrderWithItems{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	return o, nil
}

// 管理者向け：全注文
func (u *OrderUsecase) ListAllOrders(ctx context.Context) ([]model.Order, error) {
	orders, err := u.orders.List(ctx)
	if err != nil {
		return nil, repoError(ctx, u.log, err, "")
	}
	return orders, nil
}
