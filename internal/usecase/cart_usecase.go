package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/resolver"
)

// CartUsecase は /cart の業務ロジックです。
// カートは最初のアクセス時に作る。
type CartUsecase struct {
	tx        repo.TransactionManager
	carts     repo.CartRepository
	cartItems repo.CartItemRepository
	products  repo.ProductRepository
	resolver  *resolver.Resolver
	log       *slog.Logger
}

func NewCartUsecase(tx repo.TransactionManager, repos repo.Repos, res *resolver.Resolver, log *slog.Logger) *CartUsecase {
	return &CartUsecase{
		tx:        tx,
		carts:     repos.Carts,
		cartItems: repos.CartItems,
		products:  repos.Products,
		resolver:  res,
		log:       log,
	}
}

// quantityが0なら1として扱う
type AddCartItemInput struct {
	ProductID int64
	Quantity  int64
}

// GetCart はカート取得（無ければ作って空を返す）。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (model.CartWithItems, error) {
	if userID <= 0 {
		return model.CartWithItems{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.carts.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return model.CartWithItems{}, repoError(ctx, u.log, err, "")
	}

	out, err := u.resolver.CartView(ctx, cart)
	if err != nil {
		return model.CartWithItems{}, repoError(ctx, u.log, err, "")
	}
	return out, nil
}

// AddItem はカートに追加（同一商品は数量加算）。
func (u *CartUsecase) AddItem(ctx context.Context, userID int64, in AddCartItemInput) (model.CartItem, error) {
	if userID <= 0 {
		return model.CartItem{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return model.CartItem{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 0 {
		return model.CartItem{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}

	// 既存数量の読み取りから加算までを1トランザクションにし、同時追加で在庫を超えないようにする
	var item model.CartItem
	err := u.tx.WithinTx(ctx, func(r repo.Repos) error {
		cart, err := r.Carts.GetOrCreateByUserID(ctx, userID)
		if err != nil {
			return err
		}

		//商品チェック（削除済みは不可）
		p, err := r.Products.FindByID(ctx, in.ProductID)
		if err != nil {
			return repoError(ctx, u.log, err, "product not found")
		}

		//既存数量を足して在庫を超えないか
		items, err := r.CartItems.ListByCartID(ctx, cart.ID)
		if err != nil {
			return err
		}
		var existingQty int64
		for _, it := range items {
			if it.ProductID == in.ProductID {
				existingQty = it.Quantity
				break
			}
		}
		if existingQty+in.Quantity > p.Stock {
			return NewHTTPError(http.StatusBadRequest, "stock exceeded")
		}

		item, err = r.CartItems.Upsert(ctx, model.CartItem{
			CartID:    cart.ID,
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
		})
		return err
	})
	if err != nil {
		return model.CartItem{}, repoError(ctx, u.log, err, "")
	}
	return item, nil
}

// 数量変更（所有チェック＋在庫チェック）。
func (u *CartUsecase) UpdateItem(ctx context.Context, userID int64, cartItemID int64, quantity int64) (model.CartItem, error) {
	if userID <= 0 {
		return model.CartItem{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return model.CartItem{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if quantity < 1 {
		return model.CartItem{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	item, err := u.ownedItem(ctx, userID, cartItemID)
	if err != nil {
		return model.CartItem{}, err
	}

	p, err := u.products.FindByID(ctx, item.ProductID)
	if err != nil {
		return model.CartItem{}, repoError(ctx, u.log, err, "product not found")
	}
	if quantity > p.Stock {
		return model.CartItem{}, NewHTTPError(http.StatusBadRequest, "stock exceeded")
	}

	updated, err := u.cartItems.UpdateQuantity(ctx, cartItemID, quantity)
	if err != nil {
		return model.CartItem{}, repoError(ctx, u.log, err, "cart item not found")
	}
	return updated, nil
}

// 明細削除
func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, cartItemID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if _, err := u.ownedItem(ctx, userID, cartItemID); err != nil {
		return err
	}

	existed, err := u.cartItems.Delete(ctx, cartItemID)
	if err != nil {
		return repoError(ctx, u.log, err, "")
	}
	if !existed {
		return NewHTTPError(http.StatusNotFound, "cart item not found")
	}
	return nil
}

// 他人の明細は「存在しない扱い」にする
func (u *CartUsecase) ownedItem(ctx context.Context, userID int64, cartItemID int64) (model.CartItem, error) {
	item, err := u.cartItems.FindByID(ctx, cartItemID)
	if err != nil {
		return model.CartItem{}, repoError(ctx, u.log, err, "cart item not found")
	}

	cart, err := u.carts.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.CartItem{}, NewHTTPError(http.StatusNotFound, "cart item not found")
	}
	if err != nil {
		return model.CartItem{}, repoError(ctx, u.log, err, "")
	}
	if item.CartID != cart.ID {
		return model.CartItem{}, NewHTTPError(http.StatusNotFound, "cart item not found")
	}
	return item, nil
}
