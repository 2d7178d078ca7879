// Package resolver は外部キーを辿って複合ビューを組み立てる（読み取り専用）。
//
// 商品・ユーザーの削除はtombstoneなので、過去の注文やレビューからは削除済みでも解決できる。
// 参照先がどこにも無い場合だけ repository.ErrInconsistentReference を返す。
package resolver

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	pkgerrors "github.com/pkg/errors"
)

type Resolver struct {
	users      repo.UserRepository
	products   repo.ProductRepository
	carts      repo.CartRepository
	cartItems  repo.CartItemRepository
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	reviews    repo.ReviewRepository
}

// DI
func New(r repo.Repos) *Resolver {
	return &Resolver{
		users:      r.Users,
		products:   r.Products,
		carts:      r.Carts,
		cartItems:  r.CartItems,
		orders:     r.Orders,
		orderItems: r.OrderItems,
		reviews:    r.Reviews,
	}
}

// ユーザーのカートと明細（商品付き）。カートが無ければ ErrNotFound
func (r *Resolver) CartWithItems(ctx context.Context, userID int64) (model.CartWithItems, error) {
	cart, err := r.carts.FindByUserID(ctx, userID)
	if err != nil {
		return model.CartWithItems{}, err
	}
	return r.CartView(ctx, cart)
}

// 取得済みのカートに明細を付ける
func (r *Resolver) CartView(ctx context.Context, cart model.Cart) (model.CartWithItems, error) {
	items, err := r.cartItems.ListByCartID(ctx, cart.ID)
	if err != nil {
		return model.CartWithItems{}, err
	}

	out := make([]model.CartItemWithProduct, 0, len(items))
	for _, it := range items {
		p, err := r.Product(ctx, it.ProductID)
		if err != nil {
			return model.CartWithItems{}, err
		}
		out = append(out, model.CartItemWithProduct{CartItem: it, Product: p})
	}

	return model.CartWithItems{Cart: cart, Items: out}, nil
}

// 注文と明細（商品付き）。注文が無ければ ErrNotFound
func (r *Resolver) OrderWithItems(ctx context.Context, orderID int64) (model.OrderWithItems, error) {
	order, err := r.orders.FindByID(ctx, orderID)
	if err != nil {
		return model.OrderWithItems{}, err
	}
	return r.OrderView(ctx, order)
}

func (r *Resolver) OrderView(ctx context.Context, order model.Order) (model.OrderWithItems, error) {
	items, err := r.orderItems.ListByOrderID(ctx, order.ID)
	if err != nil {
		return model.OrderWithItems{}, err
	}

	out := make([]model.OrderItemWithProduct, 0, len(items))
	for _, it := range items {
		p, err := r.Product(ctx, it.ProductID)
		if err != nil {
			return model.OrderWithItems{}, err
		}
		out = append(out, model.OrderItemWithProduct{OrderItem: it, Product: p})
	}

	return model.OrderWithItems{Order: order, Items: out}, nil
}

// 商品のレビュー（投稿者付き）
func (r *Resolver) ProductReviews(ctx context.Context, productID int64) ([]model.ReviewWithUser, error) {
	reviews, err := r.reviews.ListByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}

	out := make([]model.ReviewWithUser, 0, len(reviews))
	for _, rv := range reviews {
		u, err := r.User(ctx, rv.UserID)
		if err != nil {
			return nil, err
		}
		out = append(out, model.ReviewWithUser{Review: rv, User: u})
	}
	return out, nil
}

// 削除済みも含めて商品を引く。どこにも無ければ ErrInconsistentReference
func (r *Resolver) Product(ctx context.Context, id int64) (model.Product, error) {
	p, err := r.products.FindByIDWithDeleted(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, pkgerrors.Wrapf(repo.ErrInconsistentReference, "product %d", id)
	}
	return p, err
}

// 削除済みも含めてユーザーを引く。どこにも無ければ ErrInconsistentReference
func (r *Resolver) User(ctx context.Context, id int64) (model.User, error) {
	u, err := r.users.FindByIDWithDeleted(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.User{}, pkgerrors.Wrapf(repo.ErrInconsistentReference, "user %d", id)
	}
	return u, err
}
