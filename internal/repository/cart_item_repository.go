package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CartItemRepository interface {
	// 同じ (cart_id, product_id) があれば数量を加算、無ければ追加。
	// quantity が0以下なら1として扱う
	Upsert(ctx context.Context, item model.CartItem) (model.CartItem, error)
	FindByID(ctx context.Context, id int64) (model.CartItem, error)
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	UpdateQuantity(ctx context.Context, id int64, quantity int64) (model.CartItem, error)
	Delete(ctx context.Context, id int64) (bool, error)
	// 消した件数を返す
	DeleteByCartID(ctx context.Context, cartID int64) (int64, error)
}
