package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CartRepository interface {
	// 既にカートがあるユーザーなら ErrDuplicate
	Create(ctx context.Context, userID int64) (model.Cart, error)
	FindByID(ctx context.Context, id int64) (model.Cart, error)
	FindByUserID(ctx context.Context, userID int64) (model.Cart, error)
	// 無ければ作る
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error)
}
