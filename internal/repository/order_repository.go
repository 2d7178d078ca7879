package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type OrderRepository interface {
	// statusが空ならpending。created_atがゼロなら現在時刻
	Create(ctx context.Context, o model.Order) (model.Order, error)
	FindByID(ctx context.Context, id int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)
	List(ctx context.Context) ([]model.Order, error)
	Count(ctx context.Context) (int64, error)
}
