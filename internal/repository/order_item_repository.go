package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type OrderItemRepository interface {
	Create(ctx context.Context, item model.OrderItem) (model.OrderItem, error)
	CreateBulk(ctx context.Context, items []model.OrderItem) ([]model.OrderItem, error)
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	List(ctx context.Context) ([]model.OrderItem, error)
}
