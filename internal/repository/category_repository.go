package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CategoryRepository interface {
	// name が重複していたら ErrDuplicate
	Create(ctx context.Context, c model.Category) (model.Category, error)
	FindByID(ctx context.Context, id int64) (model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
}
