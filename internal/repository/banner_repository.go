package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type BannerRepository interface {
	Create(ctx context.Context, b model.Banner) (model.Banner, error)
	FindByID(ctx context.Context, id int64) (model.Banner, error)
	// active=true のものだけ
	ListActive(ctx context.Context) ([]model.Banner, error)
}
