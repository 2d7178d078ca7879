package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type ReviewRepository interface {
	// 作成と同時に商品のratingを再計算する（同一トランザクション）。
	// 商品が存在しなければ ErrInconsistentReference
	Create(ctx context.Context, r model.Review) (model.Review, error)
	FindByID(ctx context.Context, id int64) (model.Review, error)
	ListByProductID(ctx context.Context, productID int64) ([]model.Review, error)
}
