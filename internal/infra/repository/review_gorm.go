package repository

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewGormRepository struct {
	db *gorm.DB
}

// DI
func NewReviewGormRepository(db *gorm.DB) *ReviewGormRepository {
	return &ReviewGormRepository{db: db}
}

// 商品行をロックしてからレビュー追加→rating再計算
func (r *ReviewGormRepository) Create(ctx context.Context, rv model.Review) (model.Review, error) {
	rv.ID = 0
	rv.CreatedAt = time.Time{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p model.Product
		err := tx.Unscoped().
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&p, rv.ProductID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrapf(repo.ErrInconsistentReference, "review product %d", rv.ProductID)
		}
		if err != nil {
			return err
		}

		if err := tx.Create(&rv).Error; err != nil {
			return err
		}

		var ratings []int
		if err := tx.Model(&model.Review{}).
			Where("product_id = ?", rv.ProductID).
			Pluck("rating", &ratings).Error; err != nil {
			return err
		}

		return tx.Unscoped().Model(&model.Product{}).
			Where("id = ?", rv.ProductID).
			Update("rating", model.MeanRating(ratings)).Error
	})
	if err != nil {
		return model.Review{}, mapErr(err, "review create")
	}
	return rv, nil
}

func (r *ReviewGormRepository) FindByID(ctx context.Context, id int64) (model.Review, error) {
	var rv model.Review
	if err := r.db.WithContext(ctx).First(&rv, id).Error; err != nil {
		return model.Review{}, mapErr(err, "review find")
	}
	return rv, nil
}

func (r *ReviewGormRepository) ListByProductID(ctx context.Context, productID int64) ([]model.Review, error) {
	var rvs []model.Review
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id asc").
		Find(&rvs).Error; err != nil {
		return []model.Review{}, mapErr(err, "review list")
	}
	return rvs, nil
}
