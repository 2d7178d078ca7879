package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	p.ID = 0
	p.CreatedAt = time.Time{}
	if p.Images == nil {
		p.Images = []string{}
	}
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, mapErr(err, "product create")
	}
	return p, nil
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return model.Product{}, mapErr(err, "product find")
	}
	return p, nil
}

// 削除済みも含めて取得
func (r *ProductGormRepository) FindByIDWithDeleted(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).Unscoped().First(&p, id).Error; err != nil {
		return model.Product{}, mapErr(err, "product find unscoped")
	}
	return p, nil
}

func (r *ProductGormRepository) List(ctx context.Context, f repo.ProductFilter) ([]model.Product, error) {
	var products []model.Product

	tx := r.db.WithContext(ctx).Model(&model.Product{})
	if f.Category != "" {
		tx = tx.Where("category = ?", f.Category)
	}
	tx = tx.Order("id asc")
	if f.Limit > 0 {
		tx = tx.Limit(f.Limit)
	}

	if err := tx.Find(&products).Error; err != nil {
		return []model.Product{}, mapErr(err, "product list")
	}
	return products, nil
}

func (r *ProductGormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&n).Error; err != nil {
		return 0, mapErr(err, "product count")
	}
	return n, nil
}

func (r *ProductGormRepository) Update(ctx context.Context, id int64, patch repo.ProductPatch) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error; err != nil {
			return err
		}
		patch.Apply(&p)
		return tx.Save(&p).Error
	})
	if err != nil {
		return model.Product{}, mapErr(err, "product update")
	}
	return p, nil
}

// 在庫を増減（マイナスになるなら ErrInsufficientStock）
func (r *ProductGormRepository) AdjustStock(ctx context.Context, id int64, delta int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error; err != nil {
			return err
		}
		if p.Stock+delta < 0 {
			return repo.ErrInsufficientStock
		}
		p.Stock += delta
		return tx.Model(&model.Product{}).Where("id = ?", id).Update("stock", p.Stock).Error
	})
	if err != nil {
		return model.Product{}, mapErr(err, "product adjust stock")
	}
	return p, nil
}

// soft deleteし、カート明細からは消す
func (r *ProductGormRepository) Delete(ctx context.Context, id int64) (bool, error) {
	existed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		existed = true
		return tx.Where("product_id = ?", id).Delete(&model.CartItem{}).Error
	})
	if err != nil {
		return false, mapErr(err, "product delete")
	}
	return existed, nil
}
