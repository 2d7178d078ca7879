package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type CategoryGormRepository struct {
	db *gorm.DB
}

// DI
func NewCategoryGormRepository(db *gorm.DB) *CategoryGormRepository {
	return &CategoryGormRepository{db: db}
}

// nameの一意性はuniqueIndexに任せる（違反は ErrDuplicate）
func (r *CategoryGormRepository) Create(ctx context.Context, c model.Category) (model.Category, error) {
	c.ID = 0
	c.CreatedAt = time.Time{}
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return model.Category{}, mapErr(err, "category create")
	}
	return c, nil
}

func (r *CategoryGormRepository) FindByID(ctx context.Context, id int64) (model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return model.Category{}, mapErr(err, "category find")
	}
	return c, nil
}

func (r *CategoryGormRepository) List(ctx context.Context) ([]model.Category, error) {
	var cs []model.Category
	if err := r.db.WithContext(ctx).Order("id asc").Find(&cs).Error; err != nil {
		return []model.Category{}, mapErr(err, "category list")
	}
	return cs, nil
}

type BannerGormRepository struct {
	db *gorm.DB
}

// DI
func NewBannerGormRepository(db *gorm.DB) *BannerGormRepository {
	return &BannerGormRepository{db: db}
}

func (r *BannerGormRepository) Create(ctx context.Context, b model.Banner) (model.Banner, error) {
	b.ID = 0
	b.CreatedAt = time.Time{}
	if b.Active == nil {
		active := true
		b.Active = &active
	}
	if err := r.db.WithContext(ctx).Create(&b).Error; err != nil {
		return model.Banner{}, mapErr(err, "banner create")
	}
	return b, nil
}

func (r *BannerGormRepository) FindByID(ctx context.Context, id int64) (model.Banner, error) {
	var b model.Banner
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return model.Banner{}, mapErr(err, "banner find")
	}
	return b, nil
}

func (r *BannerGormRepository) ListActive(ctx context.Context) ([]model.Banner, error) {
	var bs []model.Banner
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("id asc").Find(&bs).Error; err != nil {
		return []model.Banner{}, mapErr(err, "banner list")
	}
	return bs, nil
}

var _ repo.BannerRepository = (*BannerGormRepository)(nil)
