package memory

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type CategoryMemoryRepository struct {
	scope
}

func (r *CategoryMemoryRepository) Create(ctx context.Context, c model.Category) (model.Category, error) {
	var out model.Category
	err := r.write(func(db *database) error {
		dup := db.categories.filter(func(x model.Category) bool { return x.Name == c.Name })
		if len(dup) > 0 {
			return repo.ErrDuplicate
		}
		c.ID = db.categories.nextID()
		c.CreatedAt = r.now()
		db.categories.put(c.ID, c)
		out = c
		return nil
	})
	return out, err
}

func (r *CategoryMemoryRepository) FindByID(ctx context.Context, id int64) (model.Category, error) {
	var out model.Category
	err := r.read(func(db *database) error {
		c, ok := db.categories.get(id)
		if !ok {
			return repo.ErrNotFound
		}
		out = c
		return nil
	})
	return out, err
}

func (r *CategoryMemoryRepository) List(ctx context.Context) ([]model.Category, error) {
	var out []model.Category
	err := r.read(func(db *database) error {
		out = db.categories.filter(nil)
		return nil
	})
	return out, err
}

type BannerMemoryRepository struct {
	scope
}

func (r *BannerMemoryRepository) Create(ctx context.Context, b model.Banner) (model.Banner, error) {
	var out model.Banner
	err := r.write(func(db *database) error {
		b.ID = db.banners.nextID()
		b.CreatedAt = r.now()
		if b.Active == nil {
			active := true
			b.Active = &active
		}
		db.banners.put(b.ID, copyBanner(b))
		out = copyBanner(b)
		return nil
	})
	return out, err
}

func (r *BannerMemoryRepository) FindByID(ctx context.Context, id int64) (model.Banner, error) {
	var out model.Banner
	err := r.read(func(db *database) error {
		b, ok := db.banners.get(id)
		if !ok {
			return repo.ErrNotFound
		}
		out = copyBanner(b)
		return nil
	})
	return out, err
}

func (r *BannerMemoryRepository) ListActive(ctx context.Context) ([]model.Banner, error) {
	var out []model.Banner
	err := r.read(func(db *database) error {
		out = mapSlice(db.banners.filter(model.Banner.IsActive), copyBanner)
		return nil
	})
	return out, err
}
