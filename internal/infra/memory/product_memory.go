package memory

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type ProductMemoryRepository struct {
	scope
}

func (r *ProductMemoryRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	var out model.Product
	err := r.write(func(db *database) error {
		p.ID = db.products.nextID()
		p.CreatedAt = r.now()
		p.DeletedAt = gorm.DeletedAt{}
		if p.Images == nil {
			p.Images = []string{}
		}
		db.products.put(p.ID, copyProduct(p))
		out = copyProduct(p)
		return nil
	})
	return out, err
}

func (r *ProductMemoryRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var out model.Product
	err := r.read(func(db *database) error {
		p, ok := db.products.get(id)
		if !ok || p.Deleted() {
			return repo.ErrNotFound
		}
		out = copyProduct(p)
		return nil
	})
	return out, err
}

func (r *ProductMemoryRepository) FindByIDWithDeleted(ctx context.Context, id int64) (model.Product, error) {
	var out model.Product
	err := r.read(func(db *database) error {
		p, ok := db.products.get(id)
		if !ok {
			return repo.ErrNotFound
		}
		out = copyProduct(p)
		return nil
	})
	return out, err
}

func (r *ProductMemoryRepository) List(ctx context.Context, f repo.ProductFilter) ([]model.Product, error) {
	var out []model.Product
	err := r.read(func(db *database) error {
		out = db.products.filter(func(p model.Product) bool {
			if p.Deleted() {
				return false
			}
			return f.Category == "" || p.Category == f.Category
		})
		if f.Limit > 0 && len(out) > f.Limit {
			out = out[:f.Limit]
		}
		out = mapSlice(out, copyProduct)
		return nil
	})
	return out, err
}

func (r *ProductMemoryRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.read(func(db *database) error {
		n = int64(len(db.products.filter(func(p model.Product) bool { return !p.Deleted() })))
		return nil
	})
	return n, err
}

func (r *ProductMemoryRepository) Update(ctx context.Context, id int64, patch repo.ProductPatch) (model.Product, error) {
	var out model.Product
	err := r.write(func(db *database) error {
		p, ok := db.products.get(id)
		if !ok || p.Deleted() {
			return repo.ErrNotFound
		}
		patch.Apply(&p)
		db.products.put(id, copyProduct(p))
		out = copyProduct(p)
		return nil
	})
	return out, err
}

func (r *ProductMemoryRepository) AdjustStock(ctx context.Context, id int64, delta int64) (model.Product, error) {
	var out model.Product
	err := r.write(func(db *database) error {
		p, ok := db.products.get(id)
		if !ok || p.Deleted() {
			return repo.ErrNotFound
		}
		if p.Stock+delta < 0 {
			return repo.ErrInsufficientStock
		}
		p.Stock += delta
		db.products.put(id, p)
		out = copyProduct(p)
		return nil
	})
	return out, err
}

// tombstoneを立て、その商品のカート明細を消す。注文明細とレビューは残す
func (r *ProductMemoryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	existed := false
	err := r.write(func(db *database) error {
		p, ok := db.products.get(id)
		if !ok || p.Deleted() {
			return nil
		}
		p.DeletedAt = gorm.DeletedAt{Time: r.now(), Valid: true}
		db.products.put(id, p)

		for _, it := range db.cartItems.filter(func(it model.CartItem) bool { return it.ProductID == id }) {
			db.cartItems.remove(it.ID)
		}
		existed = true
		return nil
	})
	return existed, err
}
