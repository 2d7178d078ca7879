package memory

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/pkg/errors"
)

type ReviewMemoryRepository struct {
	scope
}

// レビュー追加と商品ratingの再計算を同じ書き込みロック内で行う
func (r *ReviewMemoryRepository) Create(ctx context.Context, rv model.Review) (model.Review, error) {
	var out model.Review
	err := r.write(func(db *database) error {
		p, ok := db.products.get(rv.ProductID)
		if !ok {
			return errors.Wrapf(repo.ErrInconsistentReference, "review product %d", rv.ProductID)
		}

		rv.ID = db.reviews.nextID()
		rv.CreatedAt = r.now()
		db.reviews.put(rv.ID, copyReview(rv))

		var ratings []int
		for _, x := range db.reviews.filter(func(x model.Review) bool { return x.ProductID == rv.ProductID }) {
			ratings = append(ratings, x.Rating)
		}
		p.Rating = model.MeanRating(ratings)
		db.products.put(p.ID, p)

		out = copyReview(rv)
		return nil
	})
	return out, err
}

func (r *ReviewMemoryRepository) FindByID(ctx context.Context, id int64) (model.Review, error) {
	var out model.Review
	err := r.read(func(db *database) error {
		rv, ok := db.reviews.get(id)
		if !ok {
			return repo.ErrNotFound
		}
		out = copyReview(rv)
		return nil
	})
	return out, err
}

func (r *ReviewMemoryRepository) ListByProductID(ctx context.Context, productID int64) ([]model.Review, error) {
	var out []model.Review
	err := r.read(func(db *database) error {
		out = mapSlice(db.reviews.filter(func(x model.Review) bool { return x.ProductID == productID }), copyReview)
		return nil
	})
	return out, err
}
