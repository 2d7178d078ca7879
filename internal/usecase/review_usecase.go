package usecase

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/resolver"
)

type ReviewUsecase struct {
	products repo.ProductRepository
	reviews  repo.ReviewRepository
	resolver *resolver.Resolver
	log      *slog.Logger
}

// DI
func NewReviewUsecase(repos repo.Repos, res *resolver.Resolver, log *slog.Logger) *ReviewUsecase {
	return &ReviewUsecase{
		products: repos.Products,
		reviews:  repos.Reviews,
		resolver: res,
		log:      log,
	}
}

type CreateReviewInput struct {
	Rating  int
	Comment *string
}

// 投稿者付きのレビュー一覧（投稿順）
func (u *ReviewUsecase) ListReviews(ctx context.Context, productID int64) ([]model.ReviewWithUser, error) {
	if productID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	out, err := u.resolver.ProductReviews(ctx, productID)
	if err != nil {
		return nil, repoError(ctx, u.log, err, "")
	}
	return out, nil
}

// レビュー投稿。商品のratingはリポジトリ側で再計算される
func (u *ReviewUsecase) CreateReview(ctx context.Context, userID int64, productID int64, in CreateReviewInput) (model.Review, error) {
	if userID <= 0 {
		return model.Review{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return model.Review{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return model.Review{}, NewHTTPError(http.StatusBadRequest, "rating must be between 1 and 5")
	}

	//削除済みの商品にはレビューできない
	if _, err := u.products.FindByID(ctx, productID); err != nil {
		return model.Review{}, repoError(ctx, u.log, err, "product not found")
	}

	comment := in.Comment
	if comment != nil {
		trimmed := strings.TrimSpace(*comment)
		comment = &trimmed
	}

	rv, err := u.reviews.Create(ctx, model.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    in.Rating,
		Comment:   comment,
	})
	if err != nil {
		return model.Review{}, repoError(ctx, u.log, err, "")
	}
	return rv, nil
}
