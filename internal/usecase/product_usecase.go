package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// 商品・カテゴリ・バナー（カタログ）の業務ロジック
type ProductUsecase struct {
	repos repo.Repos
	audit *Auditor
	log   *slog.Logger
}

// DI
func NewProductUsecase(repos repo.Repos, audit *Auditor, log *slog.Logger) *ProductUsecase {
	return &ProductUsecase{repos: repos, audit: audit, log: log}
}

// GET /productsの入力
type ListProductsInput struct {
	Category string
	Limit    int
}

func (u *ProductUsecase) ListProducts(ctx context.Context, in ListProductsInput) ([]model.Product, error) {
	if in.Limit < 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	items, err := u.repos.Products.List(ctx, repo.ProductFilter{
		Category: strings.TrimSpace(in.Category),
		Limit:    in.Limit,
	})
	if err != nil {
		return nil, repoError(ctx, u.log, err, "")
	}
	return items, nil
}

func (u *ProductUsecase) GetProduct(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	p, err := u.repos.Products.FindByID(ctx, productID)
	if err != nil {
		return model.Product{}, repoError(ctx, u.log, err, "product not found")
	}
	return p, nil
}

func (u *ProductUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	cs, err := u.repos.Categories.List(ctx)
	if err != nil {
		return nil, repoError(ctx, u.log, err, "")
	}
	return cs, nil
}

func (u *ProductUsecase) ListBanners(ctx context.Context) ([]model.Banner, error) {
	bs, err := u.repos.Banners.ListActive(ctx)
	if err != nil {
		return nil, repoError(ctx, u.log, err, "")
	}
	return bs, nil
}

type AdminCreateProductInput struct {
	Title              string
	Description        string
	Price              float64
	DiscountPercentage *float64
	Stock              int64
	Brand              string
	Category           string
	Thumbnail          string
	Images             []string
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, adminUserID int64, in AdminCreateProductInput) (model.Product, error) {
	if adminUserID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.Title) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "title required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "category required")
	}
	if err := checkProductNumbers(&in.Price, in.DiscountPercentage, &in.Stock); err != nil {
		return model.Product{}, err
	}
	if err := checkProductImages(in.Images, true); err != nil {
		return model.Product{}, err
	}

	p, err := u.repos.Products.Create(ctx, model.Product{
		Title:              strings.TrimSpace(in.Title),
		Description:        in.Description,
		Price:              in.Price,
		DiscountPercentage: in.DiscountPercentage,
		Stock:              in.Stock,
		Brand:              in.Brand,
		Category:           strings.TrimSpace(in.Category),
		Thumbnail:          in.Thumbnail,
		Images:             in.Images,
	})
	if err != nil {
		return model.Product{}, repoError(ctx, u.log, err, "")
	}

	u.audit.Record(ctx, adminUserID, model.AuditActionCreate, model.AuditResourceProduct, p.ID, nil, p)
	return p, nil
}

// 部分更新。nilのフィールドはそのまま
func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, adminUserID int64, productID int64, patch repo.ProductPatch) (model.Product, error) {
	if adminUserID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "title required")
	}
	if patch.Category != nil && strings.TrimSpace(*patch.Category) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "category required")
	}
	if err := checkProductNumbers(patch.Price, patch.DiscountPercentage, patch.Stock); err != nil {
		return model.Product{}, err
	}
	if err := checkProductImages(patch.Images, patch.Images != nil); err != nil {
		return model.Product{}, err
	}

	//変更前（before）
	before, err := u.repos.Products.FindByID(ctx, productID)
	if err != nil {
		return model.Product{}, repoError(ctx, u.log, err, "product not found")
	}

	after, err := u.repos.Products.Update(ctx, productID, patch)
	if err != nil {
		return model.Product{}, repoError(ctx, u.log, err, "product not found")
	}

	u.audit.Record(ctx, adminUserID, model.AuditActionUpdate, model.AuditResourceProduct, productID, before, after)
	return after, nil
}

func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, adminUserID int64, productID int64) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	existed, err := u.repos.Products.Delete(ctx, productID)
	if err != nil {
		return repoError(ctx, u.log, err, "")
	}
	if !existed {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}

	u.audit.Record(ctx, adminUserID, model.AuditActionDelete, model.AuditResourceProduct, productID, nil, nil)
	return nil
}

type AdminCreateCategoryInput struct {
	Name  string
	Image string
}

func (u *ProductUsecase) AdminCreateCategory(ctx context.Context, adminUserID int64, in AdminCreateCategoryInput) (model.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "name required")
	}

	c, err := u.repos.Categories.Create(ctx, model.Category{Name: name, Image: in.Image})
	if errors.Is(err, repo.ErrDuplicate) {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "category already exists")
	}
	if err != nil {
		return model.Category{}, repoError(ctx, u.log, err, "")
	}

	u.audit.Record(ctx, adminUserID, model.AuditActionCreate, model.AuditResourceCategory, c.ID, nil, c)
	return c, nil
}

type AdminCreateBannerInput struct {
	Image  string
	Link   string
	Active *bool
}

func (u *ProductUsecase) AdminCreateBanner(ctx context.Context, adminUserID int64, in AdminCreateBannerInput) (model.Banner, error) {
	if strings.TrimSpace(in.Image) == "" {
		return model.Banner{}, NewHTTPError(http.StatusBadRequest, "image required")
	}

	b, err := u.repos.Banners.Create(ctx, model.Banner{
		Image:  strings.TrimSpace(in.Image),
		Link:   in.Link,
		Active: in.Active,
	})
	if err != nil {
		return model.Banner{}, repoError(ctx, u.log, err, "")
	}

	u.audit.Record(ctx, adminUserID, model.AuditActionCreate, model.AuditResourceBanner, b.ID, nil, b)
	return b, nil
}

// nilは未指定としてスキップ
func checkProductNumbers(price, discount *float64, stock *int64) error {
	if price != nil && *price <= 0 {
		return NewHTTPError(http.StatusBadRequest, "price must be > 0")
	}
	if discount != nil && (*discount < 0 || *discount > 100) {
		return NewHTTPError(http.StatusBadRequest, "discount_percentage must be between 0 and 100")
	}
	if stock != nil && *stock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	return nil
}

// 画像は1枚以上。空文字のURLは不可
func checkProductImages(images []string, required bool) error {
	if !required {
		return nil
	}
	if len(images) == 0 {
		return NewHTTPError(http.StatusBadRequest, "images required")
	}
	for _, img := range images {
		if strings.TrimSpace(img) == "" {
			return NewHTTPError(http.StatusBadRequest, "images must not contain empty values")
		}
	}
	return nil
}
