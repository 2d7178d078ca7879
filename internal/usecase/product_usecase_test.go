package usecase

import (
	"context"
	"net/http"
	"testing"

	repo "storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductUsecase_ListProducts(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.mustProduct(t, "Lamp", 20, 1)
	e.mustProduct(t, "Rug", 40, 1)
	_, err := e.product.AdminCreateProduct(ctx, 1, AdminCreateProductInput{Title: "Shirt", Category: "Fashion", Price: 10, Images: []string{"shirt.png"}})
	require.NoError(t, err)

	all, err := e.product.ListProducts(ctx, ListProductsInput{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	home, err := e.product.ListProducts(ctx, ListProductsInput{Category: "Home"})
	require.NoError(t, err)
	assert.Len(t, home, 2)

	limited, err := e.product.ListProducts(ctx, ListProductsInput{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "Lamp", limited[0].Title)

	_, err = e.product.ListProducts(ctx, ListProductsInput{Limit: -1})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid limit")
}

func TestProductUsecase_GetProduct(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	p := e.mustProduct(t, "Lamp", 20, 1)

	got, err := e.product.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = e.product.GetProduct(ctx, 0)
	assertHTTPError(t, err, http.StatusBadRequest, "invalid product id")

	_, err = e.product.GetProduct(ctx, 999)
	assertHTTPError(t, err, http.StatusNotFound, "product not found")
}

func TestProductUsecase_AdminCreateProduct_Validation(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	tests := []struct {
		name string
		in   AdminCreateProductInput
		msg  string
	}{
		{name: "no title", in: AdminCreateProductInput{Category: "Home"}, msg: "title required"},
		{name: "no category", in: AdminCreateProductInput{Title: "Lamp"}, msg: "category required"},
		{name: "negative price", in: AdminCreateProductInput{Title: "Lamp", Category: "Home", Price: -1}, msg: "price must be > 0"},
		{name: "zero price", in: AdminCreateProductInput{Title: "Free thing", Category: "Home", Stock: 1, Images: []string{"a.png"}}, msg: "price must be > 0"},
		{name: "negative stock", in: AdminCreateProductInput{Title: "Lamp", Category: "Home", Price: 10, Stock: -1}, msg: "stock must be >= 0"},
		{name: "discount over 100", in: AdminCreateProductInput{Title: "Lamp", Category: "Home", Price: 10, DiscountPercentage: ptr(120.0)}, msg: "discount_percentage must be between 0 and 100"},
		{name: "no images", in: AdminCreateProductInput{Title: "Lamp", Category: "Home", Price: 10, Stock: 1}, msg: "images required"},
		{name: "blank image", in: AdminCreateProductInput{Title: "Lamp", Category: "Home", Price: 10, Images: []string{"a.png", " "}}, msg: "images must not contain empty values"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.product.AdminCreateProduct(ctx, 1, tt.in)
			assertHTTPError(t, err, http.StatusBadRequest, tt.msg)
		})
	}
}

func TestProductUsecase_AdminUpdateProduct_Partial(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	created, err := e.product.AdminCreateProduct(ctx, 1, AdminCreateProductInput{
		Title: "Lamp", Description: "warm light", Category: "Home", Price: 20, Stock: 4,
		Images: []string{"a.png"},
	})
	require.NoError(t, err)

	updated, err := e.product.AdminUpdateProduct(ctx, 1, created.ID, repo.ProductPatch{Price: ptr(25.0)})
	require.NoError(t, err)
	assert.Equal(t, 25.0, updated.Price)
	assert.Equal(t, "Lamp", updated.Title)
	assert.Equal(t, "warm light", updated.Description)
	assert.Equal(t, int64(4), updated.Stock)
	assert.Equal(t, []string{"a.png"}, updated.Images)

	_, err = e.product.AdminUpdateProduct(ctx, 1, created.ID, repo.ProductPatch{Title: ptr("  ")})
	assertHTTPError(t, err, http.StatusBadRequest, "title required")

	//価格0・空の画像リストは不可。失敗時は何も変わらない
	_, err = e.product.AdminUpdateProduct(ctx, 1, created.ID, repo.ProductPatch{Price: ptr(0.0)})
	assertHTTPError(t, err, http.StatusBadRequest, "price must be > 0")

	_, err = e.product.AdminUpdateProduct(ctx, 1, created.ID, repo.ProductPatch{Images: []string{}})
	assertHTTPError(t, err, http.StatusBadRequest, "images required")

	got, err := e.product.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.0, got.Price)
	assert.Equal(t, []string{"a.png"}, got.Images)

	updated, err = e.product.AdminUpdateProduct(ctx, 1, created.ID, repo.ProductPatch{Images: []string{"b.png", "c.png"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"b.png", "c.png"}, updated.Images)

	_, err = e.product.AdminUpdateProduct(ctx, 1, 999, repo.ProductPatch{Price: ptr(1.0)})
	assertHTTPError(t, err, http.StatusNotFound, "product not found")
}

func TestProductUsecase_AdminDeleteProduct(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	p := e.mustProduct(t, "Lamp", 20, 1)

	require.NoError(t, e.product.AdminDeleteProduct(ctx, 1, p.ID))

	err := e.product.AdminDeleteProduct(ctx, 1, p.ID)
	assertHTTPError(t, err, http.StatusNotFound, "product not found")

	_, err = e.product.GetProduct(ctx, p.ID)
	assertHTTPError(t, err, http.StatusNotFound, "product not found")
}

func TestProductUsecase_Catalog(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	c, err := e.product.AdminCreateCategory(ctx, 1, AdminCreateCategoryInput{Name: " Home ", Image: "home.png"})
	require.NoError(t, err)
	assert.Equal(t, "Home", c.Name)

	_, err = e.product.AdminCreateCategory(ctx, 1, AdminCreateCategoryInput{Name: "Home"})
	assertHTTPError(t, err, http.StatusBadRequest, "category already exists")

	_, err = e.product.AdminCreateCategory(ctx, 1, AdminCreateCategoryInput{})
	assertHTTPError(t, err, http.StatusBadRequest, "name required")

	cats, err := e.product.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 1)

	_, err = e.product.AdminCreateBanner(ctx, 1, AdminCreateBannerInput{Image: "a.png"})
	require.NoError(t, err)
	_, err = e.product.AdminCreateBanner(ctx, 1, AdminCreateBannerInput{Image: "b.png", Active: ptr(false)})
	require.NoError(t, err)
	_, err = e.product.AdminCreateBanner(ctx, 1, AdminCreateBannerInput{})
	assertHTTPError(t, err, http.StatusBadRequest, "image required")

	//非アクティブは出さない
	banners, err := e.product.ListBanners(ctx)
	require.NoError(t, err)
	require.Len(t, banners, 1)
	assert.Equal(t, "a.png", banners[0].Image)
}
