package handler

import (
	"net/http"

	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ProductCreateRequest struct {
	Title              string   `json:"title" validate:"required"`
	Description        string   `json:"description"`
	Price              float64  `json:"price" validate:"gt=0"`
	DiscountPercentage *float64 `json:"discount_percentage" validate:"omitempty,gte=0,lte=100"`
	Stock              int64    `json:"stock" validate:"gte=0"`
	Brand              string   `json:"brand"`
	Category           string   `json:"category" validate:"required"`
	Thumbnail          string   `json:"thumbnail"`
	Images             []string `json:"images" validate:"required,min=1,dive,required"`
}

// 部分更新。省略したフィールドは変更しない
type ProductPatchRequest struct {
	Title              *string  `json:"title"`
	Description        *string  `json:"description"`
	Price              *float64 `json:"price" validate:"omitempty,gt=0"`
	DiscountPercentage *float64 `json:"discount_percentage" validate:"omitempty,gte=0,lte=100"`
	Stock              *int64   `json:"stock" validate:"omitempty,gte=0"`
	Brand              *string  `json:"brand"`
	Category           *string  `json:"category"`
	Thumbnail          *string  `json:"thumbnail"`
	Images             []string `json:"images" validate:"dive,required"`
}

type CategoryCreateRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Image string `json:"image"`
}

type BannerCreateRequest struct {
	Image  string `json:"image" validate:"required"`
	Link   string `json:"link"`
	Active *bool  `json:"active"`
}

// /admin/products, /admin/categories, /admin/banners をまとめる
type AdminProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewAdminProductHandler(uc *usecase.ProductUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

// adminグループ（認証＋ADMIN確認済み）に登録
func (h *AdminProductHandler) RegisterRoutes(admin *echo.Group) {
	admin.POST("/products", h.createProduct)
	admin.PATCH("/products/:id", h.updateProduct)
	admin.DELETE("/products/:id", h.deleteProduct)
	admin.POST("/categories", h.createCategory)
	admin.POST("/banners", h.createBanner)
}

func (h *AdminProductHandler) createProduct(c echo.Context) error {
	var req ProductCreateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	p, err := h.uc.AdminCreateProduct(
		c.Request().Context(),
		adminID,
		usecase.AdminCreateProductInput{
			Title:              req.Title,
			Description:        req.Description,
			Price:              req.Price,
			DiscountPercentage: req.DiscountPercentage,
			Stock:              req.Stock,
			Brand:              req.Brand,
			Category:           req.Category,
			Thumbnail:          req.Thumbnail,
			Images:             req.Images,
		},
	)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, p)
}

func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req ProductPatchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	p, err := h.uc.AdminUpdateProduct(c.Request().Context(), adminID, id, repo.ProductPatch{
		Title:              req.Title,
		Description:        req.Description,
		Price:              req.Price,
		DiscountPercentage: req.DiscountPercentage,
		Stock:              req.Stock,
		Brand:              req.Brand,
		Category:           req.Category,
		Thumbnail:          req.Thumbnail,
		Images:             req.Images,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, p)
}

func (h *AdminProductHandler) deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.AdminDeleteProduct(c.Request().Context(), adminID, id); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AdminProductHandler) createCategory(c echo.Context) error {
	var req CategoryCreateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.AdminCreateCategory(c.Request().Context(), adminID, usecase.AdminCreateCategoryInput{
		Name:  req.Name,
		Image: req.Image,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminProductHandler) createBanner(c echo.Context) error {
	var req BannerCreateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.AdminCreateBanner(c.Request().Context(), adminID, usecase.AdminCreateBannerInput{
		Image:  req.Image,
		Link:   req.Link,
		Active: req.Active,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

//middleware.AuthJWT が c.Set("user_id", int64) した値を取り出す

func getUserIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get("user_id")
	if v == nil {
		return 0, false
	}

	id, ok := v.(int64)
	if !ok {
		return 0, false
	}

	return id, true
}
