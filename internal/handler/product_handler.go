package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// JSONを読み取ってvalidateタグを検証する
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return usecase.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(req); err != nil {
		return usecase.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, usecase.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// 公開カタログ（商品・カテゴリ・バナー・レビュー）
type ProductHandler struct {
	uc      *usecase.ProductUsecase
	reviews *usecase.ReviewUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase, reviews *usecase.ReviewUsecase) *ProductHandler {
	return &ProductHandler{uc: uc, reviews: reviews}
}

type CreateReviewRequest struct {
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment"`
}

// 公開ルートを登録。レビュー投稿だけ認証が要る
func (h *ProductHandler) RegisterRoutes(api *echo.Group, authed ...echo.MiddlewareFunc) {
	api.GET("/categories", h.listCategories)
	api.GET("/banners", h.listBanners)
	api.GET("/products", h.list)
	api.GET("/products/:id", h.get)
	api.GET("/products/category/:category", h.listByCategory)
	api.GET("/products/:id/reviews", h.listReviews)
	api.POST("/products/:id/reviews", h.createReview, authed...)
}

func (h *ProductHandler) listCategories(c echo.Context) error {
	out, err := h.uc.ListCategories(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) listBanners(c echo.Context) error {
	out, err := h.uc.ListBanners(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// ?limit=&category=
func (h *ProductHandler) list(c echo.Context) error {
	in := usecase.ListProductsInput{Category: c.QueryParam("category")}
	if v := c.QueryParam("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		in.Limit = limit
	}

	out, err := h.uc.ListProducts(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) get(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	p, err := h.uc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) listByCategory(c echo.Context) error {
	out, err := h.uc.ListProducts(c.Request().Context(), usecase.ListProductsInput{
		Category: c.Param("category"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) listReviews(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.reviews.ListReviews(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) createReview(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req CreateReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	rv, err := h.reviews.CreateReview(c.Request().Context(), userID, id, usecase.CreateReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, rv)
}
