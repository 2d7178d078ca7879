package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cartのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

// quantityは省略すると1
type AddCartItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int64 `json:"quantity" validate:"gte=0"`
}

type UpdateCartItemRequest struct {
	Quantity int64 `json:"quantity" validate:"required,min=1"`
}

// /cart, /cart/items/{id} を登録
func (h *CartHandler) RegisterRoutes(api *echo.Group, authed ...echo.MiddlewareFunc) {
	g := api.Group("/cart", authed...)

	g.GET("", h.getCart)
	g.POST("/items", h.addItem)
	g.PUT("/items/:id", h.updateItem)
	g.DELETE("/items/:id", h.deleteItem)
}

func (h *CartHandler) getCart(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.GetCart(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addItem(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req AddCartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.AddItem(c.Request().Context(), userID, usecase.AddCartItemInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *CartHandler) updateItem(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	itemID, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req UpdateCartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.UpdateItem(c.Request().Context(), userID, itemID, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) deleteItem(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	itemID, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.RemoveItem(c.Request().Context(), userID, itemID); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
