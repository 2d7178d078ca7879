package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// total_amountを省略するとカートの合計になる
type PlaceOrderRequest struct {
	ShippingAddress string   `json:"shipping_address" validate:"required"`
	PaymentMethod   string   `json:"payment_method" validate:"required"`
	TotalAmount     *float64 `json:"total_amount" validate:"omitempty,gte=0"`
}

func (h *OrderHandler) RegisterRoutes(api *echo.Group, authed ...echo.MiddlewareFunc) {
	g := api.Group("/orders", authed...)
	g.GET("", h.listMine)
	g.GET("/:id", h.getMine)
	g.POST("", h.place)
}

func (h *OrderHandler) place(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req PlaceOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), userID, usecase.PlaceOrderInput{
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		TotalAmount:     req.TotalAmount,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) listMine(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListMyOrders(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) getMine(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.GetMyOrder(c.Request().Context(), userID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
