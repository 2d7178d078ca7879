package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin/orders と /admin/analytics
type AdminOrderHandler struct {
	orders *usecase.OrderUsecase
	admin  *usecase.AdminUsecase
}

func NewAdminOrderHandler(orders *usecase.OrderUsecase, admin *usecase.AdminUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{orders: orders, admin: admin}
}

func (h *AdminOrderHandler) RegisterRoutes(admin *echo.Group) {
	admin.GET("/orders", h.list)
	admin.GET("/analytics", h.analytics)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	out, err := h.orders.ListAllOrders(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// ?timeframe=7d|30d|90d
func (h *AdminOrderHandler) analytics(c echo.Context) error {
	out, err := h.admin.Analytics(c.Request().Context(), c.QueryParam("timeframe"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
