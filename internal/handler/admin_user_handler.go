package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminUserHandler struct {
	uc *usecase.AdminUsecase
}

func NewAdminUserHandler(uc *usecase.AdminUsecase) *AdminUserHandler {
	return &AdminUserHandler{uc: uc}
}

type SetAdminRequest struct {
	IsAdmin *bool `json:"is_admin" validate:"required"`
}

func (h *AdminUserHandler) RegisterRoutes(admin *echo.Group) {
	admin.GET("/users", h.list)
	admin.POST("/users", h.create)
	admin.DELETE("/users/:id", h.delete)
	admin.PATCH("/users/:id", h.setAdmin)
	admin.GET("/audit-logs", h.listAuditLogs)
}

func (h *AdminUserHandler) list(c echo.Context) error {
	out, err := h.uc.ListUsers(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminUserHandler) create(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	u, err := h.uc.CreateUser(c.Request().Context(), adminID, req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *AdminUserHandler) delete(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.DeleteUser(c.Request().Context(), adminID, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminUserHandler) setAdmin(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req SetAdminRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	u, err := h.uc.SetAdmin(c.Request().Context(), adminID, id, *req.IsAdmin)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}
