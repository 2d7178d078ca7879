package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	uc *usecase.AuthUsecase
}

// DIコンストラクタ
func NewAuthHandler(uc *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// /api/register と /api/admin/users のリクエストボディ。
type RegisterRequest struct {
	Username string  `json:"username" validate:"required,max=64"`
	Password string  `json:"password" validate:"required,min=6"`
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	City     *string `json:"city"`
	State    *string `json:"state"`
	Pincode  *string `json:"pincode"`
	IsAdmin  bool    `json:"is_admin"`
}

func (r RegisterRequest) toInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Username: r.Username,
		Password: r.Password,
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Address:  r.Address,
		City:     r.City,
		State:    r.State,
		Pincode:  r.Pincode,
		IsAdmin:  r.IsAdmin,
	}
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) RegisterRoutes(api *echo.Group, authed ...echo.MiddlewareFunc) {
	api.POST("/register", h.register)
	api.POST("/login", h.login)
	api.GET("/user", h.me, authed...)
	api.GET("/check-admin", h.checkAdmin, authed...)
}

// POST /api/register
func (h *AuthHandler) register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Register(c.Request().Context(), req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

// POST /api/login
func (h *AuthHandler) login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) me(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	u, err := h.uc.Me(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *AuthHandler) checkAdmin(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.CheckAdmin(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
