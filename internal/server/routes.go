package server

import (
	"net/http"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/middleware"
	repo "storefront/internal/repository"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	Cart         *handler.CartHandler
	Order        *handler.OrderHandler
	AdminProduct *handler.AdminProductHandler
	AdminUser    *handler.AdminUserHandler
	AdminOrder   *handler.AdminOrderHandler
}

// /api 配下を登録。authedはJWT検証＋ユーザー再取得、adminはさらにADMIN確認
func RegisterRoutes(e *echo.Echo, cfg *config.Config, users repo.UserRepository, h Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api")
	authed := []echo.MiddlewareFunc{
		middleware.AuthJWT(cfg),
		middleware.CurrentUserGuard(users),
	}

	h.Auth.RegisterRoutes(api, authed...)
	h.Product.RegisterRoutes(api, authed...)
	h.Cart.RegisterRoutes(api, authed...)
	h.Order.RegisterRoutes(api, authed...)

	admin := api.Group("/admin", append(authed, middleware.AdminRoleGuard())...)
	h.AdminProduct.RegisterRoutes(admin)
	h.AdminUser.RegisterRoutes(admin)
	h.AdminOrder.RegisterRoutes(admin)
}
