package middleware

import (
	"errors"
	"net/http"

	repo "storefront/internal/repository"

	"github.com/labstack/echo/v4"
)

// JWTは発行後に削除・権限変更されても有効なままなので、
// リクエスト毎にユーザーを引き直す。削除済みなら401、roleは最新の値で上書きする。
// DB障害などそれ以外のエラーは500。
func CurrentUserGuard(users repo.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//AuthJWTが入れたuser_idを取得する
			userID, ok := c.Get(CtxUserIDKey).(int64)
			if !ok || userID <= 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			user, err := users.FindByID(c.Request().Context(), userID)
			if errors.Is(err, repo.ErrNotFound) {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			if err != nil {
				c.Logger().Errorf("current user lookup: %v", err)
				return c.JSON(http.StatusInternalServerError, errorJSON("db error"))
			}

			c.Set(CtxUserRoleKey, string(user.Role()))
			return next(c)
		}
	}
}
