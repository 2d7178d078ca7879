package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const HeaderXRequestID = "X-Request-ID"

// クライアントが付けてきたIDを使い、無ければ発行する
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Set(CtxRequestIDKey, id)
			c.Response().Header().Set(HeaderXRequestID, id)
			return next(c)
		}
	}
}

func RequestIDFrom(c echo.Context) string {
	id, _ := c.Get(CtxRequestIDKey).(string)
	return id
}
