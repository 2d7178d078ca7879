package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
)

// 1リクエスト1行のアクセスログ。4xxはWarn、5xxはError
func RequestLogger(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				//echoのエラーハンドラにレスポンスを書かせてからstatusを読む
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			fields := []slog.Attr{
				slog.String("request_id", RequestIDFrom(c)),
				slog.String("method", req.Method),
				slog.String("uri", req.URL.Path),
				slog.Int("status", res.Status),
				slog.Duration("latency", time.Since(start)),
				slog.String("remote_ip", c.RealIP()),
			}
			if req.URL.RawQuery != "" {
				fields = append(fields, slog.String("query", req.URL.RawQuery))
			}
			if err != nil {
				fields = append(fields, slog.Any("error", err))
			}

			level := slog.LevelInfo
			if res.Status >= 400 {
				level = slog.LevelWarn
			}
			if res.Status >= 500 {
				level = slog.LevelError
			}
			log.LogAttrs(context.Background(), level, "HTTP Request", fields...)
			return nil
		}
	}
}
