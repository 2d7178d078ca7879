package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"storefront/internal/config"
	"storefront/internal/middleware"
	repo "storefront/internal/repository"
	"storefront/internal/validator"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
)

type Server struct {
	cfg  *config.Config
	log  *slog.Logger
	echo *echo.Echo
}

func New(cfg *config.Config, log *slog.Logger, users repo.UserRepository, h Handlers) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	//順番: recover → request id → アクセスログ → CORS
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.HTTP.AllowOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, middleware.HeaderXRequestID},
	}))

	e.Validator = validator.New()

	RegisterRoutes(e, cfg, users, h)

	return &Server{cfg: cfg, log: log, echo: e}
}

// テストでhttptestに渡す用
func (s *Server) Handler() http.Handler {
	return s.echo
}

// ブロックする。Shutdownで止めた場合はnil
func (s *Server) Start() error {
	addr := net.JoinHostPort("", strconv.Itoa(s.cfg.HTTP.Port))
	s.log.Info("starting http server", slog.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.WithStack(err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.HTTP.ShutdownTimeout)
	defer cancel()

	s.log.Info("shutting down http server")
	return errors.WithStack(s.echo.Shutdown(shutdownCtx))
}
