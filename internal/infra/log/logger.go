package logs

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"storefront/internal/config"

	"github.com/pkg/errors"
)

// New は設定からslog.Loggerを作る（prettyならText、それ以外はJSON）
func New(cfg *config.Config) (*slog.Logger, error) {
	return newWithWriter(cfg, os.Stdout)
}

func newWithWriter(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := parseLogLevel(cfg.Env.Log.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	var logger *slog.Logger
	if cfg.Env.Log.Pretty {
		logger = slog.New(slog.NewTextHandler(w, opts))
	} else {
		logger = slog.New(slog.NewJSONHandler(w, opts))
	}

	return logger.With(slog.String("env", cfg.Env.Name)), nil
}

// parseLogLevel converts string log level to slog.Level
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.Errorf("unknown log level: %s", level)
	}
}
