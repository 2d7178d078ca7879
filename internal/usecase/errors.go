package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	repo "storefront/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// リポジトリのエラーをHTTPErrorに変換する。
// notFoundMsgが空ならErrNotFoundも500扱い
func repoError(ctx context.Context, log *slog.Logger, err error, notFoundMsg string) error {
	if _, ok := AsHTTPError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, repo.ErrNotFound) && notFoundMsg != "":
		return NewHTTPError(http.StatusNotFound, notFoundMsg)
	case errors.Is(err, repo.ErrDuplicate):
		return NewHTTPError(http.StatusBadRequest, "already exists")
	case errors.Is(err, repo.ErrInsufficientStock):
		return NewHTTPError(http.StatusConflict, "insufficient stock")
	case errors.Is(err, repo.ErrInconsistentReference):
		log.ErrorContext(ctx, "inconsistent reference", slog.Any("error", err))
		return NewHTTPError(http.StatusInternalServerError, "inconsistent reference")
	}
	log.ErrorContext(ctx, "db error", slog.Any("error", err))
	return NewHTTPError(http.StatusInternalServerError, "db error")
}
