package repository

import (
	stderrors "errors"

	repo "storefront/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// PostgreSQLの一意制約違反
const pgUniqueViolation = "23505"

// gorm/pgxのエラーをリポジトリのエラーに寄せる
func mapErr(err error, op string) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return repo.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return repo.ErrDuplicate
	}
	// 既にリポジトリのエラーならそのまま
	for _, sentinel := range []error{repo.ErrNotFound, repo.ErrDuplicate, repo.ErrInconsistentReference, repo.ErrInsufficientStock} {
		if stderrors.Is(err, sentinel) {
			return err
		}
	}
	return errors.Wrap(err, op)
}
