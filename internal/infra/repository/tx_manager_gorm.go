package repository

import (
	"context"

	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

// dbに紐づいたリポジトリ一式
func NewRepos(db *gorm.DB) repo.Repos {
	return repo.Repos{
		Users:      NewUserGormRepository(db),
		Products:   NewProductGormRepository(db),
		Categories: NewCategoryGormRepository(db),
		Carts:      NewCartGormRepository(db),
		CartItems:  NewCartItemGormRepository(db),
		Orders:     NewOrderGormRepository(db),
		OrderItems: NewOrderItemGormRepository(db),
		Banners:    NewBannerGormRepository(db),
		Reviews:    NewReviewGormRepository(db),
		AuditLogs:  NewAuditLogGormRepository(db),
	}
}

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.Repos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		return fn(NewRepos(tx))
	})
}
