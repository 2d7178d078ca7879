package db

import (
	"fmt"
	"log/slog"

	"storefront/internal/config"
	"storefront/internal/domain/model"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.Postgres, debug bool) (*gorm.DB, error) {
	gormCfg := &gorm.Config{}
	if !debug {
		gormCfg.Logger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(postgres.Open(DSN(cfg)), gormCfg)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	return db, nil
}

// URLがあれば最優先で使う
func DSN(cfg config.Postgres) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)
}

// 9エンティティと監査ログのテーブルを作成/更新する
func Migrate(db *gorm.DB, log *slog.Logger) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Category{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.Banner{},
		&model.Review{},
		&model.AuditLog{},
	); err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	for _, stmt := range liveUserUniqueIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return errors.Wrap(err, "create unique index")
		}
	}
	log.Info("database migrated")
	return nil
}

// 削除済みユーザーのusername/emailは再利用できるよう、生きている行だけで一意にする。
// 同時登録の競合は 23505 → ErrDuplicate になる
var liveUserUniqueIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_users_username_live ON users (username) WHERE deleted_at IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_users_email_live ON users (email) WHERE deleted_at IS NULL`,
}
