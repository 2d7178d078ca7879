package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserGormRepository struct {
	db *gorm.DB
}

// DI
func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

func (r *UserGormRepository) Create(ctx context.Context, u model.User) (model.User, error) {
	u.ID = 0
	u.CreatedAt = time.Time{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureNoUserConflict(tx, 0, u.Username, u.Email); err != nil {
			return err
		}
		return tx.Create(&u).Error
	})
	if err != nil {
		return model.User{}, mapErr(err, "user create")
	}
	return u, nil
}

func (r *UserGormRepository) FindByID(ctx context.Context, id int64) (model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return model.User{}, mapErr(err, "user find")
	}
	return u, nil
}

// 削除済みも含めて取得
func (r *UserGormRepository) FindByIDWithDeleted(ctx context.Context, id int64) (model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Unscoped().First(&u, id).Error; err != nil {
		return model.User{}, mapErr(err, "user find unscoped")
	}
	return u, nil
}

func (r *UserGormRepository) FindByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		Order("id asc").
		First(&u).Error
	if err != nil {
		return model.User{}, mapErr(err, "user find by username")
	}
	return u, nil
}

func (r *UserGormRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("id asc").Find(&users).Error; err != nil {
		return []model.User{}, mapErr(err, "user list")
	}
	return users, nil
}

func (r *UserGormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Count(&n).Error; err != nil {
		return 0, mapErr(err, "user count")
	}
	return n, nil
}

// 行ロックを取ってからpatchを反映する
func (r *UserGormRepository) Update(ctx context.Context, id int64, patch repo.UserPatch) (model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&u, id).Error; err != nil {
			return err
		}
		patch.Apply(&u)
		if err := ensureNoUserConflict(tx, id, u.Username, u.Email); err != nil {
			return err
		}
		return tx.Save(&u).Error
	})
	if err != nil {
		return model.User{}, mapErr(err, "user update")
	}
	return u, nil
}

// soft deleteし、カートと明細は物理削除
func (r *UserGormRepository) Delete(ctx context.Context, id int64) (bool, error) {
	existed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		existed = true

		var cartIDs []int64
		if err := tx.Model(&model.Cart{}).Where("user_id = ?", id).Pluck("id", &cartIDs).Error; err != nil {
			return err
		}
		if len(cartIDs) == 0 {
			return nil
		}
		if err := tx.Where("cart_id IN ?", cartIDs).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", cartIDs).Delete(&model.Cart{}).Error
	})
	if err != nil {
		return false, mapErr(err, "user delete")
	}
	return existed, nil
}

// 有効ユーザーの中でusername/emailが被っていないか
func ensureNoUserConflict(tx *gorm.DB, exceptID int64, username, email string) error {
	var n int64
	err := tx.Model(&model.User{}).
		Where("id <> ? AND (username = ? OR email = ?)", exceptID, username, email).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n > 0 {
		return repo.ErrDuplicate
	}
	return nil
}
