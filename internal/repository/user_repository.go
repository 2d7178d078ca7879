package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// nilのフィールドは変更しない
type UserPatch struct {
	Username *string
	Password *string
	Name     *string
	Email    *string
	Phone    *string
	Address  *string
	City     *string
	State    *string
	Pincode  *string
	IsAdmin  *bool
}

type UserRepository interface {
	// username / email が重複していたら ErrDuplicate
	Create(ctx context.Context, u model.User) (model.User, error)
	FindByID(ctx context.Context, id int64) (model.User, error)
	// 削除済みユーザーも返す（過去のレビュー/注文の表示用）
	FindByIDWithDeleted(ctx context.Context, id int64) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id int64, patch UserPatch) (model.User, error)
	// ユーザーのカートと明細も消す。存在したかどうかを返す
	Delete(ctx context.Context, id int64) (bool, error)
}

// patchの非nilフィールドをuに反映する
func (p UserPatch) Apply(u *model.User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Phone != nil {
		u.Phone = p.Phone
	}
	if p.Address != nil {
		u.Address = p.Address
	}
	if p.City != nil {
		u.City = p.City
	}
	if p.State != nil {
		u.State = p.State
	}
	if p.Pincode != nil {
		u.Pincode = p.Pincode
	}
	if p.IsAdmin != nil {
		u.IsAdmin = *p.IsAdmin
	}
}
