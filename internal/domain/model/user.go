package model

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// passwordはbcryptハッシュ。JSONには出さない。
type User struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string         `gorm:"type:varchar(64);not null;index" json:"username"`
	Password  string         `gorm:"not null" json:"-"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Email     string         `gorm:"type:varchar(255);not null;index" json:"email"`
	Phone     *string        `gorm:"type:varchar(32)" json:"phone"`
	Address   *string        `gorm:"type:text" json:"address"`
	City      *string        `gorm:"type:varchar(100)" json:"city"`
	State     *string        `gorm:"type:varchar(100)" json:"state"`
	Pincode   *string        `gorm:"type:varchar(16)" json:"pincode"`
	IsAdmin   bool           `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// JWTのroleクレームに入れる値
func (u User) Role() Role {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// 削除済み（tombstone）かどうか
func (u User) Deleted() bool {
	return u.DeletedAt.Valid
}
