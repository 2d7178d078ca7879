package model

import "time"

// ユーザーごとに1つ。金額は明細から都度計算する。
type Cart struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex" json:"user_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
