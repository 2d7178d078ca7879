package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Review struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	ProductID int64     `gorm:"not null;index" json:"product_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   *string   `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// MeanRating は評価の算術平均を小数1桁に丸めて返す。評価が無ければnil。
func MeanRating(ratings []int) *float64 {
	if len(ratings) == 0 {
		return nil
	}
	sum := int64(0)
	for _, r := range ratings {
		sum += int64(r)
	}
	mean := decimal.NewFromInt(sum).
		Div(decimal.NewFromInt(int64(len(ratings)))).
		Round(1).
		InexactFloat64()
	return &mean
}
