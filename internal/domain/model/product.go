package model

import (
	"time"

	"gorm.io/gorm"
)

// ratingはレビューから算出される（0〜5、レビュー無しはnull）。
type Product struct {
	ID                 int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Title              string         `gorm:"type:varchar(255);not null" json:"title"`
	Description        string         `gorm:"type:text" json:"description"`
	Price              float64        `gorm:"not null" json:"price"`
	DiscountPercentage *float64       `json:"discount_percentage"`
	Rating             *float64       `json:"rating"`
	Stock              int64          `gorm:"not null" json:"stock"`
	Brand              string         `gorm:"type:varchar(255)" json:"brand"`
	Category           string         `gorm:"type:varchar(100);not null;index" json:"category"`
	Thumbnail          string         `gorm:"type:text" json:"thumbnail"`
	Images             []string       `gorm:"type:jsonb;serializer:json" json:"images"`
	CreatedAt          time.Time      `gorm:"not null" json:"created_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p Product) Deleted() bool {
	return p.DeletedAt.Valid
}
