package model

import "time"

// activeは未指定(nil)ならtrueで保存される。
type Banner struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Image     string    `gorm:"type:text;not null" json:"image"`
	Link      string    `gorm:"type:text" json:"link"`
	Active    *bool     `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (b Banner) IsActive() bool {
	return b.Active != nil && *b.Active
}
