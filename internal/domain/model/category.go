package model

import "time"

type Category struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Image     string    `gorm:"type:text" json:"image"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
