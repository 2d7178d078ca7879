package model

import "time"

// priceは注文時点の商品価格（スナップショット）。
type OrderItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64     `gorm:"not null;index" json:"order_id"`
	ProductID int64     `gorm:"not null;index" json:"product_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	Price     float64   `gorm:"not null" json:"price"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
