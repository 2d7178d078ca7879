package model

import "time"

// (cart_id, product_id) は一意。同じ商品の追加は数量加算になる。
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    int64     `gorm:"not null;uniqueIndex:ux_cart_items_cart_product" json:"cart_id"`
	ProductID int64     `gorm:"not null;uniqueIndex:ux_cart_items_cart_product" json:"product_id"`
	Quantity  int64     `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
