package model

import (
	"slices"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func (s OrderStatus) Valid() bool {
	return slices.Contains(OrderStatuses, s)
}

// total_amountは呼び出し側が決めた値をそのまま保存する（明細から再計算しない）。
type Order struct {
	ID              int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          int64       `gorm:"not null;index" json:"user_id"`
	TotalAmount     float64     `gorm:"not null" json:"total_amount"`
	Status          OrderStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ShippingAddress string      `gorm:"type:text;not null" json:"shipping_address"`
	PaymentMethod   string      `gorm:"type:varchar(50);not null" json:"payment_method"`
	CreatedAt       time.Time   `gorm:"not null;index" json:"created_at"`
}
