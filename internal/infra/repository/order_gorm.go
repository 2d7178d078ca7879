package repository

import (
	"context"

	"storefront/internal/domain/model"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

// DI
func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

// created_atがゼロならgormが現在時刻を入れる
func (r *OrderGormRepository) Create(ctx context.Context, o model.Order) (model.Order, error) {
	o.ID = 0
	if o.Status == "" {
		o.Status = model.OrderStatusPending
	}
	if err := r.db.WithContext(ctx).Create(&o).Error; err != nil {
		return model.Order{}, mapErr(err, "order create")
	}
	return o, nil
}

func (r *OrderGormRepository) FindByID(ctx context.Context, id int64) (model.Order, error) {
	var o model.Order
	if err := r.db.WithContext(ctx).First(&o, id).Error; err != nil {
		return model.Order{}, mapErr(err, "order find")
	}
	return o, nil
}

// 自分の注文一覧
func (r *OrderGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	var orders []model.Order
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&orders).Error; err != nil {
		return []model.Order{}, mapErr(err, "order list by user")
	}
	return orders, nil
}

func (r *OrderGormRepository) List(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := r.db.WithContext(ctx).Order("id asc").Find(&orders).Error; err != nil {
		return []model.Order{}, mapErr(err, "order list")
	}
	return orders, nil
}

func (r *OrderGormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Order{}).Count(&n).Error; err != nil {
		return 0, mapErr(err, "order count")
	}
	return n, nil
}

type OrderItemGormRepository struct {
	db *gorm.DB
}

// DI
func NewOrderItemGormRepository(db *gorm.DB) *OrderItemGormRepository {
	return &OrderItemGormRepository{db: db}
}

func (r *OrderItemGormRepository) Create(ctx context.Context, item model.OrderItem) (model.OrderItem, error) {
	item.ID = 0
	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		return model.OrderItem{}, mapErr(err, "order item create")
	}
	return item, nil
}

// 注文明細をまとめて作成
func (r *OrderItemGormRepository) CreateBulk(ctx context.Context, items []model.OrderItem) ([]model.OrderItem, error) {
	if len(items) == 0 {
		return []model.OrderItem{}, nil
	}
	rows := make([]model.OrderItem, len(items))
	copy(rows, items)
	for i := range rows {
		rows[i].ID = 0
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, mapErr(err, "order item create bulk")
	}
	return rows, nil
}

func (r *OrderItemGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	var items []model.OrderItem
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.OrderItem{}, mapErr(err, "order item list")
	}
	return items, nil
}

func (r *OrderItemGormRepository) List(ctx context.Context) ([]model.OrderItem, error) {
	var items []model.OrderItem
	if err := r.db.WithContext(ctx).Order("id asc").Find(&items).Error; err != nil {
		return []model.OrderItem{}, mapErr(err, "order item list all")
	}
	return items, nil
}
