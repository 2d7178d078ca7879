package memory

import (
	"context"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type OrderMemoryRepository struct {
	scope
}

// created_atが指定されていればそれを使う（シードで過去日付の注文を作るため）
func (r *OrderMemoryRepository) Create(ctx context.Context, o model.Order) (model.Order, error) {
	var out model.Order
	err := r.write(func(db *database) error {
		o.ID = db.orders.nextID()
		if o.CreatedAt.IsZero() {
			o.CreatedAt = r.now()
		}
		if o.Status == "" {
			o.Status = model.OrderStatusPending
		}
		db.orders.put(o.ID, o)
		out = o
		return nil
	})
	return out, err
}

func (r *OrderMemoryRepository) FindByID(ctx context.Context, id int64) (model.Order, error) {
	var out model.Order
	err := r.read(func(db *database) error {
		o, ok := db.orders.get(id)
		if !ok {
			return repo.ErrNotFound
		}
		out = o
		return nil
	})
	return out, err
}

func (r *OrderMemoryRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	var out []model.Order
	err := r.read(func(db *database) error {
		out = db.orders.filter(func(o model.Order) bool { return o.UserID == userID })
		return nil
	})
	return out, err
}

func (r *OrderMemoryRepository) List(ctx context.Context) ([]model.Order, error) {
	var out []model.Order
	err := r.read(func(db *database) error {
		out = db.orders.filter(nil)
		return nil
	})
	return out, err
}

func (r *OrderMemoryRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.read(func(db *database) error {
		n = int64(len(db.orders.rows))
		return nil
	})
	return n, err
}

type OrderItemMemoryRepository struct {
	scope
}

func (r *OrderItemMemoryRepository) Create(ctx context.Context, item model.OrderItem) (model.OrderItem, error) {
	var out model.OrderItem
	err := r.write(func(db *database) error {
		out = insertOrderItem(db, item, r.now())
		return nil
	})
	return out, err
}

func (r *OrderItemMemoryRepository) CreateBulk(ctx context.Context, items []model.OrderItem) ([]model.OrderItem, error) {
	out := make([]model.OrderItem, 0, len(items))
	err := r.write(func(db *database) error {
		now := r.now()
		for _, it := range items {
			out = append(out, insertOrderItem(db, it, now))
		}
		return nil
	})
	return out, err
}

func (r *OrderItemMemoryRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	var out []model.OrderItem
	err := r.read(func(db *database) error {
		out = db.orderItems.filter(func(it model.OrderItem) bool { return it.OrderID == orderID })
		return nil
	})
	return out, err
}

func (r *OrderItemMemoryRepository) List(ctx context.Context) ([]model.OrderItem, error) {
	var out []model.OrderItem
	err := r.read(func(db *database) error {
		out = db.orderItems.filter(nil)
		return nil
	})
	return out, err
}

func insertOrderItem(db *database, it model.OrderItem, now time.Time) model.OrderItem {
	it.ID = db.orderItems.nextID()
	if it.CreatedAt.IsZero() {
		it.CreatedAt = now
	}
	db.orderItems.put(it.ID, it)
	return it
}
