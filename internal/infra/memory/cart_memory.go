package memory

import (
	"context"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type CartMemoryRepository struct {
	scope
}

func (r *CartMemoryRepository) Create(ctx context.Context, userID int64) (model.Cart, error) {
	var out model.Cart
	err := r.write(func(db *database) error {
		if _, ok := cartOf(db, userID); ok {
			return repo.ErrDuplicate
		}
		out = insertCart(db, userID, r.now())
		return nil
	})
	return out, err
}

func (r *CartMemoryRepository) FindByID(ctx context.Context, id int64) (model.Cart, error) {
	var out model.Cart
	err := r.read(func(db *database) error {
		c, ok := db.carts.get(id)
		if !ok {
			return repo.ErrNotFound
		}
		out = c
		return nil
	})
	return out, err
}

func (r *CartMemoryRepository) FindByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	var out model.Cart
	err := r.read(func(db *database) error {
		c, ok := cartOf(db, userID)
		if !ok {
			return repo.ErrNotFound
		}
		out = c
		return nil
	})
	return out, err
}

// 探す→無ければ作る、を1つのロック内で行う
func (r *CartMemoryRepository) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	var out model.Cart
	err := r.write(func(db *database) error {
		if c, ok := cartOf(db, userID); ok {
			out = c
			return nil
		}
		out = insertCart(db, userID, r.now())
		return nil
	})
	return out, err
}

func cartOf(db *database, userID int64) (model.Cart, bool) {
	found := db.carts.filter(func(c model.Cart) bool { return c.UserID == userID })
	if len(found) == 0 {
		return model.Cart{}, false
	}
	return found[0], true
}

func insertCart(db *database, userID int64, now time.Time) model.Cart {
	c := model.Cart{
		ID:        db.carts.nextID(),
		UserID:    userID,
		CreatedAt: now,
	}
	db.carts.put(c.ID, c)
	return c
}

func deleteCartItems(db *database, cartID int64) int64 {
	var n int64
	for _, it := range db.cartItems.filter(func(it model.CartItem) bool { return it.CartID == cartID }) {
		db.cartItems.remove(it.ID)
		n++
	}
	return n
}

type CartItemMemoryRepository struct {
	scope
}

// 同一(cart, product)があれば数量を加算する
func (r *CartItemMemoryRepository) Upsert(ctx context.Context, item model.CartItem) (model.CartItem, error) {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}

	var out model.CartItem
	err := r.write(func(db *database) error {
		existing := db.cartItems.filter(func(it model.CartItem) bool {
			return it.CartID == item.CartID && it.ProductID == item.ProductID
		})
		if len(existing) > 0 {
			cur := existing[0]
			cur.Quantity += item.Quantity
			db.cartItems.put(cur.ID, cur)
			out = cur
			return nil
		}

		item.ID = db.cartItems.nextID()
		item.CreatedAt = r.now()
		db.cartItems.put(item.ID, item)
		out = item
		return nil
	})
	return out, err
}

func (r *CartItemMemoryRepository) FindByID(ctx context.Context, id int64) (model.CartItem, error) {
	var out model.CartItem
	err := r.read(func(db *database) error {
		it, ok := db.cartItems.get(id)
		if !ok {
			return repo.ErrNotFound
		}
		out = it
		return nil
	})
	return out, err
}

func (r *CartItemMemoryRepository) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	var out []model.CartItem
	err := r.read(func(db *database) error {
		out = db.cartItems.filter(func(it model.CartItem) bool { return it.CartID == cartID })
		return nil
	})
	return out, err
}

func (r *CartItemMemoryRepository) UpdateQuantity(ctx context.Context, id int64, quantity int64) (model.CartItem, error) {
	var out model.CartItem
	err := r.write(func(db *database) error {
		it, ok := db.cartItems.get(id)
		if !ok {
			return repo.ErrNotFound
		}
		it.Quantity = quantity
		db.cartItems.put(id, it)
		out = it
		return nil
	})
	return out, err
}

func (r *CartItemMemoryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	existed := false
	err := r.write(func(db *database) error {
		existed = db.cartItems.remove(id)
		return nil
	})
	return existed, err
}

func (r *CartItemMemoryRepository) DeleteByCartID(ctx context.Context, cartID int64) (int64, error) {
	var n int64
	err := r.write(func(db *database) error {
		n = deleteCartItems(db, cartID)
		return nil
	})
	return n, err
}
