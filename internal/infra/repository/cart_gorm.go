package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// user_idのuniqueIndex違反は ErrDuplicate
func (r *CartGormRepository) Create(ctx context.Context, userID int64) (model.Cart, error) {
	cart := model.Cart{UserID: userID}
	if err := r.db.WithContext(ctx).Create(&cart).Error; err != nil {
		return model.Cart{}, mapErr(err, "cart create")
	}
	return cart, nil
}

func (r *CartGormRepository) FindByID(ctx context.Context, id int64) (model.Cart, error) {
	var cart model.Cart
	if err := r.db.WithContext(ctx).First(&cart, id).Error; err != nil {
		return model.Cart{}, mapErr(err, "cart find")
	}
	return cart, nil
}

func (r *CartGormRepository) FindByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	var cart model.Cart
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return model.Cart{}, mapErr(err, "cart find by user")
	}
	return cart, nil
}

// ユーザーのカートを取得し、無ければ作成。
// 行はFOR UPDATEで取るので、呼び出し元のtx内では同じカートへの更新が直列になる
func (r *CartGormRepository) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	var cart model.Cart

	//トランザクションで探す→無ければ作る
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&cart).Error
		if findErr == nil {
			return nil
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		// 同時に作られていたらINSERTは何もしない（txをabortさせない）ので、作られた方を取り直す
		newCart := model.Cart{UserID: userID}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).Create(&newCart)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", userID).First(&cart).Error
		}
		cart = newCart
		return nil
	})
	if err != nil {
		return model.Cart{}, mapErr(err, "cart get or create")
	}
	return cart, nil
}

type CartItemGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartItemGormRepository(db *gorm.DB) *CartItemGormRepository {
	return &CartItemGormRepository{db: db}
}

// 同一商品は数量加算
func (r *CartItemGormRepository) Upsert(ctx context.Context, item model.CartItem) (model.CartItem, error) {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}

	var out model.CartItem
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.CartItem
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("cart_id = ? AND product_id = ?", item.CartID, item.ProductID).
			First(&existing).Error

		if err == nil {
			// 既存ありだったら数量を増やす
			existing.Quantity += item.Quantity
			if err := tx.Model(&model.CartItem{}).
				Where("id = ?", existing.ID).
				Update("quantity", existing.Quantity).Error; err != nil {
				return err
			}
			out = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		//無い場合は新規作成
		newItem := model.CartItem{
			CartID:    item.CartID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
		if err := tx.Create(&newItem).Error; err != nil {
			return err
		}
		out = newItem
		return nil
	})
	if err != nil {
		return model.CartItem{}, mapErr(err, "cart item upsert")
	}
	return out, nil
}

// 明細を取得
func (r *CartItemGormRepository) FindByID(ctx context.Context, id int64) (model.CartItem, error) {
	var item model.CartItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return model.CartItem{}, mapErr(err, "cart item find")
	}
	return item, nil
}

// カート明細を一覧取得
func (r *CartItemGormRepository) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	var items []model.CartItem
	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.CartItem{}, mapErr(err, "cart item list")
	}
	return items, nil
}

// 明細の数量を更新
func (r *CartItemGormRepository) UpdateQuantity(ctx context.Context, id int64, quantity int64) (model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, id).Error; err != nil {
			return err
		}
		item.Quantity = quantity
		return tx.Model(&model.CartItem{}).Where("id = ?", id).Update("quantity", quantity).Error
	})
	if err != nil {
		return model.CartItem{}, mapErr(err, "cart item update")
	}
	return item, nil
}

// 明細を削除
func (r *CartItemGormRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.CartItem{}, id)
	if res.Error != nil {
		return false, mapErr(res.Error, "cart item delete")
	}
	return res.RowsAffected > 0, nil
}

// 指定カートの明細を全削除
func (r *CartItemGormRepository) DeleteByCartID(ctx context.Context, cartID int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&model.CartItem{})
	if res.Error != nil {
		return 0, mapErr(res.Error, "cart item clear")
	}
	return res.RowsAffected, nil
}

var (
	_ repo.CartRepository     = (*CartGormRepository)(nil)
	_ repo.CartItemRepository = (*CartItemGormRepository)(nil)
)
