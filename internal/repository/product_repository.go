package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// Category が空なら全カテゴリ、Limit が0以下なら件数制限なし
type ProductFilter struct {
	Category string
	Limit    int
}

// nilのフィールドは変更しない。ratingはレビューからのみ更新される
type ProductPatch struct {
	Title              *string
	Description        *string
	Price              *float64
	DiscountPercentage *float64
	Stock              *int64
	Brand              *string
	Category           *string
	Thumbnail          *string
	Images             []string
}

type ProductRepository interface {
	Create(ctx context.Context, p model.Product) (model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	// 削除済み商品も返す（注文履歴・集計用）
	FindByIDWithDeleted(ctx context.Context, id int64) (model.Product, error)
	List(ctx context.Context, f ProductFilter) ([]model.Product, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id int64, patch ProductPatch) (model.Product, error)
	// 在庫をdelta分増減する。0未満になる場合は ErrInsufficientStock
	AdjustStock(ctx context.Context, id int64, delta int64) (model.Product, error)
	// その商品を含むカート明細も消す。存在したかどうかを返す
	Delete(ctx context.Context, id int64) (bool, error)
}

// patchの非nilフィールドをpに反映する
func (patch ProductPatch) Apply(p *model.Product) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.DiscountPercentage != nil {
		p.DiscountPercentage = patch.DiscountPercentage
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Brand != nil {
		p.Brand = *patch.Brand
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Thumbnail != nil {
		p.Thumbnail = *patch.Thumbnail
	}
	if patch.Images != nil {
		p.Images = patch.Images
	}
}
