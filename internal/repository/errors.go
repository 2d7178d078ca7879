package repository

import "errors"

var (
	// 対象レコードが無い（削除済みを含む）
	ErrNotFound = errors.New("not found")

	// 一意キー（username / email / category name など）が重複
	ErrDuplicate = errors.New("duplicate")

	// 外部キーの参照先がどこにも存在しない
	ErrInconsistentReference = errors.New("inconsistent reference")

	// 在庫が足りない
	ErrInsufficientStock = errors.New("insufficient stock")
)
