package repository

import "context"

// ストアの全リポジトリ。トランザクション内ではtxに紐づいたものが渡る
type Repos struct {
	Users      UserRepository
	Products   ProductRepository
	Categories CategoryRepository
	Carts      CartRepository
	CartItems  CartItemRepository
	Orders     OrderRepository
	OrderItems OrderItemRepository
	Banners    BannerRepository
	Reviews    ReviewRepository
	AuditLogs  AuditLogRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// fnがエラーを返したら全ての変更を破棄する
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}
