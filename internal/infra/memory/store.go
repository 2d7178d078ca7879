package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"storefront/internal/clock"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// id → レコードのマップと採番カウンタ。idは1から始まり再利用しない
type table[T any] struct {
	rows map[int64]T
	seq  int64
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: map[int64]T{}}
}

func (t *table[T]) nextID() int64 {
	t.seq++
	return t.seq
}

func (t *table[T]) get(id int64) (T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) put(id int64, v T) {
	t.rows[id] = v
}

func (t *table[T]) remove(id int64) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

// id昇順（=挿入順）で、keepに合う行を返す。keepがnilなら全件
func (t *table[T]) filter(keep func(T) bool) []T {
	out := make([]T, 0, len(t.rows))
	for _, id := range slices.Sorted(maps.Keys(t.rows)) {
		v := t.rows[id]
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func (t *table[T]) clone() *table[T] {
	return &table[T]{rows: maps.Clone(t.rows), seq: t.seq}
}

type database struct {
	users      *table[model.User]
	products   *table[model.Product]
	categories *table[model.Category]
	carts      *table[model.Cart]
	cartItems  *table[model.CartItem]
	orders     *table[model.Order]
	orderItems *table[model.OrderItem]
	banners    *table[model.Banner]
	reviews    *table[model.Review]
	auditLogs  *table[model.AuditLog]
}

func newDatabase() *database {
	return &database{
		users:      newTable[model.User](),
		products:   newTable[model.Product](),
		categories: newTable[model.Category](),
		carts:      newTable[model.Cart](),
		cartItems:  newTable[model.CartItem](),
		orders:     newTable[model.Order](),
		orderItems: newTable[model.OrderItem](),
		banners:    newTable[model.Banner](),
		reviews:    newTable[model.Review](),
		auditLogs:  newTable[model.AuditLog](),
	}
}

// レコードはポインタ経由で書き換えないので、マップの浅いコピーで足りる
func (d *database) clone() *database {
	return &database{
		users:      d.users.clone(),
		products:   d.products.clone(),
		categories: d.categories.clone(),
		carts:      d.carts.clone(),
		cartItems:  d.cartItems.clone(),
		orders:     d.orders.clone(),
		orderItems: d.orderItems.clone(),
		banners:    d.banners.clone(),
		reviews:    d.reviews.clone(),
		auditLogs:  d.auditLogs.clone(),
	}
}

func (d *database) keepSequences(from *database) {
	d.users.seq = from.users.seq
	d.products.seq = from.products.seq
	d.categories.seq = from.categories.seq
	d.carts.seq = from.carts.seq
	d.cartItems.seq = from.cartItems.seq
	d.orders.seq = from.orders.seq
	d.orderItems.seq = from.orderItems.seq
	d.banners.seq = from.banners.seq
	d.reviews.seq = from.reviews.seq
	d.auditLogs.seq = from.auditLogs.seq
}

// Store はプロセス内のエンティティストア。
// 読み取りは共有ロック、書き込みは排他ロックで実行する。
type Store struct {
	mu    sync.RWMutex
	db    *database
	clock clock.Clock
}

// DI
func NewStore(c clock.Clock) *Store {
	if c == nil {
		c = clock.Real{}
	}
	return &Store{
		db:    newDatabase(),
		clock: c,
	}
}

// ロックを取って操作するリポジトリ群
func (s *Store) Repos() repo.Repos {
	return s.reposOn(nil)
}

// fnはテーブルのコピーに対して実行し、成功した時だけ差し替える。
// fnの中で Repos() 側のリポジトリを使うとデッドロックする
func (s *Store) WithinTx(ctx context.Context, fn func(r repo.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.db.clone()
	if err := fn(s.reposOn(work)); err != nil {
		// 採番だけは進めておき、ロールバックしたidを再利用しない
		s.db.keepSequences(work)
		return err
	}
	s.db = work
	return nil
}

func (s *Store) reposOn(tx *database) repo.Repos {
	sc := scope{s: s, tx: tx}
	return repo.Repos{
		Users:      &UserMemoryRepository{sc},
		Products:   &ProductMemoryRepository{sc},
		Categories: &CategoryMemoryRepository{sc},
		Carts:      &CartMemoryRepository{sc},
		CartItems:  &CartItemMemoryRepository{sc},
		Orders:     &OrderMemoryRepository{sc},
		OrderItems: &OrderItemMemoryRepository{sc},
		Banners:    &BannerMemoryRepository{sc},
		Reviews:    &ReviewMemoryRepository{sc},
		AuditLogs:  &AuditLogMemoryRepository{sc},
	}
}

// txがnilならStoreのロックを取る。txがあれば呼び出し元（WithinTx）が既にロック済み
type scope struct {
	s  *Store
	tx *database
}

func (sc scope) read(fn func(db *database) error) error {
	if sc.tx != nil {
		return fn(sc.tx)
	}
	sc.s.mu.RLock()
	defer sc.s.mu.RUnlock()
	return fn(sc.s.db)
}

func (sc scope) write(fn func(db *database) error) error {
	if sc.tx != nil {
		return fn(sc.tx)
	}
	sc.s.mu.Lock()
	defer sc.s.mu.Unlock()
	return fn(sc.s.db)
}

func (sc scope) now() time.Time {
	return sc.s.clock.Now()
}

// 呼び出し元とストアでポインタ・スライスを共有しないためのコピー

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyUser(u model.User) model.User {
	u.Phone = copyPtr(u.Phone)
	u.Address = copyPtr(u.Address)
	u.City = copyPtr(u.City)
	u.State = copyPtr(u.State)
	u.Pincode = copyPtr(u.Pincode)
	return u
}

func copyProduct(p model.Product) model.Product {
	p.DiscountPercentage = copyPtr(p.DiscountPercentage)
	p.Rating = copyPtr(p.Rating)
	p.Images = slices.Clone(p.Images)
	return p
}

func copyBanner(b model.Banner) model.Banner {
	b.Active = copyPtr(b.Active)
	return b
}

func copyReview(r model.Review) model.Review {
	r.Comment = copyPtr(r.Comment)
	return r
}

func mapSlice[T any](in []T, f func(T) T) []T {
	for i := range in {
		in[i] = f(in[i])
	}
	return in
}
