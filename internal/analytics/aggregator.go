// Package analytics は管理画面の集計を注文データから都度計算する（キャッシュしない）。
package analytics

import (
	"context"
	"sort"
	"strconv"
	"time"

	"storefront/internal/clock"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	dayKeyLayout  = "2006-01-02"
	dayOutLayout  = "02/01"
	DefaultTopN   = 5
	DefaultWindow = 7
)

// 1日分の注文件数と売上
type OrderStat struct {
	Date    string  `json:"date"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

type TopProduct struct {
	ProductID int64   `json:"product_id"`
	Title     string  `json:"title"`
	TotalSold int64   `json:"total_sold"`
	Revenue   float64 `json:"revenue"`
}

type Dashboard struct {
	UserCount    int64        `json:"user_count"`
	OrderCount   int64        `json:"order_count"`
	ProductCount int64        `json:"product_count"`
	Revenue      float64      `json:"revenue"`
	OrderStats   []OrderStat  `json:"order_stats"`
	TopProducts  []TopProduct `json:"top_products"`
	Timeframe    string       `json:"timeframe"`
}

// 商品IDから商品を引く（削除済みも含む）
type ProductLookup func(ctx context.Context, id int64) (model.Product, error)

type Aggregator struct {
	users      repo.UserRepository
	products   repo.ProductRepository
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	lookup     ProductLookup
	clock      clock.Clock
}

// DI
func NewAggregator(r repo.Repos, lookup ProductLookup, c clock.Clock) *Aggregator {
	return &Aggregator{
		users:      r.Users,
		products:   r.Products,
		orders:     r.Orders,
		orderItems: r.OrderItems,
		lookup:     lookup,
		clock:      c,
	}
}

func (a *Aggregator) UserCount(ctx context.Context) (int64, error) {
	return a.users.Count(ctx)
}

func (a *Aggregator) OrderCount(ctx context.Context) (int64, error) {
	return a.orders.Count(ctx)
}

func (a *Aggregator) ProductCount(ctx context.Context) (int64, error) {
	return a.products.Count(ctx)
}

// ステータスに関係なく全注文のtotal_amountを合計（キャンセルも含む）
func (a *Aggregator) TotalRevenue(ctx context.Context) (float64, error) {
	orders, err := a.orders.List(ctx)
	if err != nil {
		return 0, err
	}
	return SumRevenue(orders), nil
}

func (a *Aggregator) OrderStats(ctx context.Context, days int) ([]OrderStat, error) {
	orders, err := a.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	return BucketOrders(orders, a.clock.Now(), days), nil
}

func (a *Aggregator) TopProducts(ctx context.Context, limit int) ([]TopProduct, error) {
	items, err := a.orderItems.List(ctx)
	if err != nil {
		return nil, err
	}
	return RankProducts(ctx, items, limit, a.lookup)
}

// 管理画面用の集計一式。timeframeは 7d / 30d / 90d
func (a *Aggregator) Dashboard(ctx context.Context, timeframe string) (Dashboard, error) {
	days, ok := ParseTimeframe(timeframe)
	if !ok {
		return Dashboard{}, errors.Errorf("invalid timeframe: %q", timeframe)
	}

	var d Dashboard
	var err error
	if d.UserCount, err = a.UserCount(ctx); err != nil {
		return Dashboard{}, err
	}
	if d.OrderCount, err = a.OrderCount(ctx); err != nil {
		return Dashboard{}, err
	}
	if d.ProductCount, err = a.ProductCount(ctx); err != nil {
		return Dashboard{}, err
	}
	if d.Revenue, err = a.TotalRevenue(ctx); err != nil {
		return Dashboard{}, err
	}
	if d.OrderStats, err = a.OrderStats(ctx, days); err != nil {
		return Dashboard{}, err
	}
	if d.TopProducts, err = a.TopProducts(ctx, DefaultTopN); err != nil {
		return Dashboard{}, err
	}
	d.Timeframe = FormatTimeframe(days)
	return d, nil
}

// "7d" → 7。空文字は既定の7日
func ParseTimeframe(s string) (int, bool) {
	switch s {
	case "":
		return DefaultWindow, true
	case "7d":
		return 7, true
	case "30d":
		return 30, true
	case "90d":
		return 90, true
	default:
		return 0, false
	}
}

func FormatTimeframe(days int) string {
	return strconv.Itoa(days) + "d"
}

func SumRevenue(orders []model.Order) float64 {
	sum := decimal.Zero
	for _, o := range orders {
		sum = sum.Add(decimal.NewFromFloat(o.TotalAmount))
	}
	return sum.InexactFloat64()
}

// now の日付を最終日とする days 日分の窓で、注文を日付ごとに集計する。
// 注文の無い日も count=0 で含め、年も含めた日付の昇順で返す
func BucketOrders(orders []model.Order, now time.Time, days int) []OrderStat {
	if days < 1 {
		return []OrderStat{}
	}

	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	start := today.AddDate(0, 0, -(days - 1))

	type bucket struct {
		day     time.Time
		count   int
		revenue decimal.Decimal
	}
	buckets := make([]*bucket, 0, days)
	byKey := make(map[string]*bucket, days)
	for i := 0; i < days; i++ {
		b := &bucket{day: start.AddDate(0, 0, i), revenue: decimal.Zero}
		buckets = append(buckets, b)
		byKey[b.day.Format(dayKeyLayout)] = b
	}

	for _, o := range orders {
		b, ok := byKey[o.CreatedAt.In(loc).Format(dayKeyLayout)]
		if !ok {
			continue
		}
		b.count++
		b.revenue = b.revenue.Add(decimal.NewFromFloat(o.TotalAmount))
	}

	out := make([]OrderStat, 0, days)
	for _, b := range buckets {
		out = append(out, OrderStat{
			Date:    b.day.Format(dayOutLayout),
			Count:   b.count,
			Revenue: b.revenue.InexactFloat64(),
		})
	}
	return out
}

// 注文明細を商品ごとに集計し、販売数の多い順に最大limit件返す。
// 同数なら商品IDの小さい順。商品名は集計時点のものを使う
func RankProducts(ctx context.Context, items []model.OrderItem, limit int, lookup ProductLookup) ([]TopProduct, error) {
	if limit <= 0 {
		return []TopProduct{}, nil
	}

	type acc struct {
		sold    int64
		revenue decimal.Decimal
	}
	byProduct := map[int64]*acc{}
	for _, it := range items {
		a, ok := byProduct[it.ProductID]
		if !ok {
			a = &acc{revenue: decimal.Zero}
			byProduct[it.ProductID] = a
		}
		a.sold += it.Quantity
		a.revenue = a.revenue.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(it.Quantity)))
	}

	out := make([]TopProduct, 0, len(byProduct))
	for id, a := range byProduct {
		if a.sold <= 0 {
			continue
		}
		p, err := lookup(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, TopProduct{
			ProductID: id,
			Title:     p.Title,
			TotalSold: a.sold,
			Revenue:   a.revenue.InexactFloat64(),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSold != out[j].TotalSold {
			return out[i].TotalSold > out[j].TotalSold
		}
		return out[i].ProductID < out[j].ProductID
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
