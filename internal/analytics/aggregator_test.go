package analytics

import (
	"context"
	"testing"
	"time"

	"storefront/internal/clock"
	"storefront/internal/domain/model"
	"storefront/internal/infra/memory"
	repo "storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestBucketOrders_WindowAndZeroFill(t *testing.T) {
	now := day(2025, 3, 10, 15)
	orders := []model.Order{
		{ID: 1, TotalAmount: 100, CreatedAt: day(2025, 3, 10, 1)},
		{ID: 2, TotalAmount: 50, CreatedAt: day(2025, 3, 10, 23)},
		{ID: 3, TotalAmount: 70, CreatedAt: day(2025, 3, 4, 9)},
		{ID: 4, TotalAmount: 999, CreatedAt: day(2025, 3, 3, 9)}, // 窓の外
	}

	got := BucketOrders(orders, now, 7)

	require.Len(t, got, 7)
	assert.Equal(t, "04/03", got[0].Date)
	assert.Equal(t, 1, got[0].Count)
	assert.Equal(t, 70.0, got[0].Revenue)

	assert.Equal(t, "10/03", got[6].Date)
	assert.Equal(t, 2, got[6].Count)
	assert.Equal(t, 150.0, got[6].Revenue)

	for _, s := range got[1:6] {
		assert.Zero(t, s.Count)
		assert.Zero(t, s.Revenue)
	}
}

func TestBucketOrders_AcrossYearBoundary(t *testing.T) {
	now := day(2025, 1, 2, 8)
	orders := []model.Order{
		{ID: 1, TotalAmount: 10, CreatedAt: day(2024, 12, 31, 8)},
		{ID: 2, TotalAmount: 20, CreatedAt: day(2025, 1, 2, 8)},
	}

	got := BucketOrders(orders, now, 7)

	require.Len(t, got, 7)
	dates := make([]string, 0, len(got))
	for _, s := range got {
		dates = append(dates, s.Date)
	}
	assert.Equal(t, []string{"27/12", "28/12", "29/12", "30/12", "31/12", "01/01", "02/01"}, dates)
	assert.Equal(t, 1, got[4].Count)
	assert.Equal(t, 1, got[6].Count)
}

func TestBucketOrders_EmptyWindow(t *testing.T) {
	assert.Empty(t, BucketOrders(nil, day(2025, 1, 1, 0), 0))
	assert.Len(t, BucketOrders(nil, day(2025, 1, 1, 0), 30), 30)
}

func TestSumRevenue_IncludesEveryStatus(t *testing.T) {
	orders := []model.Order{
		{TotalAmount: 100, Status: model.OrderStatusDelivered},
		{TotalAmount: 200, Status: model.OrderStatusCancelled},
		{TotalAmount: 300, Status: model.OrderStatusPending},
	}
	assert.Equal(t, 600.0, SumRevenue(orders))
	assert.Equal(t, 0.0, SumRevenue(nil))

	//浮動小数の誤差を出さない
	assert.Equal(t, 0.3, SumRevenue([]model.Order{{TotalAmount: 0.1}, {TotalAmount: 0.2}}))
}

func TestRankProducts_OrdersBySoldThenID(t *testing.T) {
	titles := map[int64]string{1: "A", 2: "B", 3: "C"}
	lookup := func(ctx context.Context, id int64) (model.Product, error) {
		return model.Product{ID: id, Title: titles[id]}, nil
	}
	items := []model.OrderItem{
		{OrderID: 1, ProductID: 1, Quantity: 4, Price: 10},
		{OrderID: 2, ProductID: 1, Quantity: 6, Price: 10},
		{OrderID: 2, ProductID: 2, Quantity: 15, Price: 2},
		{OrderID: 3, ProductID: 3, Quantity: 10, Price: 1},
	}

	got, err := RankProducts(context.Background(), items, 2, lookup)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, TopProduct{ProductID: 2, Title: "B", TotalSold: 15, Revenue: 30}, got[0])
	assert.Equal(t, TopProduct{ProductID: 1, Title: "A", TotalSold: 10, Revenue: 100}, got[1])
}

func TestRankProducts_LookupError(t *testing.T) {
	lookup := func(ctx context.Context, id int64) (model.Product, error) {
		return model.Product{}, repo.ErrInconsistentReference
	}
	_, err := RankProducts(context.Background(), []model.OrderItem{{ProductID: 9, Quantity: 1}}, 5, lookup)
	assert.ErrorIs(t, err, repo.ErrInconsistentReference)
}

func TestParseTimeframe(t *testing.T) {
	cases := []struct {
		in   string
		days int
		ok   bool
	}{
		{"", 7, true},
		{"7d", 7, true},
		{"30d", 30, true},
		{"90d", 90, true},
		{"14d", 0, false},
		{"7", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			days, ok := ParseTimeframe(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.days, days)
		})
	}
	assert.Equal(t, "30d", FormatTimeframe(30))
}

func TestAggregator_Dashboard(t *testing.T) {
	ctx := context.Background()
	now := day(2025, 3, 10, 12)
	store := memory.NewStore(clock.Fixed{T: now})
	r := store.Repos()

	u, err := r.Users.Create(ctx, model.User{Username: "u", Password: "x", Name: "U", Email: "u@example.com"})
	require.NoError(t, err)
	p, err := r.Products.Create(ctx, model.Product{Title: "Lamp", Category: "Home", Price: 25, Stock: 10})
	require.NoError(t, err)

	o, err := r.Orders.Create(ctx, model.Order{UserID: u.ID, TotalAmount: 50, ShippingAddress: "a", PaymentMethod: "UPI"})
	require.NoError(t, err)
	_, err = r.OrderItems.CreateBulk(ctx, []model.OrderItem{{OrderID: o.ID, ProductID: p.ID, Quantity: 2, Price: 25}})
	require.NoError(t, err)

	//商品を消しても集計には残る
	_, err = r.Products.Delete(ctx, p.ID)
	require.NoError(t, err)

	agg := NewAggregator(r, r.Products.FindByIDWithDeleted, clock.Fixed{T: now})

	d, err := agg.Dashboard(ctx, "30d")
	require.NoError(t, err)

	assert.Equal(t, int64(1), d.UserCount)
	assert.Equal(t, int64(1), d.OrderCount)
	assert.Equal(t, int64(0), d.ProductCount)
	assert.Equal(t, 50.0, d.Revenue)
	assert.Equal(t, "30d", d.Timeframe)
	require.Len(t, d.OrderStats, 30)
	assert.Equal(t, 1, d.OrderStats[29].Count)
	require.Len(t, d.TopProducts, 1)
	assert.Equal(t, "Lamp", d.TopProducts[0].Title)
	assert.Equal(t, int64(2), d.TopProducts[0].TotalSold)

	_, err = agg.Dashboard(ctx, "1y")
	assert.Error(t, err)
}
