// Package seed は起動時にデモデータを投入する。
// 乱数源と時計を外から渡すので、同じシード値なら同じデータになる。
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"storefront/internal/clock"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/pkg/errors"
)

type Summary struct {
	Users      int `json:"users"`
	Categories int `json:"categories"`
	Banners    int `json:"banners"`
	Products   int `json:"products"`
	Orders     int `json:"orders"`
	OrderItems int `json:"order_items"`
}

type Seeder struct {
	repos repo.Repos
	clock clock.Clock
	rng   *rand.Rand
	log   *slog.Logger
}

// DI
func New(repos repo.Repos, c clock.Clock, rng *rand.Rand, log *slog.Logger) *Seeder {
	return &Seeder{repos: repos, clock: c, rng: rng, log: log}
}

// seedが0なら現在時刻から作る
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// ユーザーが1人でもいれば何もしない（起動時に一度だけ）
func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	n, err := s.repos.Users.Count(ctx)
	if err != nil {
		return Summary{}, errors.Wrap(err, "count users")
	}
	if n > 0 {
		s.log.Info("seed skipped: store is not empty", slog.Int64("users", n))
		return Summary{}, nil
	}

	var sum Summary

	regularIDs, err := s.seedUsers(ctx, &sum)
	if err != nil {
		return Summary{}, err
	}
	if err := s.seedCatalog(ctx, &sum); err != nil {
		return Summary{}, err
	}
	productIDs, err := s.seedProducts(ctx, &sum)
	if err != nil {
		return Summary{}, err
	}
	if err := s.seedOrders(ctx, regularIDs, productIDs, &sum); err != nil {
		return Summary{}, err
	}

	s.log.Info("seed completed",
		slog.Int("users", sum.Users),
		slog.Int("categories", sum.Categories),
		slog.Int("banners", sum.Banners),
		slog.Int("products", sum.Products),
		slog.Int("orders", sum.Orders),
		slog.Int("order_items", sum.OrderItems),
	)
	return sum, nil
}

// 一般ユーザーのIDを返す
func (s *Seeder) seedUsers(ctx context.Context, sum *Summary) ([]int64, error) {
	var regular []int64
	for _, u := range users {
		created, err := s.repos.Users.Create(ctx, model.User{
			Username: u.username,
			Password: DemoPasswordHash,
			Name:     u.name,
			Email:    u.email,
			IsAdmin:  u.isAdmin,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "seed user %s", u.username)
		}
		sum.Users++
		if !u.isAdmin {
			regular = append(regular, created.ID)
		}
	}
	return regular, nil
}

func (s *Seeder) seedCatalog(ctx context.Context, sum *Summary) error {
	for _, c := range categories {
		if _, err := s.repos.Categories.Create(ctx, model.Category{Name: c.name, Image: c.image}); err != nil {
			return errors.Wrapf(err, "seed category %s", c.name)
		}
		sum.Categories++
	}
	for _, b := range banners {
		if _, err := s.repos.Banners.Create(ctx, model.Banner{Image: b.image, Link: b.link}); err != nil {
			return errors.Wrapf(err, "seed banner %s", b.link)
		}
		sum.Banners++
	}
	return nil
}

func (s *Seeder) seedProducts(ctx context.Context, sum *Summary) ([]model.Product, error) {
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		discount, rating := p.discount, p.rating
		created, err := s.repos.Products.Create(ctx, model.Product{
			Title:              p.title,
			Description:        p.description,
			Price:              p.price,
			DiscountPercentage: &discount,
			Rating:             &rating,
			Stock:              p.stock,
			Brand:              p.brand,
			Category:           p.category,
			Thumbnail:          unsplash + p.photos[0] + thumbSize,
			Images: []string{
				unsplash + p.photos[0] + thumbSize,
				unsplash + p.photos[1] + thumbSize,
			},
		})
		if err != nil {
			return nil, errors.Wrapf(err, "seed product %s", p.title)
		}
		sum.Products++
		out = append(out, created)
	}
	return out, nil
}

// 過去90日以内のランダムな注文。明細は先頭10商品から1〜3件、数量1〜3
func (s *Seeder) seedOrders(ctx context.Context, userIDs []int64, catalog []model.Product, sum *Summary) error {
	if len(userIDs) == 0 || len(catalog) == 0 {
		return nil
	}
	orderable := catalog[:min(orderableProducts, len(catalog))]
	now := s.clock.Now()

	for i := 0; i < historicalOrders; i++ {
		orderDate := now.AddDate(0, 0, -s.rng.IntN(historyDays))

		order, err := s.repos.Orders.Create(ctx, model.Order{
			UserID:          userIDs[s.rng.IntN(len(userIDs))],
			TotalAmount:     float64(s.rng.IntN(10000) + 1000),
			Status:          model.OrderStatuses[s.rng.IntN(len(model.OrderStatuses))],
			ShippingAddress: s.sampleAddress(),
			PaymentMethod:   paymentMethods[s.rng.IntN(len(paymentMethods))],
			CreatedAt:       orderDate,
		})
		if err != nil {
			return errors.Wrap(err, "seed order")
		}
		sum.Orders++

		itemCount := s.rng.IntN(3) + 1
		items := make([]model.OrderItem, 0, itemCount)
		for j := 0; j < itemCount; j++ {
			p := orderable[s.rng.IntN(len(orderable))]
			items = append(items, model.OrderItem{
				OrderID:   order.ID,
				ProductID: p.ID,
				Quantity:  int64(s.rng.IntN(3) + 1),
				Price:     p.Price,
				CreatedAt: orderDate,
			})
		}
		created, err := s.repos.OrderItems.CreateBulk(ctx, items)
		if err != nil {
			return errors.Wrapf(err, "seed order items for order %d", order.ID)
		}
		sum.OrderItems += len(created)
	}
	return nil
}

func (s *Seeder) sampleAddress() string {
	return fmt.Sprintf("%d Sample Street, Sample City, Sample State, %d",
		s.rng.IntN(999)+1, s.rng.IntN(900000)+100000)
}
