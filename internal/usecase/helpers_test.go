package usecase

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"storefront/internal/analytics"
	"storefront/internal/clock"
	"storefront/internal/domain/model"
	"storefront/internal/infra/memory"
	repo "storefront/internal/repository"
	"storefront/internal/resolver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

func assertHTTPError(t *testing.T, err error, status int, msg string) {
	t.Helper()
	he, ok := AsHTTPError(err)
	if !assert.True(t, ok, "want *HTTPError, got %v", err) {
		return
	}
	assert.Equal(t, status, he.Status)
	assert.Equal(t, msg, he.Message)
}

// 平文をそのまま「ハッシュ」にするテスト用hasher
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "h:" + plain, nil }
func (plainHasher) Verify(plain, hashed string) bool  { return hashed == "h:"+plain }

type staticIssuer struct{}

func (staticIssuer) Issue(u model.User) (string, time.Time, error) {
	return "token-" + string(u.Role()), testNow.Add(time.Hour), nil
}

// メモリストア上に組んだusecase一式
type env struct {
	store   *memory.Store
	repos   repo.Repos
	auth    *AuthUsecase
	product *ProductUsecase
	cart    *CartUsecase
	order   *OrderUsecase
	review  *ReviewUsecase
	admin   *AdminUsecase
}

func newEnv(t *testing.T) env {
	t.Helper()
	c := clock.Fixed{T: testNow}
	log := discardLogger()
	store := memory.NewStore(c)
	r := store.Repos()
	res := resolver.New(r)
	auditor := NewAuditor(r, log, c)
	auth := NewAuthUsecase(r.Users, plainHasher{}, staticIssuer{}, log)

	return env{
		store:   store,
		repos:   r,
		auth:    auth,
		product: NewProductUsecase(r, auditor, log),
		cart:    NewCartUsecase(store, r, res, log),
		order:   NewOrderUsecase(store, r, res, log),
		review:  NewReviewUsecase(r, res, log),
		admin:   NewAdminUsecase(r, auth, analytics.NewAggregator(r, res.Product, c), auditor, log),
	}
}

func (e env) mustUser(t *testing.T, username string, isAdmin bool) model.User {
	t.Helper()
	u, err := e.repos.Users.Create(context.Background(), model.User{
		Username: username,
		Password: "h:password",
		Name:     username,
		Email:    username + "@example.com",
		IsAdmin:  isAdmin,
	})
	require.NoError(t, err)
	return u
}

func (e env) mustProduct(t *testing.T, title string, price float64, stock int64) model.Product {
	t.Helper()
	p, err := e.repos.Products.Create(context.Background(), model.Product{
		Title:    title,
		Category: "Home",
		Price:    price,
		Stock:    stock,
	})
	require.NoError(t, err)
	return p
}

func ptr[T any](v T) *T {
	return &v
}
