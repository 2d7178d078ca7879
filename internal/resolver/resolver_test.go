package resolver

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

type fixture struct {
	repos repo.Repos
	user  model.User
	lamp  model.Product
	chair model.Product
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	r := memory.NewStore(clock.Fixed{T: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)}).Repos()

	u, err := r.Users.Create(ctx, model.User{Username: "alice", Password: "x", Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)
	lamp, err := r.Products.Create(ctx, model.Product{Title: "Lamp", Category: "Home", Price: 20, Stock: 5})
	require.NoError(t, err)
	chair, err := r.Products.Create(ctx, model.Product{Title: "Chair", Category: "Home", Price: 80, Stock: 5})
	require.NoError(t, err)

	return fixture{repos: r, user: u, lamp: lamp, chair: chair}
}

func TestResolver_CartWithItems(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cart, err := f.repos.Carts.GetOrCreateByUserID(ctx, f.user.ID)
	require.NoError(t, err)
	_, err = f.repos.CartItems.Upsert(ctx, model.CartItem{CartID: cart.ID, ProductID: f.lamp.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = f.repos.CartItems.Upsert(ctx, model.CartItem{CartID: cart.ID, ProductID: f.chair.ID, Quantity: 1})
	require.NoError(t, err)

	got, err := New(f.repos).CartWithItems(ctx, f.user.ID)
	require.NoError(t, err)

	assert.Equal(t, cart.ID, got.Cart.ID)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Lamp", got.Items[0].Product.Title)
	assert.Equal(t, int64(2), got.Items[0].Quantity)
	assert.Equal(t, "Chair", got.Items[1].Product.Title)
}

func TestResolver_CartWithItems_NoCart(t *testing.T) {
	f := newFixture(t)

	_, err := New(f.repos).CartWithItems(context.Background(), f.user.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestResolver_OrderWithItems_DeletedProductStillResolves(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	o, err := f.repos.Orders.Create(ctx, model.Order{UserID: f.user.ID, TotalAmount: 20, ShippingAddress: "a", PaymentMethod: "UPI"})
	require.NoError(t, err)
	_, err = f.repos.OrderItems.CreateBulk(ctx, []model.OrderItem{{OrderID: o.ID, ProductID: f.lamp.ID, Quantity: 1, Price: 20}})
	require.NoError(t, err)

	_, err = f.repos.Products.Delete(ctx, f.lamp.ID)
	require.NoError(t, err)

	got, err := New(f.repos).OrderWithItems(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Lamp", got.Items[0].Product.Title)
	assert.True(t, got.Items[0].Product.Deleted())
}

func TestResolver_OrderWithItems_DanglingProduct(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	o, err := f.repos.Orders.Create(ctx, model.Order{UserID: f.user.ID, TotalAmount: 20, ShippingAddress: "a", PaymentMethod: "UPI"})
	require.NoError(t, err)
	_, err = f.repos.OrderItems.CreateBulk(ctx, []model.OrderItem{{OrderID: o.ID, ProductID: 999, Quantity: 1, Price: 20}})
	require.NoError(t, err)

	_, err = New(f.repos).OrderWithItems(ctx, o.ID)
	assert.ErrorIs(t, err, repo.ErrInconsistentReference)
}

func TestResolver_ProductReviews_DeletedAuthor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	comment := "sturdy"
	_, err := f.repos.Reviews.Create(ctx, model.Review{UserID: f.user.ID, ProductID: f.chair.ID, Rating: 4, Comment: &comment})
	require.NoError(t, err)
	_, err = f.repos.Users.Delete(ctx, f.user.ID)
	require.NoError(t, err)

	got, err := New(f.repos).ProductReviews(ctx, f.chair.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "alice", got[0].User.Username)
	require.NotNil(t, got[0].Comment)
	assert.Equal(t, "sturdy", *got[0].Comment)
}

func TestResolver_ProductReviews_Empty(t *testing.T) {
	f := newFixture(t)

	got, err := New(f.repos).ProductReviews(context.Background(), f.lamp.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
