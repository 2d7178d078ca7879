package usecase

import (
	"context"
	"net/http"
	"testing"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOrder() PlaceOrderInput {
	return PlaceOrderInput{ShippingAddress: "1 Main St", PaymentMethod: "UPI"}
}

func TestOrderUsecase_PlaceOrder_Success(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	u := e.mustUser(t, "alice", false)
	lamp := e.mustProduct(t, "Lamp", 19.99, 10)
	chair := e.mustProduct(t, "Chair", 80, 3)

	_, err := e.cart.AddItem(ctx, u.ID, AddCartItemInput{ProductID: lamp.ID, Quantity: 3})
	require.NoError(t, err)
	_, err = e.cart.AddItem(ctx, u.ID, AddCartItemInput{ProductID: chair.ID, Quantity: 1})
	require.NoError(t, err)

	//注文後の値上げは注文価格に影響しない
	order, err := e.order.PlaceOrder(ctx, u.ID, validOrder())
	require.NoError(t, err)
	_, err = e.repos.Products.Update(ctx, lamp.ID, repo.ProductPatch{Price: ptr(99.0)})
	require.NoError(t, err)

	assert.Equal(t, u.ID, order.UserID)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, 139.97, order.TotalAmount)
	assert.Equal(t, testNow, order.CreatedAt)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 19.99, order.Items[0].Price)
	assert.Equal(t, int64(3), order.Items[0].Quantity)

	gotLamp, err := e.repos.Products.FindByID(ctx, lamp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), gotLamp.Stock)
	gotChair, err := e.repos.Products.FindByID(ctx, chair.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), gotChair.Stock)

	cart, err := e.cart.GetCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	got, err := e.order.GetMyOrder(ctx, u.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 19.99, got.Items[0].Price)
}

func TestOrderUsecase_PlaceOrder_ClientTotal(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	u := e.mustUser(t, "alice", false)
	p := e.mustProduct(t, "Lamp", 20, 10)

	_, err := e.cart.AddItem(ctx, u.ID, AddCartItemInput{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	in := validOrder()
	in.TotalAmount = ptr(35.0)
	order, err := e.order.PlaceOrder(ctx, u.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 35.0, order.TotalAmount)
}

func TestOrderUsecase_PlaceOrder_Validation(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	u := e.mustUser(t, "alice", false)

	_, err := e.order.PlaceOrder(ctx, u.ID, PlaceOrderInput{PaymentMethod: "UPI"})
	assertHTTPError(t, err, http.StatusBadRequest, "shipping_address required")

	_, err = e.order.PlaceOrder(ctx, u.ID, PlaceOrderInput{ShippingAddress: "x"})
	assertHTTPError(t, err, http.StatusBadRequest, "payment_method required")

	in := validOrder()
	in.TotalAmount = ptr(-1.0)
	_, err = e.order.PlaceOrder(ctx, u.ID, in)
	assertHTTPError(t, err, http.StatusBadRequest, "total_amount must be >= 0")

	//カートが無い・空
	_, err = e.order.PlaceOrder(ctx, u.ID, validOrder())
	assertHTTPError(t, err, http.StatusBadRequest, "cart empty")
	_, err = e.cart.GetCart(ctx, u.ID)
	require.NoError(t, err)
	_, err = e.order.PlaceOrder(ctx, u.ID, validOrder())
	assertHTTPError(t, err, http.StatusBadRequest, "cart empty")
}

func TestOrderUsecase_PlaceOrder_InsufficientStock_RollsBack(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	u := e.mustUser(t, "alice", false)
	lamp := e.mustProduct(t, "Lamp", 20, 10)
	chair := e.mustProduct(t, "Chair", 80, 5)

	_, err := e.cart.AddItem(ctx, u.ID, AddCartItemInput{ProductID: lamp.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = e.cart.AddItem(ctx, u.ID, AddCartItemInput{ProductID: chair.ID, Quantity: 5})
	require.NoError(t, err)

	//カート投入後に在庫が減った
	_, err = e.repos.Products.AdjustStock(ctx, chair.ID, -4)
	require.NoError(t, err)

	_, err = e.order.PlaceOrder(ctx, u.ID, validOrder())
	assertHTTPError(t, err, http.StatusConflict, "insufficient stock")

	gotLamp, err := e.repos.Products.FindByID(ctx, lamp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), gotLamp.Stock)

	n, err := e.repos.Orders.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	cart, err := e.cart.GetCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
}

func TestOrderUsecase_GetMyOrder_Ownership(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	alice := e.mustUser(t, "alice", false)
	bob := e.mustUser(t, "bob", false)
	p := e.mustProduct(t, "Lamp", 20, 10)

	_, err := e.cart.AddItem(ctx, alice.ID, AddCartItemInput{ProductID: p.ID})
	require.NoError(t, err)
	order, err := e.order.PlaceOrder(ctx, alice.ID, validOrder())
	require.NoError(t, err)

	_, err = e.order.GetMyOrder(ctx, bob.ID, order.ID)
	assertHTTPError(t, err, http.StatusForbidden, "forbidden")

	_, err = e.order.GetMyOrder(ctx, alice.ID, 999)
	assertHTTPError(t, err, http.StatusNotFound, "order not found")

	mine, err := e.order.ListMyOrders(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := e.order.ListMyOrders(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, theirs)

	all, err := e.order.ListAllOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
