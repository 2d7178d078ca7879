package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"storefront/internal/analytics"
	"storefront/internal/clock"
	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/handler"
	"storefront/internal/infra/auth"
	"storefront/internal/infra/memory"
	repo "storefront/internal/repository"
	"storefront/internal/resolver"
	"storefront/internal/server"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type TestClient struct {
	BaseURL string
	HTTP    *http.Client
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type AuthResponse struct {
	User  model.User `json:"user"`
	Token struct {
		AccessToken string    `json:"access_token"`
		ExpiresAt   time.Time `json:"expires_at"`
	} `json:"token"`
}

type testApp struct {
	client *TestClient
	repos  repo.Repos
}

// メモリストアで全レイヤーを組み立ててhttptestで起動する
func newTestApp(t *testing.T) testApp {
	t.Helper()

	cfg := config.Default()
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.BcryptCost = bcrypt.MinCost
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := clock.Real{}

	store := memory.NewStore(c)
	r := store.Repos()
	res := resolver.New(r)

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	issuer, err := auth.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL, c)
	require.NoError(t, err)

	auditor := usecase.NewAuditor(r, log, c)
	authUC := usecase.NewAuthUsecase(r.Users, hasher, issuer, log)
	productUC := usecase.NewProductUsecase(r, auditor, log)
	reviewUC := usecase.NewReviewUsecase(r, res, log)
	cartUC := usecase.NewCartUsecase(store, r, res, log)
	orderUC := usecase.NewOrderUsecase(store, r, res, log)
	adminUC := usecase.NewAdminUsecase(r, authUC, analytics.NewAggregator(r, res.Product, c), auditor, log)

	srv := server.New(&cfg, log, r.Users, server.Handlers{
		Auth:         handler.NewAuthHandler(authUC),
		Product:      handler.NewProductHandler(productUC, reviewUC),
		Cart:         handler.NewCartHandler(cartUC),
		Order:        handler.NewOrderHandler(orderUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		AdminUser:    handler.NewAdminUserHandler(adminUC),
		AdminOrder:   handler.NewAdminOrderHandler(orderUC, adminUC),
	})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	//管理者だけは直接作る
	hashed, err := hasher.Hash("admin-pass")
	require.NoError(t, err)
	_, err = r.Users.Create(context.Background(), model.User{
		Username: "admin", Password: hashed, Name: "Admin", Email: "admin@example.com", IsAdmin: true,
	})
	require.NoError(t, err)

	return testApp{
		client: &TestClient{BaseURL: ts.URL, HTTP: ts.Client()},
		repos:  r,
	}
}

func (c *TestClient) doJSON(
	ctx context.Context,
	t *testing.T,
	method string,
	path string,
	bearer string,
	body any,
) (*http.Response, []byte) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.HTTP.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func requireStatus(t *testing.T, resp *http.Response, body []byte, want int) {
	t.Helper()
	require.Equal(t, want, resp.StatusCode, "body=%s", string(body))
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(body, &out), "body=%s", string(body))
	return out
}

func (a testApp) register(t *testing.T, username string) AuthResponse {
	t.Helper()
	resp, body := a.client.doJSON(context.Background(), t, http.MethodPost, "/api/register", "", map[string]any{
		"username": username,
		"password": "secret1",
		"name":     username,
		"email":    username + "@example.com",
	})
	requireStatus(t, resp, body, http.StatusCreated)
	return decode[AuthResponse](t, body)
}

func (a testApp) login(t *testing.T, username, password string) string {
	t.Helper()
	resp, body := a.client.doJSON(context.Background(), t, http.MethodPost, "/api/login", "", map[string]any{
		"username": username,
		"password": password,
	})
	requireStatus(t, resp, body, http.StatusOK)
	return decode[AuthResponse](t, body).Token.AccessToken
}

func (a testApp) createProduct(t *testing.T, adminToken string, title string, price float64, stock int64) model.Product {
	t.Helper()
	resp, body := a.client.doJSON(context.Background(), t, http.MethodPost, "/api/admin/products", adminToken, map[string]any{
		"title":    title,
		"price":    price,
		"stock":    stock,
		"category": "Home",
		"images":   []string{"https://img.example.com/" + title + ".png"},
	})
	requireStatus(t, resp, body, http.StatusCreated)
	return decode[model.Product](t, body)
}

// =====================
// tests
// =====================

func TestAPI_Healthz(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.client.doJSON(context.Background(), t, http.MethodGet, "/healthz", "", nil)
	requireStatus(t, resp, body, http.StatusOK)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestAPI_RegisterLoginAndMe(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)

	reg := app.register(t, "alice")
	assert.NotEmpty(t, reg.Token.AccessToken)
	assert.False(t, reg.User.IsAdmin)
	assert.NotContains(t, string(mustJSON(t, reg.User)), "secret1")

	//同じusernameは400
	resp, body := app.client.doJSON(ctx, t, http.MethodPost, "/api/register", "", map[string]any{
		"username": "alice", "password": "secret1", "name": "A", "email": "other@example.com",
	})
	requireStatus(t, resp, body, http.StatusBadRequest)
	assert.Equal(t, "username already exists", decode[ErrorResponse](t, body).Error)

	//バリデーション
	resp, body = app.client.doJSON(ctx, t, http.MethodPost, "/api/register", "", map[string]any{
		"username": "bob", "password": "x", "name": "B", "email": "not-an-email",
	})
	requireStatus(t, resp, body, http.StatusBadRequest)

	resp, body = app.client.doJSON(ctx, t, http.MethodPost, "/api/login", "", map[string]any{
		"username": "alice", "password": "wrong-pass",
	})
	requireStatus(t, resp, body, http.StatusUnauthorized)

	token := app.login(t, "alice", "secret1")

	resp, body = app.client.doJSON(ctx, t, http.MethodGet, "/api/user", token, nil)
	requireStatus(t, resp, body, http.StatusOK)
	assert.Equal(t, "alice", decode[model.User](t, body).Username)

	resp, body = app.client.doJSON(ctx, t, http.MethodGet, "/api/check-admin", token, nil)
	requireStatus(t, resp, body, http.StatusOK)
	assert.JSONEq(t, `{"is_admin":false}`, string(body))

	resp, body = app.client.doJSON(ctx, t, http.MethodGet, "/api/user", "", nil)
	requireStatus(t, resp, body, http.StatusUnauthorized)
}

func TestAPI_RegisterCannotSelfPromote(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)

	resp, body := app.client.doJSON(ctx, t, http.MethodPost, "/api/register", "", map[string]any{
		"username": "mallory", "password": "secret1", "name": "M", "email": "m@example.com", "is_admin": true,
	})
	requireStatus(t, resp, body, http.StatusCreated)
	out := decode[AuthResponse](t, body)
	assert.False(t, out.User.IsAdmin)

	resp, body = app.client.doJSON(ctx, t, http.MethodGet, "/api/admin/users", out.Token.AccessToken, nil)
	requireStatus(t, resp, body, http.StatusForbidden)
}

func TestAPI_CatalogPublic(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)
	admin := app.login(t, "admin", "admin-pass")

	lamp := app.createProduct(t, admin, "Lamp", 20, 5)
	app.createProduct(t, admin, "Rug", 40, 5)

	resp, body := app.client.doJSON(ctx, t, http.MethodGet, "/api/products?limit=1", "", nil)
	requireStatus(t, resp, body, http.StatusOK)
	assert.Len(t, decode[[]model.Product](t, body), 1)

	resp, body = app.client.doJSON(ctx, t, http.MethodGet, "/api/products/category/Home", "", nil)
	requireStatus(t, resp, body, http.StatusOK)
	assert.Len(t, decode[[]model.Product](t, body), 2)

	resp, body = app.client.doJSON(ctx, t, http.MethodGet, "/api/products/"+strconv.FormatInt(lamp.ID, 10), "", nil)
	requireStatus(t, resp, body, http.StatusOK)
	assert.Equal(t, "Lamp", decode[model.Product](t, body).Title)

	resp, body = app.client.doJSON(ctx, t, http.MethodGet, "/api/products/999", "", nil)
	requireStatus(t, resp, body, http.StatusNotFound)

	resp, body = app.client.doJSON(ctx, t, http.MethodGet, "/api/products/abc", "", nil)
	requireStatus(t, resp, body, http.StatusBadRequest)

	resp, body = app.client.doJSON(ctx, t, http.MethodGet, "/api/categories", "", nil)
	requireStatus(t, resp, body, http.StatusOK)
	assert.JSONEq(t, `[]`, string(body))
}

func TestAPI_CartCheckoutFlow(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)
	admin := app.login(t, "admin", "admin-pass")
	lamp := app.createProduct(t, admin, "Lamp", 20, 5)

	alice := app.register(t, "alice").Token.AccessToken
	bob := app.register(t, "bob").Token.AccessToken

	resp, body := app.client.doJSON(ctx, t, http.MethodPost, "/api/cart/items", alice, map[string]any{
		"product_id": lamp.ID, "quantity": 2,
	})
	requireStatus(t, resp, body, http.StatusCreated)
	item := decode[model.CartItem](t, body)

	resp, body = app.client.doJSON(ctx, t, http.MethodPut, "/api/cart/items/"+strconv.FormatInt(item.ID, 10), alice, map[string]any{
		"quantity": 3,
	})
	requireStatus(t, resp, body, http.StatusOK)

	//他人の明細は404
	resp, body = app.client.doJSON(ctx, t, http.MethodDelete, "/api/cart/items/"+strconv.FormatInt(item.ID, 10), bob, nil)
	requireStatus(t, resp, body, http.StatusNotFound)

	resp, body = app.client.doJSON(ctx, t, http.MethodGet, "/api/cart", alice, nil)
	requireStatus(t, resp, body, http.StatusOK)
	cart := decode[model.CartWithItems](t, body)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(3), cart.Items[0].Quantity)

	resp, body = app.client.doJSON(ctx, t, http.MethodPost, "/api/orders", alice, map[string]any{
		"shipping_address": "1 Main St", "payment_method": "UPI",
	})
	requireStatus(t, resp, body, http.StatusCreated)
	order := decode[model.OrderWithItems](t, body)
	assert.Equal(t, 60.0, order.TotalAmount)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 1)

	//在庫が減り、カートは空
	resp, body = app.client.doJSON(ctx, t, http.MethodGet, "/api/products/"+strconv.FormatInt(lamp.ID, 10), "", nil)
	requireStatus(t, resp, body, http.StatusOK)
	assert.Equal(t, int64(2), decode[model.Product](t, body).Stock)

	resp, body = app.client.doJSON(ctx, t, http.MethodGet, "/api/cart", alice, nil)
	requireStatus(t, resp, body, http.StatusOK)
	assert.Empty(t, decode[model.CartWithItems](t, body).Items)

	//空カートでの注文は400
	resp, body = app.client.doJSON(ctx, t, http.MethodPost, "/api/orders", alice, map[string]any{
		"shipping_address": "1 Main St", "payment_method": "UPI",
	})
	requireStatus(t, resp, body, http.StatusBadRequest)
	assert.Equal(t, "cart empty", decode[ErrorResponse](t, body).Error)

	orderPath := "/api/orders/" + strconv.FormatInt(order.ID, 10)
	resp, body = app.client.doJSON(ctx, t, http.MethodGet, orderPath, alice, nil)
	requireStatus(t, resp, body, http.StatusOK)

	resp, body = app.client.doJSON(ctx, t, http.MethodGet, orderPath, bob, nil)
	requireStatus(t, resp, body, http.StatusForbidden)

	resp, body = app.client.doJSON(ctx, t, http.MethodGet, "/api/orders", alice, nil)
	requireStatus(t, resp, body, http.StatusOK)
	assert.Len(t, decode[[]model.Order](t, body), 1)

	resp, body = app.client.doJSON(ctx, t, http.MethodGet, "/api/admin/orders", admin, nil)
	requireStatus(t, resp, body, http.StatusOK)
	assert.Len(t, decode[[]model.Order](t, body), 1)

	resp, body = app.client.doJSON(ctx, t, http.MethodGet, "/api/admin/analytics?timeframe=30d", admin, nil)
	requireStatus(t, resp, body, http.StatusOK)
	dash := decode[analytics.Dashboard](t, body)
	assert.Equal(t, 60.0, dash.Revenue)
	assert.Len(t, dash.OrderStats, 30)
	require.Len(t, dash.TopProducts, 1)
	assert.Equal(t, int64(3), dash.TopProducts[0].TotalSold)

	resp, body = app.client.doJSON(ctx, t, http.MethodGet, "/api/admin/analytics?timeframe=1d", admin, nil)
	requireStatus(t, resp, body, http.StatusBadRequest)
}

func TestAPI_Reviews(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)
	admin := app.login(t, "admin", "admin-pass")
	lamp := app.createProduct(t, admin, "Lamp", 20, 5)
	alice := app.register(t, "alice").Token.AccessToken
	path := "/api/products/" + strconv.FormatInt(lamp.ID, 10) + "/reviews"

	resp, body := app.client.doJSON(ctx, t, http.MethodPost, path, "", map[string]any{"rating": 4})
	requireStatus(t, resp, body, http.StatusUnauthorized)

	resp, body = app.client.doJSON(ctx, t, http.MethodPost, path, alice, map[string]any{"rating": 9})
	requireStatus(t, resp, body, http.StatusBadRequest)

	for _, rating := range []int{5, 3, 4} {
		resp, body = app.client.doJSON(ctx, t, http.MethodPost, path, alice, map[string]any{"rating": rating, "comment": "ok"})
		requireStatus(t, resp, body, http.StatusCreated)
	}

	resp, body = app.client.doJSON(ctx, t, http.MethodGet, path, "", nil)
	requireStatus(t, resp, body, http.StatusOK)
	reviews := decode[[]model.ReviewWithUser](t, body)
	require.Len(t, reviews, 3)
	assert.Equal(t, "alice", reviews[0].User.Username)

	resp, body = app.client.doJSON(ctx, t, http.MethodGet, "/api/products/"+strconv.FormatInt(lamp.ID, 10), "", nil)
	requireStatus(t, resp, body, http.StatusOK)
	p := decode[model.Product](t, body)
	require.NotNil(t, p.Rating)
	assert.Equal(t, 4.0, *p.Rating)
}

func TestAPI_AdminUserManagement(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)
	admin := app.login(t, "admin", "admin-pass")
	bobAuth := app.register(t, "bob")
	bob := bobAuth.Token.AccessToken
	bobPath := "/api/admin/users/" + strconv.FormatInt(bobAuth.User.ID, 10)

	resp, body := app.client.doJSON(ctx, t, http.MethodGet, "/api/admin/users", bob, nil)
	requireStatus(t, resp, body, http.StatusForbidden)

	//昇格後は同じトークンで管理APIに入れる
	resp, body = app.client.doJSON(ctx, t, http.MethodPatch, bobPath, admin, map[string]any{"is_admin": true})
	requireStatus(t, resp, body, http.StatusOK)
	assert.True(t, decode[model.User](t, body).IsAdmin)

	resp, body = app.client.doJSON(ctx, t, http.MethodGet, "/api/admin/users", bob, nil)
	requireStatus(t, resp, body, http.StatusOK)
	assert.Len(t, decode[[]model.User](t, body), 2)

	resp, body = app.client.doJSON(ctx, t, http.MethodPost, "/api/admin/users", admin, map[string]any{
		"username": "carol", "password": "secret1", "name": "Carol", "email": "carol@example.com", "is_admin": true,
	})
	requireStatus(t, resp, body, http.StatusCreated)
	assert.True(t, decode[model.User](t, body).IsAdmin)

	//削除されたユーザーのトークンは401
	resp, body = app.client.doJSON(ctx, t, http.MethodDelete, bobPath, admin, nil)
	requireStatus(t, resp, body, http.StatusNoContent)

	resp, body = app.client.doJSON(ctx, t, http.MethodGet, "/api/user", bob, nil)
	requireStatus(t, resp, body, http.StatusUnauthorized)

	resp, body = app.client.doJSON(ctx, t, http.MethodDelete, bobPath, admin, nil)
	requireStatus(t, resp, body, http.StatusNotFound)

	//管理操作は監査ログに新しい順で残る
	resp, body = app.client.doJSON(ctx, t, http.MethodGet, "/api/admin/audit-logs?resource_type=user", admin, nil)
	requireStatus(t, resp, body, http.StatusOK)
	logs := decode[[]model.AuditLog](t, body)
	require.Len(t, logs, 3)
	assert.Equal(t, model.AuditActionDelete, logs[0].Action)
	assert.Equal(t, bobAuth.User.ID, logs[0].ResourceID)
	assert.Equal(t, model.AuditActionCreate, logs[1].Action)
	assert.Equal(t, model.AuditActionSetAdmin, logs[2].Action)

	resp, body = app.client.doJSON(ctx, t, http.MethodGet, "/api/admin/audit-logs?action=set_admin&limit=1", admin, nil)
	requireStatus(t, resp, body, http.StatusOK)
	assert.Len(t, decode[[]model.AuditLog](t, body), 1)

	for _, q := range []string{"?limit=x", "?action=PURGE", "?from=yesterday"} {
		resp, body = app.client.doJSON(ctx, t, http.MethodGet, "/api/admin/audit-logs"+q, admin, nil)
		requireStatus(t, resp, body, http.StatusBadRequest)
	}
}

func TestAPI_AdminCatalogManagement(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)
	admin := app.login(t, "admin", "admin-pass")
	lamp := app.createProduct(t, admin, "Lamp", 20, 5)
	lampPath := "/api/admin/products/" + strconv.FormatInt(lamp.ID, 10)

	resp, body := app.client.doJSON(ctx, t, http.MethodPatch, lampPath, admin, map[string]any{"price": 25})
	requireStatus(t, resp, body, http.StatusOK)
	updated := decode[model.Product](t, body)
	assert.Equal(t, 25.0, updated.Price)
	assert.Equal(t, "Lamp", updated.Title)

	//価格は正、画像は1枚以上
	for _, patch := range []map[string]any{{"price": 0}, {"images": []string{}}, {"images": []string{""}}} {
		resp, body = app.client.doJSON(ctx, t, http.MethodPatch, lampPath, admin, patch)
		requireStatus(t, resp, body, http.StatusBadRequest)
	}
	for _, create := range []map[string]any{
		{"title": "Free", "price": 0, "stock": 1, "category": "Home", "images": []string{"f.png"}},
		{"title": "Blank", "price": 5, "stock": 1, "category": "Home"},
		{"title": "Blank", "price": 5, "stock": 1, "category": "Home", "images": []string{}},
	} {
		resp, body = app.client.doJSON(ctx, t, http.MethodPost, "/api/admin/products", admin, create)
		requireStatus(t, resp, body, http.StatusBadRequest)
	}

	resp, body = app.client.doJSON(ctx, t, http.MethodPost, "/api/admin/categories", admin, map[string]any{"name": "Home", "image": "h.png"})
	requireStatus(t, resp, body, http.StatusCreated)
	resp, body = app.client.doJSON(ctx, t, http.MethodPost, "/api/admin/categories", admin, map[string]any{"name": "Home"})
	requireStatus(t, resp, body, http.StatusBadRequest)

	resp, body = app.client.doJSON(ctx, t, http.MethodPost, "/api/admin/banners", admin, map[string]any{"image": "b.png", "link": "/sale"})
	requireStatus(t, resp, body, http.StatusCreated)

	resp, body = app.client.doJSON(ctx, t, http.MethodGet, "/api/banners", "", nil)
	requireStatus(t, resp, body, http.StatusOK)
	assert.Len(t, decode[[]model.Banner](t, body), 1)

	resp, body = app.client.doJSON(ctx, t, http.MethodDelete, lampPath, admin, nil)
	requireStatus(t, resp, body, http.StatusNoContent)

	resp, body = app.client.doJSON(ctx, t, http.MethodGet, "/api/products", "", nil)
	requireStatus(t, resp, body, http.StatusOK)
	assert.JSONEq(t, `[]`, string(body))
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}
