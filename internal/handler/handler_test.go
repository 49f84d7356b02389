package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xenking/outdoor-shop/internal/domain/order"
	"github.com/xenking/outdoor-shop/internal/domain/product"
)

// --- Mock implementations ---

type mockProductRepo struct {
	products []product.Product
	byID     map[string]*product.Product
	listErr  error
}

func (m *mockProductRepo) List(_ context.Context) ([]product.Product, error) {
	return m.products, m.listErr
}

func (m *mockProductRepo) GetByID(_ context.Context, id string) (*product.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return p, nil
}

func (m *mockProductRepo) GetByIDs(_ context.Context, ids []string) ([]product.Product, error) {
	var out []product.Product
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

type mockOrderRepo struct {
	lastOrder *order.Order
	err       error
}

func (m *mockOrderRepo) Create(_ context.Context, o *order.Order) error {
	m.lastOrder = o
	return m.err
}

// --- Helpers ---

func newTestProduct(id, name, price string) product.Product {
	return product.Product{
		ID:          id,
		Name:        name,
		Description: "test product",
		Price:       decimal.RequireFromString(price),
		ImageURL:    "/" + id + ".jpg",
	}
}

func newHandler(orderRepo *mockOrderRepo, products ...product.Product) *Handler {
	byID := make(map[string]*product.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	repo := &mockProductRepo{products: products, byID: byID}
	svc := order.NewService(repo, orderRepo, zap.NewNop())
	return New(Config{}, repo, svc)
}

func doRequest(h *Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

const validOrderBody = `{
	"items": [{"productId": "tent", "price": 129.99, "quantity": 1}],
	"customerName": "Dana Hiker",
	"customerEmail": "dana@example.com",
	"customerPhone": "050-1234567",
	"shippingAddress": "1 Trailhead Way",
	"shippingMethod": "express",
	"totalPrice": 159.99
}`

// --- Tests ---

func TestStatus(t *testing.T) {
	h := newHandler(&mockOrderRepo{})
	rec := doRequest(h, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "API is running")
}

func TestListProducts(t *testing.T) {
	h := newHandler(&mockOrderRepo{},
		newTestProduct("p1", "Camping Tent", "129.99"),
		newTestProduct("p2", "Headlamp", "24.99"),
	)
	rec := doRequest(h, http.MethodGet, "/api/products", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "p1", got[0]["id"])
	assert.Equal(t, "Camping Tent", got[0]["name"])
	assert.InDelta(t, 129.99, got[0]["price"], 0.001)
	assert.Equal(t, "/p2.jpg", got[1]["imageUrl"])
}

func TestListProducts_PriceIsJSONNumber(t *testing.T) {
	h := newHandler(&mockOrderRepo{}, newTestProduct("p1", "Camping Tent", "129.99"))
	rec := doRequest(h, http.MethodGet, "/api/products", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)

	raw := got[0]["price"]
	require.NotEmpty(t, raw)
	assert.NotEqual(t, byte('"'), raw[0], "price must be a JSON number, body: %s", rec.Body.String())
	assert.Equal(t, "129.99", string(raw))
}

func TestListProducts_ImageBaseURL(t *testing.T) {
	p := newTestProduct("p1", "Camping Tent", "129.99")
	repo := &mockProductRepo{products: []product.Product{p}}
	h := New(Config{ImageBaseURL: "https://cdn.example.com"}, repo, nil)

	rec := doRequest(h, http.MethodGet, "/api/products", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "https://cdn.example.com/p1.jpg", got[0]["imageUrl"])
}

func TestListProducts_Error(t *testing.T) {
	repo := &mockProductRepo{listErr: errors.New("db down")}
	h := New(Config{}, repo, nil)

	rec := doRequest(h, http.MethodGet, "/api/products", "")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Server error fetching products", got["message"])
}

func TestPlaceOrder_Success(t *testing.T) {
	orderRepo := &mockOrderRepo{}
	h := newHandler(orderRepo, newTestProduct("tent", "Camping Tent", "129.99"))

	rec := doRequest(h, http.MethodPost, "/api/orders", validOrderBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Order received successfully", got["message"])
	assert.NotEmpty(t, got["orderId"])

	require.NotNil(t, orderRepo.lastOrder)
	assert.True(t, decimal.RequireFromString("159.99").Equal(orderRepo.lastOrder.Total),
		"stored total %s", orderRepo.lastOrder.Total)
}

func TestPlaceOrder_MissingFields(t *testing.T) {
	h := newHandler(&mockOrderRepo{}, newTestProduct("tent", "Camping Tent", "129.99"))

	bodies := []string{
		`{"items": [], "customerName": "Dana", "customerEmail": "d@e.com"}`,
		`{"items": [{"productId": "tent", "quantity": 1}], "customerEmail": "d@e.com"}`,
		`{"items": [{"productId": "tent", "quantity": 1}], "customerName": "Dana"}`,
	}

	for _, body := range bodies {
		rec := doRequest(h, http.MethodPost, "/api/orders", body)

		require.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
		var got map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Missing required order fields", got["message"])
	}
}

func TestPlaceOrder_InvalidQuantity(t *testing.T) {
	h := newHandler(&mockOrderRepo{}, newTestProduct("tent", "Camping Tent", "129.99"))

	body := `{
		"items": [{"productId": "tent", "price": 129.99, "quantity": 0}],
		"customerName": "Dana", "customerEmail": "d@e.com"
	}`
	rec := doRequest(h, http.MethodPost, "/api/orders", body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Contains(t, got["message"], "quantity must be at least 1")
}

func TestPlaceOrder_UnknownProduct(t *testing.T) {
	h := newHandler(&mockOrderRepo{})

	body := `{
		"items": [{"productId": "kayak", "price": 5, "quantity": 1}],
		"customerName": "Dana", "customerEmail": "d@e.com"
	}`
	rec := doRequest(h, http.MethodPost, "/api/orders", body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "product kayak not found", got["message"])
}

func TestPlaceOrder_BadJSON(t *testing.T) {
	h := newHandler(&mockOrderRepo{})

	rec := doRequest(h, http.MethodPost, "/api/orders", "{not json")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Invalid order payload", got["message"])
}

func TestPlaceOrder_SaveFailure(t *testing.T) {
	h := newHandler(&mockOrderRepo{err: errors.New("disk full")},
		newTestProduct("tent", "Camping Tent", "129.99"))

	rec := doRequest(h, http.MethodPost, "/api/orders", validOrderBody)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Error saving the order", got["message"])
}
