package checkout

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xenking/outdoor-shop/internal/cart"
)

type memStorage struct {
	lines []cart.Line
}

func (m *memStorage) Load() ([]cart.Line, error)   { return m.lines, nil }
func (m *memStorage) Save(lines []cart.Line) error { m.lines = lines; return nil }

func newCartWithTent(t *testing.T) *cart.Store {
	t.Helper()
	s := cart.NewStore(&memStorage{}, zap.NewNop())
	s.AddItem(tentLine(1).Product)
	return s
}

func TestSubmit_Success(t *testing.T) {
	var received orderPayload
	var rawBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/orders", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		rawBody = string(body)
		require.NoError(t, json.Unmarshal(body, &received))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"message": "Order received successfully",
			"orderId": "ord-123",
		})
	}))
	defer srv.Close()

	store := newCartWithTent(t)
	contact := validContact()
	contact.ShippingMethod = "express"
	client := NewClient(srv.URL, store, zap.NewNop())

	orderID, err := client.Submit(context.Background(), NewDraft(store, contact))

	require.NoError(t, err)
	assert.Equal(t, "ord-123", orderID)
	assert.Empty(t, store.Lines(), "cart must be cleared on confirmed success")

	require.Len(t, received.Items, 1)
	assert.Equal(t, "tent", received.Items[0].ProductID)
	assert.Equal(t, 1, received.Items[0].Quantity)
	assert.Equal(t, "159.99", received.TotalPrice.StringFixed(2))
	assert.Equal(t, "express", received.ShippingMethod)

	// The order service parses these as JSON numbers, not strings.
	assert.True(t, strings.Contains(rawBody, `"totalPrice":159.99`), "body: %s", rawBody)
	assert.True(t, strings.Contains(rawBody, `"price":129.99`), "body: %s", rawBody)
}

func TestSubmit_ServerRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"message": "Missing required order fields",
		})
	}))
	defer srv.Close()

	store := newCartWithTent(t)
	client := NewClient(srv.URL, store, zap.NewNop())

	_, err := client.Submit(context.Background(), NewDraft(store, validContact()))

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, http.StatusBadRequest, subErr.StatusCode)
	assert.Equal(t, "Missing required order fields", subErr.Message)
	assert.Len(t, store.Lines(), 1, "cart must stay intact on rejection")
}

func TestSubmit_RejectionWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := newCartWithTent(t)
	client := NewClient(srv.URL, store, zap.NewNop())

	_, err := client.Submit(context.Background(), NewDraft(store, validContact()))

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, "order failed", subErr.Message)
}

func TestSubmit_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	store := newCartWithTent(t)
	client := NewClient(srv.URL, store, zap.NewNop())

	_, err := client.Submit(context.Background(), NewDraft(store, validContact()))

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Len(t, store.Lines(), 1)
}

func TestSubmit_InvalidDraftSkipsNetwork(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	store := newCartWithTent(t)
	client := NewClient(srv.URL, store, zap.NewNop())

	contact := validContact()
	contact.Email = "not-an-email"
	_, err := client.Submit(context.Background(), NewDraft(store, contact))

	assert.ErrorIs(t, err, ErrInvalidEmail)
	assert.Zero(t, calls, "invalid draft must not reach the network")
	assert.Len(t, store.Lines(), 1)
}

// Editing the cart after the draft is taken must not affect the in-flight
// submission payload.
func TestSubmit_DraftIsSnapshot(t *testing.T) {
	var received orderPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"orderId": "ord-1"})
	}))
	defer srv.Close()

	store := newCartWithTent(t)
	draft := NewDraft(store, validContact())

	store.SetQuantity("tent", 10) // user keeps editing while submission is in flight

	client := NewClient(srv.URL, store, zap.NewNop())
	_, err := client.Submit(context.Background(), draft)

	require.NoError(t, err)
	require.Len(t, received.Items, 1)
	assert.Equal(t, 1, received.Items[0].Quantity)
}
