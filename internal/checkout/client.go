package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/xenking/outdoor-shop/internal/cart"
)

// The order service expects price and totalPrice as JSON numbers, not the
// quoted strings decimal emits by default.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// SubmissionError is a rejection from the order service: the request
// completed but the server answered with a non-success status.
type SubmissionError struct {
	StatusCode int
	Message    string
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("order rejected (%d): %s", e.StatusCode, e.Message)
}

// NetworkError is a transport-level failure: no response from the order
// service was received at all. Safe to retry manually.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error, try again: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// orderPayload matches the POST /api/orders request body.
type orderPayload struct {
	Items           []itemPayload   `json:"items"`
	CustomerName    string          `json:"customerName"`
	CustomerEmail   string          `json:"customerEmail"`
	CustomerPhone   string          `json:"customerPhone"`
	ShippingAddress string          `json:"shippingAddress"`
	ShippingMethod  string          `json:"shippingMethod"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
}

// itemPayload is one cart line on the wire. Price is the client-observed
// price at submission time; the server treats it as advisory only.
type itemPayload struct {
	ProductID string          `json:"productId"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

type orderResponse struct {
	Message string `json:"message"`
	OrderID string `json:"orderId"`
}

// Client submits validated order drafts to the order service. A single
// attempt per call; retries are the caller's decision.
type Client struct {
	baseURL string
	http    *http.Client
	cart    *cart.Store
	lg      *zap.Logger
}

// NewClient creates a submission client for the order service at baseURL.
// The underlying transport is traced with otelhttp.
func NewClient(baseURL string, store *cart.Store, lg *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   15 * time.Second,
		},
		cart: store,
		lg:   lg,
	}
}

// Submit validates the draft and sends it to the order service. The draft
// is serialized with the client-computed total; the server recomputes its
// own truth. On confirmed success the cart store is cleared and the new
// order ID returned. Validation failures are reported without any network
// round-trip; on any submission failure the cart is left untouched.
func (c *Client) Submit(ctx context.Context, draft Draft) (string, error) {
	if err := draft.Validate(); err != nil {
		return "", err
	}

	payload := orderPayload{
		Items:           make([]itemPayload, len(draft.Lines)),
		CustomerName:    draft.Contact.Name,
		CustomerEmail:   draft.Contact.Email,
		CustomerPhone:   draft.Contact.Phone,
		ShippingAddress: draft.Contact.ShippingAddress,
		ShippingMethod:  draft.Contact.ShippingMethod,
		TotalPrice:      draft.TotalPrice(),
	}
	for i, l := range draft.Lines {
		payload.Items[i] = itemPayload{
			ProductID: l.Product.ID,
			Price:     l.Product.Price,
			Quantity:  l.Quantity,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "marshal order")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/orders", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &NetworkError{Err: err}
	}

	var parsed orderResponse
	// An unparsable body falls through to the generic message.
	_ = json.Unmarshal(data, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := parsed.Message
		if msg == "" {
			msg = "order failed"
		}
		return "", &SubmissionError{StatusCode: resp.StatusCode, Message: msg}
	}

	c.lg.Info("Order accepted", zap.String("order_id", parsed.OrderID))
	c.cart.Clear()
	return parsed.OrderID, nil
}
