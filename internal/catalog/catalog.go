// Package catalog fetches the product catalog from the storefront API.
// The catalog is read-only from the client's perspective: one full snapshot
// per session, filtered locally for search.
package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/xenking/outdoor-shop/internal/domain/product"
)

// productPayload matches one element of the GET /api/products response.
type productPayload struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
}

// Client fetches catalog snapshots from the storefront API at baseURL.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a catalog client with an otelhttp-traced transport.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   15 * time.Second,
		},
	}
}

// FetchProducts retrieves the full catalog snapshot. No pagination or
// filtering parameters exist; the endpoint returns everything.
func (c *Client) FetchProducts(ctx context.Context) ([]product.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/products", nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch products")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetch products: unexpected status %d", resp.StatusCode)
	}

	var payload []productPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}

	out := make([]product.Product, len(payload))
	for i, p := range payload {
		out[i] = product.Product{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			ImageURL:    p.ImageURL,
		}
	}
	return out, nil
}

// Filter returns the products matching the search query by name or
// description, preserving catalog order.
func Filter(products []product.Product, query string) []product.Product {
	if query == "" {
		return products
	}
	out := make([]product.Product, 0, len(products))
	for _, p := range products {
		if p.Matches(query) {
			out = append(out, p)
		}
	}
	return out
}
