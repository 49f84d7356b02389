package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Order is an accepted customer order. Immutable once created: the item
// prices and the total are fixed at order-creation time from the catalog.
type Order struct {
	ID              string
	Items           []Item
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress string
	ShippingMethod  string
	Total           decimal.Decimal
	CreatedAt       time.Time
}

// Item is a single order line. Price is the catalog price at the time the
// order was placed, not whatever the client displayed.
type Item struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, order *Order) error
}
