package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/outdoor-shop/internal/domain/product"
	"github.com/xenking/outdoor-shop/internal/pricing"
)

// ErrMissingFields is returned when the request lacks items, a customer
// name, or a customer email. The server re-checks these regardless of any
// client-side validation.
var ErrMissingFields = errors.New("missing required order fields")

// ProductNotFoundError indicates a requested product does not exist in the
// catalog.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InvalidQuantityError indicates a line item with a quantity below 1.
type InvalidQuantityError struct {
	ProductID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be at least 1 for product %s", e.ProductID)
}

// ItemRequest is one requested order line. Price is the client-observed
// unit price, carried for display-matching only; pricing truth always
// comes from the catalog.
type ItemRequest struct {
	ProductID string
	Quantity  int
	Price     decimal.Decimal
}

// PlaceOrderRequest holds the input for placing an order.
type PlaceOrderRequest struct {
	Items           []ItemRequest
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress string
	ShippingMethod  string
	// ClientTotal is the total the client computed and displayed, nil when
	// the request omits it. Advisory: a mismatch against the recomputed
	// total is logged, never trusted.
	ClientTotal *decimal.Decimal
}

// Service encapsulates order acceptance: superset re-validation, catalog
// price lookup, authoritative total recomputation, and persistence.
type Service struct {
	products product.Repository
	orders   Repository
	lg       *zap.Logger
}

// NewService creates an order Service with the required dependencies.
func NewService(products product.Repository, orders Repository, lg *zap.Logger) *Service {
	return &Service{
		products: products,
		orders:   orders,
		lg:       lg,
	}
}

// PlaceOrder validates the request, reprices every line from the catalog,
// computes the total including shipping, and persists the order. Exactly
// one durable write is attempted per accepted request.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	if len(req.Items) == 0 || req.CustomerName == "" || req.CustomerEmail == "" {
		return nil, ErrMissingFields
	}

	// Validate quantities and collect product IDs.
	ids := make([]string, len(req.Items))
	for i, item := range req.Items {
		if item.Quantity < 1 {
			return nil, &InvalidQuantityError{ProductID: item.ProductID}
		}
		ids[i] = item.ProductID
	}

	// Batch fetch all referenced products in a single query.
	fetched, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get products")
	}
	productMap := make(map[string]product.Product, len(fetched))
	for _, p := range fetched {
		productMap[p.ID] = p
	}

	// Reprice every line from the catalog. Client-sent prices are advisory.
	items := make([]Item, len(req.Items))
	lines := make([]pricing.Line, len(req.Items))
	for i, item := range req.Items {
		p, ok := productMap[item.ProductID]
		if !ok {
			return nil, &ProductNotFoundError{ProductID: item.ProductID}
		}
		items[i] = Item{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     p.Price,
		}
		lines[i] = pricing.Line{
			ProductID: item.ProductID,
			Price:     p.Price,
			Quantity:  item.Quantity,
		}
	}

	total := pricing.OrderTotal(lines, req.ShippingMethod)

	if req.ClientTotal != nil && !req.ClientTotal.Equal(total) {
		s.lg.Warn("Client total mismatch",
			zap.String("client_total", req.ClientTotal.String()),
			zap.String("computed_total", total.String()),
			zap.String("customer_email", req.CustomerEmail),
		)
	}

	o := &Order{
		ID:              uuid.New().String(),
		Items:           items,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
		ShippingMethod:  req.ShippingMethod,
		Total:           total,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	return o, nil
}
