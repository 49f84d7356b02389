package postgres

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/outdoor-shop/internal/domain/order"
)

const createOrderSQL = `INSERT INTO orders
	(id, items, customer_name, customer_email, customer_phone,
	 shipping_address, shipping_method, total_price, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order. The order items are serialized to JSON for
// storage in the JSONB column.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return errors.Wrap(err, "marshal order items")
	}

	_, err = r.pool.Exec(ctx, createOrderSQL,
		o.ID, itemsJSON,
		o.CustomerName, o.CustomerEmail, o.CustomerPhone,
		o.ShippingAddress, o.ShippingMethod,
		o.Total, o.CreatedAt,
	)
	if err != nil {
		return errors.Wrapf(err, "create order %q", o.ID)
	}

	return nil
}
