// Package checkout assembles a cart snapshot into an order draft, validates
// it, and submits it to the order service.
package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/outdoor-shop/internal/cart"
	"github.com/xenking/outdoor-shop/internal/pricing"
)

// Contact holds the customer fields collected on the checkout form.
type Contact struct {
	Name            string
	Email           string
	Phone           string
	ShippingAddress string
	ShippingMethod  string
}

// Draft is an order proposal frozen at submit time: a snapshot of the cart
// plus the customer contact fields. It exists only for the duration of
// validation and submission, so edits to the live cart while a submission
// is in flight cannot race with it.
type Draft struct {
	Lines   []cart.Line
	Contact Contact
}

// NewDraft snapshots the store's current lines into a Draft.
func NewDraft(store *cart.Store, contact Contact) Draft {
	return Draft{
		Lines:   store.Lines(),
		Contact: contact,
	}
}

// TotalPrice returns the client-computed grand total: item subtotal plus
// the shipping cost for the chosen method.
func (d Draft) TotalPrice() decimal.Decimal {
	lines := make([]pricing.Line, len(d.Lines))
	for i, l := range d.Lines {
		lines[i] = pricing.Line{
			ProductID: l.Product.ID,
			Price:     l.Product.Price,
			Quantity:  l.Quantity,
		}
	}
	return pricing.OrderTotal(lines, d.Contact.ShippingMethod)
}
