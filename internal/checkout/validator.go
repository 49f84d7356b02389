package checkout

import (
	"fmt"
	"regexp"

	"github.com/go-faster/errors"
)

// Validation errors, all detected locally before any network call.
var (
	// ErrInvalidEmail indicates the customer email is not local@domain.tld
	// shaped.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrEmptyCart indicates the draft carries no cart lines.
	ErrEmptyCart = errors.New("cart is empty")
)

// MissingFieldError indicates a required contact field is empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// InvalidQuantityError indicates a cart line with a quantity below 1.
type InvalidQuantityError struct {
	ProductID string
	Quantity  int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be at least 1 for product %s, got %d", e.ProductID, e.Quantity)
}

// emailPattern accepts a non-empty local part, a non-empty domain with at
// least one dot, and no whitespace anywhere.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate checks the draft in a fixed order and returns the first failure:
// required fields, then email shape, then non-empty cart, then per-line
// quantities. A nil return means the draft is eligible for submission.
func (d Draft) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"customerName", d.Contact.Name},
		{"customerEmail", d.Contact.Email},
		{"customerPhone", d.Contact.Phone},
		{"shippingAddress", d.Contact.ShippingAddress},
		{"shippingMethod", d.Contact.ShippingMethod},
	}
	for _, f := range required {
		if f.value == "" {
			return &MissingFieldError{Field: f.field}
		}
	}

	if !emailPattern.MatchString(d.Contact.Email) {
		return ErrInvalidEmail
	}

	if len(d.Lines) == 0 {
		return ErrEmptyCart
	}

	for _, l := range d.Lines {
		if l.Quantity < 1 {
			return &InvalidQuantityError{ProductID: l.Product.ID, Quantity: l.Quantity}
		}
	}

	return nil
}
