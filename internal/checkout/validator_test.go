package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/outdoor-shop/internal/cart"
	"github.com/xenking/outdoor-shop/internal/domain/product"
)

// --- Helpers ---

func validContact() Contact {
	return Contact{
		Name:            "Dana Hiker",
		Email:           "dana@example.com",
		Phone:           "050-1234567",
		ShippingAddress: "1 Trailhead Way",
		ShippingMethod:  "standard",
	}
}

func tentLine(quantity int) cart.Line {
	return cart.Line{
		Product: product.Product{
			ID:    "tent",
			Name:  "Camping Tent",
			Price: decimal.RequireFromString("129.99"),
		},
		Quantity: quantity,
	}
}

// --- Tests ---

func TestValidate_OK(t *testing.T) {
	d := Draft{Lines: []cart.Line{tentLine(1)}, Contact: validContact()}
	require.NoError(t, d.Validate())
}

func TestValidate_MissingFields(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*Contact)
	}{
		{"customerName", func(c *Contact) { c.Name = "" }},
		{"customerEmail", func(c *Contact) { c.Email = "" }},
		{"customerPhone", func(c *Contact) { c.Phone = "" }},
		{"shippingAddress", func(c *Contact) { c.ShippingAddress = "" }},
		{"shippingMethod", func(c *Contact) { c.ShippingMethod = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			contact := validContact()
			tt.mutate(&contact)
			d := Draft{Lines: []cart.Line{tentLine(1)}, Contact: contact}

			var mfErr *MissingFieldError
			require.ErrorAs(t, d.Validate(), &mfErr)
			assert.Equal(t, tt.field, mfErr.Field)
		})
	}
}

func TestValidate_Email(t *testing.T) {
	good := []string{
		"dana@example.com",
		"a.b+c@mail.example.co.il",
	}
	bad := []string{
		"not-an-email",
		"@example.com",
		"dana@",
		"dana@example",
		"dana hiker@example.com",
		"dana@exa mple.com",
	}

	for _, email := range good {
		contact := validContact()
		contact.Email = email
		d := Draft{Lines: []cart.Line{tentLine(1)}, Contact: contact}
		assert.NoError(t, d.Validate(), "email %q", email)
	}
	for _, email := range bad {
		contact := validContact()
		contact.Email = email
		d := Draft{Lines: []cart.Line{tentLine(1)}, Contact: contact}
		assert.ErrorIs(t, d.Validate(), ErrInvalidEmail, "email %q", email)
	}
}

func TestValidate_EmptyCart(t *testing.T) {
	d := Draft{Contact: validContact()}
	assert.ErrorIs(t, d.Validate(), ErrEmptyCart)
}

func TestValidate_InvalidQuantity(t *testing.T) {
	d := Draft{Lines: []cart.Line{tentLine(1), tentLine(0)}, Contact: validContact()}

	var iqErr *InvalidQuantityError
	require.ErrorAs(t, d.Validate(), &iqErr)
	assert.Equal(t, "tent", iqErr.ProductID)
	assert.Equal(t, 0, iqErr.Quantity)
}

// A draft failing several checks at once reports only the first one in the
// fixed order: missing field wins over empty cart.
func TestValidate_FailFastOrdering(t *testing.T) {
	contact := validContact()
	contact.Email = ""
	d := Draft{Contact: contact} // empty cart AND missing email

	var mfErr *MissingFieldError
	require.ErrorAs(t, d.Validate(), &mfErr)
	assert.Equal(t, "customerEmail", mfErr.Field)
}

func TestValidate_EmailBeforeCart(t *testing.T) {
	contact := validContact()
	contact.Email = "not-an-email"
	d := Draft{Contact: contact}

	assert.ErrorIs(t, d.Validate(), ErrInvalidEmail)
}

func TestDraft_TotalPrice(t *testing.T) {
	contact := validContact()
	contact.ShippingMethod = "express"
	d := Draft{Lines: []cart.Line{tentLine(1)}, Contact: contact}

	assert.True(t, decimal.RequireFromString("159.99").Equal(d.TotalPrice()),
		"total %s", d.TotalPrice())
}
