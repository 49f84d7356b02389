package product

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	p := Product{
		ID:          "camping-tent",
		Name:        "Camping Tent",
		Description: "Lightweight and easy-to-setup 2-person tent.",
		Price:       decimal.RequireFromString("129.99"),
	}

	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{name: "empty query matches", query: "", want: true},
		{name: "name substring", query: "tent", want: true},
		{name: "name case-insensitive", query: "CAMPING", want: true},
		{name: "description substring", query: "2-person", want: true},
		{name: "no match", query: "kayak", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Matches(tt.query))
		})
	}
}
