package handler

import (
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/outdoor-shop/internal/domain/product"
)

// productResponse is one element of the GET /api/products payload.
type productResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
}

// ListProducts returns the full catalog snapshot as a JSON array.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		zctx.From(r.Context()).Error("Listing products failed", zap.Error(err))
		writeMessage(w, r, http.StatusInternalServerError, "Server error fetching products")
		return
	}

	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = h.toProductResponse(p)
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handler) toProductResponse(p product.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    h.imageBaseURL + p.ImageURL,
	}
}
