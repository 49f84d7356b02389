// Package handler exposes the storefront REST API: the product catalog and
// order submission endpoints.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/outdoor-shop/internal/domain/order"
	"github.com/xenking/outdoor-shop/internal/domain/product"
)

// The storefront contract carries price and totalPrice as JSON numbers,
// not the quoted strings decimal emits by default.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Handler implements the HTTP endpoints, delegating business logic to the
// order service and product repository.
type Handler struct {
	products     product.Repository
	orderService *order.Service
	imageBaseURL string
}

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// ImageBaseURL is prepended to relative image paths in product
	// responses. When empty, image paths are returned as stored.
	ImageBaseURL string
}

// New constructs a Handler with the required domain dependencies.
func New(cfg Config, products product.Repository, orderService *order.Service) *Handler {
	return &Handler{
		products:     products,
		orderService: orderService,
		imageBaseURL: cfg.ImageBaseURL,
	}
}

// Routes returns the chi router for all API endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Status)
	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Post("/orders", h.PlaceOrder)
	})
	return r
}

// Status reports that the API is up. Kept for parity with uptime checks
// that hit the root path.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Outdoor Adventure Shop API is running"))
}

// messageResponse is the error (and order-success) response envelope.
type messageResponse struct {
	Message string `json:"message"`
	OrderID string `json:"orderId,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zctx.From(r.Context()).Error("Encoding response failed", zap.Error(err))
	}
}

func writeMessage(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, messageResponse{Message: message})
}
