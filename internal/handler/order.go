package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/outdoor-shop/internal/domain/order"
)

// orderRequest is the POST /api/orders request body.
type orderRequest struct {
	Items           []orderItemRequest `json:"items"`
	CustomerName    string             `json:"customerName"`
	CustomerEmail   string             `json:"customerEmail"`
	CustomerPhone   string             `json:"customerPhone"`
	ShippingAddress string             `json:"shippingAddress"`
	ShippingMethod  string             `json:"shippingMethod"`
	// A pointer so an absent totalPrice is distinguishable from an
	// explicit zero.
	TotalPrice *decimal.Decimal `json:"totalPrice"`
}

type orderItemRequest struct {
	ProductID string          `json:"productId"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// PlaceOrder decodes the submission, delegates to the order service, and
// maps the result (or error) onto the wire contract.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, r, http.StatusBadRequest, "Invalid order payload")
		return
	}

	items := make([]order.ItemRequest, len(req.Items))
	for i, item := range req.Items {
		items[i] = order.ItemRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	o, err := h.orderService.PlaceOrder(r.Context(), order.PlaceOrderRequest{
		Items:           items,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
		ShippingMethod:  req.ShippingMethod,
		ClientTotal:     req.TotalPrice,
	})
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, messageResponse{
		Message: "Order received successfully",
		OrderID: o.ID,
	})
}

// writeOrderError converts order service errors to wire responses. Client
// mistakes get a 400 with a specific message; everything else is a 500 with
// the generic save-failure message.
func (h *Handler) writeOrderError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, order.ErrMissingFields) {
		writeMessage(w, r, http.StatusBadRequest, "Missing required order fields")
		return
	}

	var iqErr *order.InvalidQuantityError
	if errors.As(err, &iqErr) {
		writeMessage(w, r, http.StatusBadRequest, iqErr.Error())
		return
	}

	var pnfErr *order.ProductNotFoundError
	if errors.As(err, &pnfErr) {
		writeMessage(w, r, http.StatusBadRequest, pnfErr.Error())
		return
	}

	zctx.From(r.Context()).Error("Saving order failed", zap.Error(err))
	writeMessage(w, r, http.StatusInternalServerError, "Error saving the order")
}
