package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/pagination"
)

type orderPage struct {
	Orders     []order.Summary   `json:"orders"`
	Pagination pagination.Cursor `json:"pagination"`
	Filter     order.Status      `json:"filter,omitempty"`
	Counts     order.Counts      `json:"counts"`
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	const op = "order.list"

	page, err := intParam(r, op, "page", 1)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	size, err := intParam(r, op, "size", order.DefaultPageSize)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	status := order.Status(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status"))))
	if status != "" && !status.Known() {
		h.writeError(w, r, badRequest(op, "unknown order status"))
		return
	}

	orders, err := h.orders.Fetch(r.Context(), order.Query{Status: status, Page: page, Size: size})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orderPage{
		Orders:     orders,
		Pagination: h.orders.Cursor(),
		Filter:     h.orders.Filter(),
		Counts:     h.orders.Counts(),
	})
}

type createOrderRequest struct {
	ProductIDs []string `json:"productIds"`
	Remark     string   `json:"remark"`
}

// CreateOrder places an order. Without productIds the cart's selected items
// are ordered. The cart is reloaded afterwards since the backend removes
// ordered items.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeBody(r, "order.create", &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	ids := req.ProductIDs
	if len(ids) == 0 {
		ids = h.cart.SelectedIDs()
	}

	o, err := h.orders.Create(r.Context(), ids, req.Remark)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.cart.Load(r.Context()); err != nil {
		h.logger.WarnContext(r.Context(), "cart reload after order failed", "order_id", o.ID, "error", err)
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.FetchDetail(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) PayOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.orders.Pay)
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.orders.Cancel)
}

func (h *Handler) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.orders.Complete)
}

type transitionResponse struct {
	OrderID string       `json:"orderId"`
	Order   *order.Order `json:"order,omitempty"`
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, orderID string) error) {
	id := chi.URLParam(r, "orderId")
	if err := fn(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := transitionResponse{OrderID: id}
	if cur, ok := h.orders.Current(); ok && cur.ID == id {
		resp.Order = &cur
	}
	writeJSON(w, http.StatusOK, resp)
}
