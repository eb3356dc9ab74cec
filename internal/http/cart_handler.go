package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

// GetCart returns the local cart, reloading it first when it is stale or
// when ?refresh=true.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))

	var err error
	if refresh {
		err = h.cart.Load(r.Context())
	} else {
		err = h.cart.SyncIfStale(r.Context())
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cart.Snapshot())
}

func (h *Handler) SyncCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Load(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cart.Snapshot())
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	const op = "cart.add"

	req := addItemRequest{Quantity: 1}
	if err := decodeBody(r, op, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if !cart.ValidProductID(req.ProductID) {
		h.writeError(w, r, badRequest(op, "invalid product id"))
		return
	}

	p, err := h.lookupProduct(r, req.ProductID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.cart.AddToCart(r.Context(), p, req.Quantity); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cart.Snapshot())
}

// lookupProduct prefers the product on the current catalog page and loads
// the detail otherwise.
func (h *Handler) lookupProduct(r *http.Request, id string) (catalog.Product, error) {
	if p, ok := h.catalog.FindByID(id); ok {
		return p, nil
	}
	d, err := h.catalog.FetchDetail(r.Context(), id)
	if err != nil {
		return catalog.Product{}, err
	}
	return d.Product, nil
}

type updateItemRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	const op = "cart.update"

	var req updateItemRequest
	if err := decodeBody(r, op, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.Quantity == nil {
		h.writeError(w, r, badRequest(op, "quantity is required"))
		return
	}

	if err := h.cart.UpdateQuantity(r.Context(), chi.URLParam(r, "productId"), *req.Quantity); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cart.Snapshot())
}

func (h *Handler) ToggleCartItem(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.ToggleSelection(r.Context(), chi.URLParam(r, "productId")); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cart.Snapshot())
}

type selectionRequest struct {
	Selected *bool `json:"selected"`
}

func (h *Handler) SetAllSelection(w http.ResponseWriter, r *http.Request) {
	const op = "cart.select"

	var req selectionRequest
	if err := decodeBody(r, op, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.Selected == nil {
		h.writeError(w, r, badRequest(op, "selected is required"))
		return
	}

	if err := h.cart.SetAllSelection(r.Context(), *req.Selected); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cart.Snapshot())
}

type removeItemsRequest struct {
	ProductIDs []string `json:"productIds"`
}

func (h *Handler) RemoveCartItems(w http.ResponseWriter, r *http.Request) {
	var req removeItemsRequest
	if err := decodeBody(r, "cart.remove", &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.cart.RemoveItems(r.Context(), req.ProductIDs); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cart.Snapshot())
}

func (h *Handler) RemoveSelected(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.RemoveSelected(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cart.Snapshot())
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.ClearCart(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cart.Snapshot())
}
