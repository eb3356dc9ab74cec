package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/pagination"
)

type productPage struct {
	Products    []catalog.Product `json:"products"`
	Pagination  pagination.Cursor `json:"pagination"`
	ActiveCount int               `json:"activeCount"`
}

// ListProducts loads one catalog page. Query parameters other than page and
// size are passed to the backend as filters.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	const op = "catalog.list"

	page, err := intParam(r, op, "page", 1)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	size, err := intParam(r, op, "size", catalog.DefaultPageSize)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	filters := map[string]string{}
	for k, v := range r.URL.Query() {
		if k == "page" || k == "size" || len(v) == 0 {
			continue
		}
		filters[k] = v[0]
	}

	products, err := h.catalog.Fetch(r.Context(), page, size, filters)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, productPage{
		Products:    products,
		Pagination:  h.catalog.Cursor(),
		ActiveCount: h.catalog.ActiveCount(),
	})
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !cart.ValidProductID(id) {
		h.writeError(w, r, badRequest("catalog.detail", "invalid product id"))
		return
	}

	p, err := h.catalog.FetchDetail(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
