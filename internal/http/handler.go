// Package httpapi is the local JSON facade over the storefront state
// containers. It serves one shopper: the cart, order list and catalog page
// are shared by every request.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/stats"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/statsarchive"
)

// History reads archived live-feed updates. *statsarchive.PostgresRepository
// satisfies it.
type History interface {
	Recent(ctx context.Context, limit int) ([]statsarchive.Record, error)
}

type Deps struct {
	Logger           *slog.Logger
	CORSAllowOrigins []string

	Backend   *clients.Client
	Catalog   *catalog.Browser
	Cart      *cart.Reconciler
	Orders    *order.Workflow
	Dashboard *stats.Dashboard

	// Optional.
	Feed    *stats.LiveFeed
	History History
	Metrics http.Handler
}

type Handler struct {
	logger      *slog.Logger
	corsOrigins []string

	backend   *clients.Client
	catalog   *catalog.Browser
	cart      *cart.Reconciler
	orders    *order.Workflow
	dashboard *stats.Dashboard
	feed      *stats.LiveFeed
	history   History
	metrics   http.Handler
}

func NewHandler(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	origins := d.CORSAllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return &Handler{
		logger:      logger,
		corsOrigins: origins,
		backend:     d.Backend,
		catalog:     d.Catalog,
		cart:        d.Cart,
		orders:      d.Orders,
		dashboard:   d.Dashboard,
		feed:        d.Feed,
		history:     d.History,
		metrics:     d.Metrics,
	}
}

type healthResponse struct {
	Status   string                `json:"status"`
	Service  string                `json:"service"`
	Backend  *clients.HealthResult `json:"backend,omitempty"`
	LiveFeed *bool                 `json:"liveFeed,omitempty"`
}

// Health reports "ok" when the commerce backend answers and "degraded"
// otherwise. The facade itself is up either way.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Service: "storefront"}
	if h.backend != nil {
		res := clients.CheckHealth(r.Context(), h.backend)
		resp.Backend = &res
		if !res.OK {
			resp.Status = "degraded"
		}
	}
	if h.feed != nil {
		connected := h.feed.Connected()
		resp.LiveFeed = &connected
	}
	writeJSON(w, http.StatusOK, resp)
}
