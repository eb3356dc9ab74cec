package httpapi

import (
	"net/http"
	"strconv"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/stats"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/statsarchive"
)

// StatisticsSummary loads total sales, the day's sales and orders, and the
// top products. ?date=yyyyMMdd picks the day (default today on the
// backend); ?limit sets the top list size.
func (h *Handler) StatisticsSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := clients.DefaultTopLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, r, badRequest("stats.top", "limit must be an integer"))
			return
		}
		limit = n
	}

	s, err := h.dashboard.Summary(r.Context(), q.Get("date"), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

type sevenDaysResponse struct {
	Sales  stats.Series `json:"sales"`
	Orders stats.Series `json:"orders"`
}

func (h *Handler) SevenDays(w http.ResponseWriter, r *http.Request) {
	sales, err := h.dashboard.SevenDaysSales(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	orders, err := h.dashboard.SevenDaysOrders(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sevenDaysResponse{Sales: sales, Orders: orders})
}

// LatestUpdate returns the most recent pushed statistics update, or 204
// when none has arrived yet.
func (h *Handler) LatestUpdate(w http.ResponseWriter, r *http.Request) {
	u, ok := h.dashboard.Latest()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) UpdateHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeJSON(w, http.StatusNotFound, middleware.ErrorResponse{
			Error:         "statistics archive is not configured",
			CorrelationID: middleware.GetCorrelationID(r.Context()),
		})
		return
	}

	limit, err := intParam(r, "stats.history", "limit", statsarchive.DefaultRecentLimit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	records, err := h.history.Recent(r.Context(), limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "archive read failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, middleware.ErrorResponse{
			Error:         "failed to read the statistics archive",
			CorrelationID: middleware.GetCorrelationID(r.Context()),
		})
		return
	}
	writeJSON(w, http.StatusOK, records)
}
