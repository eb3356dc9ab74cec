package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.Logging(h.logger))
	r.Use(middleware.Recover(h.logger))
	r.Use(middleware.CORS(h.corsOrigins))

	r.Get("/health", h.Health)
	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Get("/{id}", h.GetProduct)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Post("/sync", h.SyncCart)
			r.Put("/selection", h.SetAllSelection)
			r.Delete("/selected", h.RemoveSelected)
			r.Post("/items", h.AddCartItem)
			r.Delete("/items", h.RemoveCartItems)
			r.Put("/items/{productId}", h.UpdateCartItem)
			r.Post("/items/{productId}/toggle", h.ToggleCartItem)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.ListOrders)
			r.Post("/", h.CreateOrder)
			r.Get("/{orderId}", h.GetOrder)
			r.Post("/{orderId}/pay", h.PayOrder)
			r.Post("/{orderId}/cancel", h.CancelOrder)
			r.Post("/{orderId}/complete", h.CompleteOrder)
		})

		r.Route("/statistics", func(r chi.Router) {
			r.Get("/summary", h.StatisticsSummary)
			r.Get("/seven-days", h.SevenDays)
			r.Get("/live", h.LatestUpdate)
			r.Get("/history", h.UpdateHistory)
		})
	})

	return r
}
