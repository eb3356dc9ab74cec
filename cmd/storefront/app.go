package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/logging"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/metrics"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/stats"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/view"
)

const serviceName = "storefront"

// app wires the backend clients and the state containers from one config.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	backend *clients.Client
	stream  *clients.StatisticsClient

	catalog   *catalog.Browser
	cart      *cart.Reconciler
	orders    *order.Workflow
	dashboard *stats.Dashboard
	stats     stats.Transformer
}

func newApp(cfg config.Config) (*app, error) {
	logger := logging.New(logging.Options{
		Service: serviceName,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	backend, err := clients.NewClient("backend", cfg.APIURL, &http.Client{Timeout: cfg.RequestTimeout},
		clients.WithLogger(logger), clients.WithObserver(m))
	if err != nil {
		return nil, fmt.Errorf("backend client: %w", err)
	}
	// The event stream stays open indefinitely, so it gets a client
	// without an overall timeout.
	streamBase, err := clients.NewClient("statistics-stream", cfg.APIURL, &http.Client{},
		clients.WithLogger(logger), clients.WithObserver(m))
	if err != nil {
		return nil, fmt.Errorf("stream client: %w", err)
	}

	images := view.NewImageResolver(cfg.ImageURL, cfg.PlaceholderImage)
	statsT := stats.Transformer{Location: loc}

	return &app{
		cfg:      cfg,
		logger:   logger,
		registry: reg,
		metrics:  m,
		backend:  backend,
		stream:   clients.NewStatisticsClient(streamBase),
		catalog: catalog.NewBrowser(clients.NewProductClient(backend),
			catalog.Transformer{Images: images}, logger.With("component", "catalog")),
		cart: cart.NewReconciler(clients.NewCartClient(backend),
			cart.WithLogger(logger.With("component", "cart")),
			cart.WithImageResolver(images),
			cart.WithStaleAfter(cfg.CartStaleAfter),
			cart.WithRollbackObserver(m)),
		orders: order.NewWorkflow(clients.NewOrderClient(backend),
			order.Transformer{Images: images, Location: loc}, logger.With("component", "order")),
		dashboard: stats.NewDashboard(clients.NewStatisticsClient(backend), statsT, logger.With("component", "stats")),
		stats:     statsT,
	}, nil
}

// liveFeed builds a feed over the stream client. Extra sinks receive every
// update after the dashboard.
func (a *app) liveFeed(sinks ...stats.Sink) *stats.LiveFeed {
	return stats.NewLiveFeed(a.stream, a.stats,
		stats.WithFeedLogger(a.logger.With("component", "livefeed")),
		stats.WithFeedObserver(a.metrics),
		stats.WithRetry(a.cfg.SSERetry),
		stats.WithSinks(sinks...),
	)
}
