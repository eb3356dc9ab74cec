package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/storefront-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/metrics"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/stats"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/statsarchive"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var noFeed bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local JSON facade and follow the live statistics feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), opts.app, !noFeed)
		},
	}
	cmd.Flags().BoolVar(&noFeed, "no-feed", false, "do not subscribe to the statistics stream")
	return cmd
}

func serve(ctx context.Context, a *app, withFeed bool) error {
	logger := a.logger
	cfg := a.cfg

	var (
		sinks   []stats.Sink
		history httpapi.History
	)

	if cfg.DatabaseDSN != "" {
		if cfg.RunMigrations {
			if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
				return err
			}
		}
		pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		defer pool.Close()

		archive := statsarchive.NewPostgresRepository(pool)
		sinks = append(sinks, archive)
		history = archive
		logger.Info("statistics archive enabled")
	}

	if cfg.RabbitMQURL != "" {
		conn, err := events.Dial(cfg.RabbitMQURL)
		if err != nil {
			return err
		}
		defer conn.Close()

		pub, err := events.NewPublisher(conn, events.PublisherOptions{Logger: logger.With("component", "relay")})
		if err != nil {
			return err
		}
		defer pub.Close()

		sinks = append(sinks, pub)
		logger.Info("statistics relay enabled", "exchange", events.EventsExchange, "routing_key", events.StatisticsUpdatedRoutingKey)
	}

	var feed *stats.LiveFeed
	if withFeed {
		feed = a.liveFeed(sinks...)
		feed.Connect(ctx, a.dashboard.Apply, func(err error) {
			logger.Warn("live feed error", "error", err)
		})
		defer func() {
			feed.Disconnect()
			feed.Wait()
		}()
	}

	h := httpapi.NewHandler(httpapi.Deps{
		Logger:           logger.With("component", "http"),
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		Backend:          a.backend,
		Catalog:          a.catalog,
		Cart:             a.cart,
		Orders:           a.orders,
		Dashboard:        a.dashboard,
		Feed:             feed,
		History:          history,
		Metrics:          metrics.Handler(a.registry),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(h),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront listening", "addr", cfg.HTTPAddr, "backend", cfg.APIURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
