package stats

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/apierr"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
)

// API is the statistics endpoint set. *clients.StatisticsClient satisfies it.
type API interface {
	TotalSales(ctx context.Context) (dto.TotalSales, error)
	DailySales(ctx context.Context, date string) (dto.DailySales, error)
	DailyOrders(ctx context.Context, date string) (dto.DailyOrders, error)
	TopProducts(ctx context.Context, limit int) (dto.TopProducts, error)
	SevenDaysSales(ctx context.Context) (dto.SevenDays, error)
	SevenDaysOrders(ctx context.Context) (dto.SevenDays, error)
}

type Dashboard struct {
	api       API
	transform Transformer
	logger    *slog.Logger

	mu     sync.RWMutex
	latest *Update
}

func NewDashboard(api API, t Transformer, logger *slog.Logger) *Dashboard {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dashboard{api: api, transform: t, logger: logger}
}

func (d *Dashboard) TotalSales(ctx context.Context) (TotalSales, error) {
	v, err := d.api.TotalSales(ctx)
	if err != nil {
		return TotalSales{}, apierr.ForOp("stats.total", err, "")
	}
	return d.transform.TotalSales(v), nil
}

// DailySales takes a yyyyMMdd date; empty means today.
func (d *Dashboard) DailySales(ctx context.Context, date string) (DailySales, error) {
	v, err := d.api.DailySales(ctx, date)
	if err != nil {
		return DailySales{}, apierr.ForOp("stats.daily_sales", err, "")
	}
	return d.transform.DailySales(v), nil
}

func (d *Dashboard) DailyOrders(ctx context.Context, date string) (DailyOrders, error) {
	v, err := d.api.DailyOrders(ctx, date)
	if err != nil {
		return DailyOrders{}, apierr.ForOp("stats.daily_order", err, "")
	}
	return d.transform.DailyOrders(v), nil
}

func (d *Dashboard) TopProducts(ctx context.Context, limit int) (TopProducts, error) {
	v, err := d.api.TopProducts(ctx, limit)
	if err != nil {
		return TopProducts{}, apierr.ForOp("stats.top", err, "")
	}
	return d.transform.TopProducts(v), nil
}

func (d *Dashboard) SevenDaysSales(ctx context.Context) (Series, error) {
	v, err := d.api.SevenDaysSales(ctx)
	if err != nil {
		return Series{}, apierr.ForOp("stats.seven_days", err, "")
	}
	return d.transform.Series(v), nil
}

func (d *Dashboard) SevenDaysOrders(ctx context.Context) (Series, error) {
	v, err := d.api.SevenDaysOrders(ctx)
	if err != nil {
		return Series{}, apierr.ForOp("stats.seven_days", err, "")
	}
	return d.transform.Series(v), nil
}

// Summary loads the four headline figures concurrently and fails as a
// whole on the first error.
func (d *Dashboard) Summary(ctx context.Context, date string, limit int) (Summary, error) {
	var s Summary
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		v, err := d.TotalSales(gctx)
		s.Total = v
		return err
	})
	g.Go(func() error {
		v, err := d.DailySales(gctx, date)
		s.Daily = v
		return err
	})
	g.Go(func() error {
		v, err := d.DailyOrders(gctx, date)
		s.Orders = v
		return err
	})
	g.Go(func() error {
		v, err := d.TopProducts(gctx, limit)
		s.Top = v
		return err
	})

	if err := g.Wait(); err != nil {
		d.logger.WarnContext(ctx, "dashboard summary failed", "error", err)
		return Summary{}, err
	}
	return s, nil
}

// Apply records u as the latest pushed update. It has the signature of a
// LiveFeed update callback.
func (d *Dashboard) Apply(u Update) {
	d.mu.Lock()
	d.latest = &u
	d.mu.Unlock()
}

func (d *Dashboard) Latest() (Update, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.latest == nil {
		return Update{}, false
	}
	return *d.latest, true
}
