package clients

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/apierr"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
)

const (
	DefaultTopLimit = 3
	MaxTopLimit     = 20

	// DateLayout is the backend's yyyyMMdd day key.
	DateLayout = "20060102"

	streamPath = "/statistics/stream"
)

type StatisticsClient struct{ c *Client }

func NewStatisticsClient(c *Client) *StatisticsClient { return &StatisticsClient{c: c} }

func (sc *StatisticsClient) TotalSales(ctx context.Context) (dto.TotalSales, error) {
	var out dto.TotalSales
	err := sc.c.Get(ctx, "/statistics/total-sales", nil, &out)
	return out, err
}

// DailySales loads one day; an empty date means today on the server.
func (sc *StatisticsClient) DailySales(ctx context.Context, date string) (dto.DailySales, error) {
	var out dto.DailySales
	q, err := dateQuery("/statistics/daily-sales", date)
	if err != nil {
		return out, err
	}
	err = sc.c.Get(ctx, "/statistics/daily-sales", q, &out)
	return out, err
}

func (sc *StatisticsClient) DailyOrders(ctx context.Context, date string) (dto.DailyOrders, error) {
	var out dto.DailyOrders
	q, err := dateQuery("/statistics/daily-orders", date)
	if err != nil {
		return out, err
	}
	err = sc.c.Get(ctx, "/statistics/daily-orders", q, &out)
	return out, err
}

// TopProducts clamps limit to 1..MaxTopLimit; zero or less means DefaultTopLimit.
func (sc *StatisticsClient) TopProducts(ctx context.Context, limit int) (dto.TopProducts, error) {
	var out dto.TopProducts
	err := sc.c.Get(ctx, "/statistics/top-products", url.Values{"limit": {strconv.Itoa(ClampTopLimit(limit))}}, &out)
	return out, err
}

func (sc *StatisticsClient) SevenDaysSales(ctx context.Context) (dto.SevenDays, error) {
	var out dto.SevenDays
	err := sc.c.Get(ctx, "/statistics/seven-days-sales", nil, &out)
	return out, err
}

func (sc *StatisticsClient) SevenDaysOrders(ctx context.Context) (dto.SevenDays, error) {
	var out dto.SevenDays
	err := sc.c.Get(ctx, "/statistics/seven-days-orders", nil, &out)
	return out, err
}

// Stream opens the server-push statistics stream. The caller closes the
// returned body; cancelling ctx also ends it.
func (sc *StatisticsClient) Stream(ctx context.Context, lastEventID string) (io.ReadCloser, error) {
	target := sc.c.resolve(streamPath, nil)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, apierr.Transport(streamPath, err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if lastEventID != "" {
		req.Header.Set("Last-Event-ID", lastEventID)
	}
	if cid := middleware.GetCorrelationID(ctx); cid != "" {
		req.Header.Set(middleware.HeaderCorrelationID, cid)
	}

	start := time.Now()
	resp, err := sc.c.HTTP.Do(req)
	if err != nil {
		e := apierr.Transport(streamPath, err)
		sc.c.observe(http.MethodGet, streamPath, e, time.Since(start))
		return nil, e
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		e := apierr.HTTPStatus(streamPath, resp.StatusCode, "", "")
		sc.c.observe(http.MethodGet, streamPath, e, time.Since(start))
		return nil, e
	}
	sc.c.observe(http.MethodGet, streamPath, nil, time.Since(start))
	sc.c.logger.DebugContext(ctx, "statistics stream opened", "client", sc.c.Name, "url", target)
	return resp.Body, nil
}

func ClampTopLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultTopLimit
	case limit > MaxTopLimit:
		return MaxTopLimit
	}
	return limit
}

func dateQuery(op, date string) (url.Values, error) {
	if date == "" {
		return nil, nil
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, apierr.Validation(op, apierr.CodeInvalidArgument, fmt.Sprintf("date %q must be formatted as yyyyMMdd", date))
	}
	return url.Values{"date": {date}}, nil
}
