package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/apierr"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
)

type fakeAPI struct {
	totalErr error
	dates    chan string
}

func (f *fakeAPI) TotalSales(ctx context.Context) (dto.TotalSales, error) {
	if f.totalErr != nil {
		return dto.TotalSales{}, f.totalErr
	}
	return dto.TotalSales{TotalSales: decimal.RequireFromString("123456.78"), CompletedOrders: 42, LastUpdateTime: "2024-01-05T10:00:00Z"}, nil
}

func (f *fakeAPI) DailySales(_ context.Context, date string) (dto.DailySales, error) {
	f.dates <- date
	return dto.DailySales{Date: date, DailySales: decimal.RequireFromString("1234.5"), OrderCount: 3}, nil
}

func (f *fakeAPI) DailyOrders(ctx context.Context, date string) (dto.DailyOrders, error) {
	f.dates <- date
	if f.totalErr != nil {
		// the failing sibling cancels the group
		<-ctx.Done()
		return dto.DailyOrders{}, ctx.Err()
	}
	return dto.DailyOrders{Date: date, OrderCount: 12345}, nil
}

func (f *fakeAPI) TopProducts(_ context.Context, limit int) (dto.TopProducts, error) {
	return dto.TopProducts{TopProducts: []dto.TopProduct{
		{ProductID: "p1", ProductName: "Kettle", SalesQuantity: 9, SalesAmount: decimal.NewFromInt(900)},
		{ProductID: "p2", ProductName: "Cup", SalesQuantity: 4, SalesAmount: decimal.NewFromInt(40)},
	}}, nil
}

func (f *fakeAPI) SevenDaysSales(context.Context) (dto.SevenDays, error) {
	return dto.SevenDays{Points: []dto.DailyPoint{{Date: "20240101", Value: decimal.NewFromInt(5)}}}, nil
}

func (f *fakeAPI) SevenDaysOrders(context.Context) (dto.SevenDays, error) {
	return dto.SevenDays{}, apierr.HTTPStatus("/statistics/seven-days-orders", 500, "", "")
}

var testTransformer = Transformer{Location: time.UTC}

func TestSummaryLoadsEverything(t *testing.T) {
	api := &fakeAPI{dates: make(chan string, 2)}
	d := NewDashboard(api, testTransformer, nil)

	s, err := d.Summary(context.Background(), "20240105", 3)
	require.NoError(t, err)

	assert.Equal(t, "¥12.3万", s.Total.AmountText)
	assert.Equal(t, int64(42), s.Total.CompletedOrders)
	assert.Equal(t, "2024-01-05 10:00:00", s.Total.LastUpdate)
	assert.Equal(t, "¥1,234.50", s.Daily.AmountText)
	assert.Equal(t, "12,345", s.Orders.OrderCountText)
	require.Len(t, s.Top.Products, 2)
	assert.Equal(t, 1, s.Top.Products[0].Rank)
	assert.Equal(t, 2, s.Top.Products[1].Rank)
	assert.Equal(t, "20240105", <-api.dates)
}

func TestSummaryFailsAsAWhole(t *testing.T) {
	api := &fakeAPI{dates: make(chan string, 2), totalErr: apierr.HTTPStatus("/statistics/total-sales", 503, "", "")}
	d := NewDashboard(api, testTransformer, nil)

	s, err := d.Summary(context.Background(), "", 3)

	require.Error(t, err)
	assert.Equal(t, Summary{}, s)
	var ae *apierr.Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "stats.total", ae.Op)
	assert.Equal(t, "failed to load total sales, please try again later", apierr.Display(err))
}

func TestSevenDays(t *testing.T) {
	d := NewDashboard(&fakeAPI{}, testTransformer, nil)

	series, err := d.SevenDaysSales(context.Background())
	require.NoError(t, err)
	require.Len(t, series.Points, 1)
	assert.Equal(t, "-", series.LastUpdate)

	_, err = d.SevenDaysOrders(context.Background())
	assert.ErrorIs(t, err, apierr.ErrUnavailable)
}

func TestApplyLatest(t *testing.T) {
	d := NewDashboard(&fakeAPI{}, testTransformer, nil)

	_, ok := d.Latest()
	assert.False(t, ok)

	d.Apply(Update{EventType: "ORDER_COMPLETED", OrderID: "o1"})
	d.Apply(Update{EventType: "ORDER_COMPLETED", OrderID: "o2"})

	u, ok := d.Latest()
	require.True(t, ok)
	assert.Equal(t, "o2", u.OrderID)
}

func TestTransformUpdateKeepsMissingSectionsNil(t *testing.T) {
	at := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	u := testTransformer.Update(dto.StatisticsUpdate{
		EventType:  "ORDER_COMPLETED",
		TotalSales: &dto.TotalSales{TotalSales: decimal.NewFromInt(10)},
	}, at)

	require.NotNil(t, u.Total)
	assert.Equal(t, "¥10.00", u.Total.AmountText)
	assert.Nil(t, u.Daily)
	assert.Nil(t, u.Orders)
	assert.Nil(t, u.Top)
	assert.Equal(t, at, u.ReceivedAt)
}
