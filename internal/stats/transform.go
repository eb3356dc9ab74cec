package stats

import (
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/view"
)

type Transformer struct {
	Location *time.Location
}

func (t Transformer) TotalSales(d dto.TotalSales) TotalSales {
	return TotalSales{
		Amount:          d.TotalSales,
		AmountText:      view.FormatAmount(d.TotalSales),
		CompletedOrders: d.CompletedOrders,
		LastUpdate:      view.FormatDateTime(d.LastUpdateTime, t.Location),
	}
}

func (t Transformer) DailySales(d dto.DailySales) DailySales {
	return DailySales{
		Date:              d.Date,
		Amount:            d.DailySales,
		AmountText:        view.FormatAmount(d.DailySales),
		OrderCount:        d.OrderCount,
		AverageOrderValue: d.AverageOrderValue,
		LastUpdate:        view.FormatDateTime(d.LastUpdateTime, t.Location),
	}
}

func (t Transformer) DailyOrders(d dto.DailyOrders) DailyOrders {
	return DailyOrders{
		Date:           d.Date,
		OrderCount:     d.OrderCount,
		OrderCountText: view.FormatNumber(d.OrderCount),
		LastUpdate:     view.FormatDateTime(d.LastUpdateTime, t.Location),
	}
}

func (t Transformer) TopProducts(d dto.TopProducts) TopProducts {
	out := TopProducts{
		Products:   make([]TopProduct, 0, len(d.TopProducts)),
		LastUpdate: view.FormatDateTime(d.LastUpdateTime, t.Location),
	}
	for i, p := range d.TopProducts {
		rank := p.Rank
		if rank == 0 {
			rank = i + 1
		}
		out.Products = append(out.Products, TopProduct{
			Rank:       rank,
			ProductID:  p.ProductID,
			Name:       p.ProductName,
			Quantity:   p.SalesQuantity,
			Amount:     p.SalesAmount,
			AmountText: view.FormatAmount(p.SalesAmount),
		})
	}
	return out
}

func (t Transformer) Series(d dto.SevenDays) Series {
	out := Series{
		Points:     make([]Point, 0, len(d.Points)),
		LastUpdate: view.FormatDateTime(d.LastUpdateTime, t.Location),
	}
	for _, p := range d.Points {
		out.Points = append(out.Points, Point{Date: p.Date, Value: p.Value})
	}
	return out
}

func (t Transformer) Update(d dto.StatisticsUpdate, received time.Time) Update {
	u := Update{
		EventType:  d.EventType,
		OrderID:    d.OrderID,
		Timestamp:  d.Timestamp,
		ReceivedAt: received,
	}
	if d.TotalSales != nil {
		v := t.TotalSales(*d.TotalSales)
		u.Total = &v
	}
	if d.DailySales != nil {
		v := t.DailySales(*d.DailySales)
		u.Daily = &v
	}
	if d.DailyOrders != nil {
		v := t.DailyOrders(*d.DailyOrders)
		u.Orders = &v
	}
	if d.TopProducts != nil {
		v := t.TopProducts(*d.TopProducts)
		u.Top = &v
	}
	return u
}
