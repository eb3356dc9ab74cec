// Package stats loads the sales dashboard and follows the server-push feed
// of statistics updates.
package stats

import (
	"time"

	"github.com/shopspring/decimal"
)

type TotalSales struct {
	Amount          decimal.Decimal `json:"totalSales"`
	AmountText      string          `json:"totalSalesText"`
	CompletedOrders int64           `json:"completedOrders"`
	LastUpdate      string          `json:"lastUpdateTime"`
}

type DailySales struct {
	Date              string          `json:"date"`
	Amount            decimal.Decimal `json:"dailySales"`
	AmountText        string          `json:"dailySalesText"`
	OrderCount        int64           `json:"orderCount"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	LastUpdate        string          `json:"lastUpdateTime"`
}

type DailyOrders struct {
	Date           string `json:"date"`
	OrderCount     int64  `json:"orderCount"`
	OrderCountText string `json:"orderCountText"`
	LastUpdate     string `json:"lastUpdateTime"`
}

type TopProduct struct {
	Rank       int             `json:"rank"`
	ProductID  string          `json:"productId"`
	Name       string          `json:"productName"`
	Quantity   int64           `json:"salesQuantity"`
	Amount     decimal.Decimal `json:"salesAmount"`
	AmountText string          `json:"salesAmountText"`
}

type TopProducts struct {
	Products   []TopProduct `json:"products"`
	LastUpdate string       `json:"lastUpdateTime"`
}

type Point struct {
	Date  string          `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// Series is a seven-day rollup, oldest day first.
type Series struct {
	Points     []Point `json:"points"`
	LastUpdate string  `json:"lastUpdateTime"`
}

// Summary is the dashboard's first screen.
type Summary struct {
	Total  TotalSales  `json:"totalSales"`
	Daily  DailySales  `json:"dailySales"`
	Orders DailyOrders `json:"dailyOrders"`
	Top    TopProducts `json:"topProducts"`
}

// Update is one pushed recomputation. Sections the server did not
// recompute are nil.
type Update struct {
	EventType  string       `json:"eventType"`
	OrderID    string       `json:"orderId,omitempty"`
	Total      *TotalSales  `json:"totalSales,omitempty"`
	Daily      *DailySales  `json:"dailySales,omitempty"`
	Orders     *DailyOrders `json:"dailyOrders,omitempty"`
	Top        *TopProducts `json:"topProducts,omitempty"`
	Timestamp  string       `json:"timestamp"`
	ReceivedAt time.Time    `json:"receivedAt"`
}
