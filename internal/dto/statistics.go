package dto

import "github.com/shopspring/decimal"

type TotalSales struct {
	TotalSales      decimal.Decimal `json:"totalSales"`
	CompletedOrders int64           `json:"completedOrders"`
	LastUpdateTime  string          `json:"lastUpdateTime"`
}

type DailySales struct {
	Date              string          `json:"date"`
	DailySales        decimal.Decimal `json:"dailySales"`
	OrderCount        int64           `json:"orderCount"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	LastUpdateTime    string          `json:"lastUpdateTime"`
}

type DailyOrders struct {
	Date           string `json:"date"`
	OrderCount     int64  `json:"orderCount"`
	LastUpdateTime string `json:"lastUpdateTime"`
}

type TopProduct struct {
	Rank          int             `json:"rank"`
	ProductID     string          `json:"productId"`
	ProductName   string          `json:"productName"`
	SalesQuantity int64           `json:"salesQuantity"`
	SalesAmount   decimal.Decimal `json:"salesAmount"`
}

type TopProducts struct {
	TopProducts    []TopProduct `json:"topProducts"`
	LastUpdateTime string       `json:"lastUpdateTime"`
}

type DailyPoint struct {
	Date  string          `json:"date"`
	Value decimal.Decimal `json:"value"`
}

type SevenDays struct {
	Points         []DailyPoint `json:"data"`
	LastUpdateTime string       `json:"lastUpdateTime"`
}

// StatisticsUpdate is the payload of a "statistics-update" server push.
// Sections the server did not recompute are omitted.
type StatisticsUpdate struct {
	EventType   string       `json:"eventType"`
	OrderID     string       `json:"orderId,omitempty"`
	TotalSales  *TotalSales  `json:"totalSales,omitempty"`
	DailySales  *DailySales  `json:"dailySales,omitempty"`
	DailyOrders *DailyOrders `json:"dailyOrders,omitempty"`
	TopProducts *TopProducts `json:"topProducts,omitempty"`
	Timestamp   string       `json:"timestamp"`
}
