package dto

import "github.com/shopspring/decimal"

type OrderItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Image       string          `json:"image,omitempty"`
}

type Address struct {
	Receiver string `json:"receiver"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Postcode string `json:"postcode"`
}

type Order struct {
	OrderID        string          `json:"orderId"`
	UserID         string          `json:"userId"`
	Status         string          `json:"status"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	ActualAmount   decimal.Decimal `json:"actualAmount"`
	Items          []OrderItem     `json:"items"`
	Address        *Address        `json:"address"`
	CreateTime     string          `json:"createTime"`
	PayTime        string          `json:"payTime"`
	CancelTime     string          `json:"cancelTime"`
	CompleteTime   string          `json:"completeTime"`
}

type OrderListItem struct {
	OrderID      string          `json:"orderId"`
	Status       string          `json:"status"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	ActualAmount decimal.Decimal `json:"actualAmount"`
	ItemCount    int             `json:"itemCount"`
	CreateTime   string          `json:"createTime"`
}

type Pagination struct {
	Page       int  `json:"page"`
	Size       int  `json:"size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

type OrderPage struct {
	Orders     []OrderListItem `json:"orders"`
	Pagination Pagination      `json:"pagination"`
}

type CreateOrderRequest struct {
	ProductIDs []string `json:"productIds"`
	Remark     string   `json:"remark"`
}

type OrderQuery struct {
	Status string
	Page   int
	Size   int
}
