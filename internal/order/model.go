// Package order maps backend orders to view models and drives the order
// lifecycle: create, list, pay, cancel, complete.
package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Line struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Brand     string          `json:"brand"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Image     string          `json:"image"`
}

type Address struct {
	Receiver string `json:"receiver"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Postcode string `json:"postcode"`
}

// Order is the detail view. Time fields hold display strings in the
// configured zone; empty when the event has not happened.
type Order struct {
	ID             string          `json:"id"`
	Number         string          `json:"orderNumber"`
	UserID         string          `json:"userId"`
	Status         Status          `json:"status"`
	StatusLabel    string          `json:"statusLabel"`
	CreatedAt      time.Time       `json:"createdAt,omitzero"`
	CreateTime     string          `json:"createTime"`
	PayTime        string          `json:"payTime,omitempty"`
	CancelTime     string          `json:"cancelTime,omitempty"`
	CompleteTime   string          `json:"completeTime,omitempty"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	ActualAmount   decimal.Decimal `json:"actualAmount"`
	Lines          []Line          `json:"items"`
	Address        *Address        `json:"address,omitempty"`
}

// Summary is one row of the order list.
type Summary struct {
	ID           string          `json:"id"`
	Number       string          `json:"orderNumber"`
	Status       Status          `json:"status"`
	StatusLabel  string          `json:"statusLabel"`
	CreateTime   string          `json:"createTime"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	ActualAmount decimal.Decimal `json:"actualAmount"`
	ItemCount    int             `json:"itemCount"`
}

// Counts tallies the orders on the current page by status.
type Counts struct {
	Pending   int `json:"pending"`
	Paid      int `json:"paid"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}
