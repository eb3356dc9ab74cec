package dto

import "github.com/shopspring/decimal"

type CartItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
	Quantity    int             `json:"quantity"`
	Selected    bool            `json:"selected"`
	AddTime     string          `json:"addTime"`
	ImageURL    string          `json:"imageUrl,omitempty"`
}

type Cart struct {
	UserID        string          `json:"userId"`
	Items         []CartItem      `json:"items"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
}

type AddCartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type UpdateSelectionRequest struct {
	ProductIDs []string `json:"productIds"`
	Selected   bool     `json:"selected"`
}

type RemoveItemsRequest struct {
	ProductIDs []string `json:"productIds"`
}
