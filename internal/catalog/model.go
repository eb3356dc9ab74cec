// Package catalog turns backend product records into view models and keeps
// the paged product list a storefront is browsing.
package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/view"
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
	StatusDeleted  Status = "DELETED"
)

// Label is the display text for s.
func (s Status) Label() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusInactive:
		return "Inactive"
	case StatusDeleted:
		return "Deleted"
	}
	return "Unknown"
}

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
	Status      Status          `json:"status"`
	StatusLabel string          `json:"statusLabel"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	Stock       int             `json:"stock"`
	CreateTime  view.Timestamp  `json:"createTime,omitzero"`
}

// ProductDetail is the single-product view with the fields the list omits.
type ProductDetail struct {
	Product
	Cost        decimal.Decimal `json:"cost"`
	StockDetail map[string]int  `json:"stockDetail"`
	Spec        map[string]any  `json:"spec"`
	Tags        []string        `json:"tags"`
	UpdateTime  view.Timestamp  `json:"updateTime,omitzero"`
}
