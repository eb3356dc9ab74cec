// Package cart keeps the local shopping cart in step with the backend.
//
// Every mutation is applied locally first, confirmed with the backend, and
// reverted to the exact pre-mutation list if the confirmation fails.
package cart

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/view"
)

type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Brand    string          `json:"brand"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
	Selected bool            `json:"selected"`
	AddTime  view.Timestamp  `json:"addTime,omitzero"`
}

func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type SyncStatus string

const (
	StatusIdle    SyncStatus = "idle"
	StatusSyncing SyncStatus = "syncing"
	StatusError   SyncStatus = "error"
)

// Snapshot is a consistent read of the whole reconciler state.
type Snapshot struct {
	Items         []Item          `json:"items"`
	Status        SyncStatus      `json:"status"`
	LastSync      time.Time       `json:"lastSync,omitzero"`
	LastError     string          `json:"lastError,omitempty"`
	TotalCount    int             `json:"totalCount"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	SelectedCount int             `json:"selectedCount"`
	NeedsSync     bool            `json:"needsSync"`
}

// ProductIDLength is the length of a backend product id.
const ProductIDLength = 12

// ValidProductID reports whether id has the backend's fixed id length.
func ValidProductID(id string) bool {
	return len(id) == ProductIDLength
}
