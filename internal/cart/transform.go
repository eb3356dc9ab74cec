package cart

import (
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/view"
)

// FromWire maps the backend cart onto local items, keeping backend order.
func FromWire(c dto.Cart, images view.ImageResolver) []Item {
	out := make([]Item, 0, len(c.Items))
	for _, it := range c.Items {
		out = append(out, ItemFromWire(it, images))
	}
	return out
}

func ItemFromWire(it dto.CartItem, images view.ImageResolver) Item {
	return Item{
		ID:       it.ProductID,
		Name:     it.ProductName,
		Price:    it.Price,
		Category: it.Category,
		Brand:    it.Brand,
		Image:    images.Resolve(it.ImageURL),
		Quantity: it.Quantity,
		Selected: it.Selected,
		AddTime:  view.ParseTimestamp(it.AddTime),
	}
}
