package catalog

import (
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/view"
)

// stockTotalKey is the aggregate entry in the backend's per-warehouse stock map.
const stockTotalKey = "total"

// Transformer maps wire products to view models.
type Transformer struct {
	Images view.ImageResolver
}

// Product converts a list record. List responses carry no stock, so it is 0.
func (t Transformer) Product(p dto.Product) Product {
	status := Status(p.Status)
	if status == "" {
		status = StatusActive
	}
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Category:    p.Category,
		Brand:       p.Brand,
		Status:      status,
		StatusLabel: status.Label(),
		Image:       t.image(p.Image),
		Description: p.Description,
		CreateTime:  view.ParseTimestamp(p.CreateTime),
	}
}

func (t Transformer) Detail(p dto.Product) ProductDetail {
	d := ProductDetail{
		Product:     t.Product(p),
		Cost:        p.Cost,
		StockDetail: p.Stock,
		Spec:        p.Spec,
		Tags:        p.Tags,
	}
	if d.StockDetail == nil {
		d.StockDetail = map[string]int{}
	}
	if d.Spec == nil {
		d.Spec = map[string]any{}
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	d.Stock = d.StockDetail[stockTotalKey]
	d.UpdateTime = view.ParseTimestamp(p.UpdateTime)
	return d
}

func (t Transformer) Products(in []dto.Product) []Product {
	out := make([]Product, 0, len(in))
	for _, p := range in {
		out = append(out, t.Product(p))
	}
	return out
}

func (t Transformer) image(ref *dto.ImageRef) string {
	if ref == nil {
		return t.Images.Resolve("")
	}
	return t.Images.Resolve(ref.ID)
}
