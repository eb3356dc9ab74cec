package order

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/view"
)

type Transformer struct {
	Images   view.ImageResolver
	Location *time.Location
}

func (t Transformer) Order(o dto.Order) Order {
	status := Status(o.Status)
	created, _ := view.ParseTime(o.CreateTime)

	out := Order{
		ID:             o.OrderID,
		Number:         o.OrderID,
		UserID:         o.UserID,
		Status:         status,
		StatusLabel:    status.Label(),
		CreatedAt:      created,
		CreateTime:     view.FormatDateTime(o.CreateTime, t.Location),
		PayTime:        t.optionalTime(o.PayTime),
		CancelTime:     t.optionalTime(o.CancelTime),
		CompleteTime:   t.optionalTime(o.CompleteTime),
		TotalAmount:    o.TotalAmount,
		DiscountAmount: o.DiscountAmount,
		ActualAmount:   o.ActualAmount,
		Lines:          make([]Line, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		out.Lines = append(out.Lines, t.Line(it))
	}
	if o.Address != nil {
		out.Address = &Address{
			Receiver: o.Address.Receiver,
			Phone:    o.Address.Phone,
			Address:  o.Address.Address,
			Postcode: o.Address.Postcode,
		}
	}
	return out
}

// Line falls back to price x quantity when the backend sends no line total.
func (t Transformer) Line(it dto.OrderItem) Line {
	subtotal := it.TotalAmount
	if subtotal.IsZero() {
		subtotal = it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
	}

	raw := it.ImageURL
	if raw == "" {
		raw = it.Image
	}
	image := view.LabelledPlaceholder(labelOr(it.ProductName, "Product"))
	if raw != "" {
		image = t.Images.Resolve(raw)
	}

	return Line{
		ProductID: it.ProductID,
		Name:      it.ProductName,
		Category:  it.Category,
		Brand:     it.Brand,
		Price:     it.Price,
		Quantity:  it.Quantity,
		Subtotal:  subtotal,
		Image:     image,
	}
}

// Summary fills a missing total from the actual amount and vice versa.
func (t Transformer) Summary(o dto.OrderListItem) Summary {
	total, actual := o.TotalAmount, o.ActualAmount
	if total.IsZero() {
		total = actual
	}
	if actual.IsZero() {
		actual = total
	}
	status := Status(o.Status)
	return Summary{
		ID:           o.OrderID,
		Number:       o.OrderID,
		Status:       status,
		StatusLabel:  status.Label(),
		CreateTime:   view.FormatDateTime(o.CreateTime, t.Location),
		TotalAmount:  total,
		ActualAmount: actual,
		ItemCount:    o.ItemCount,
	}
}

// testOrderPrefix marks seeded fixture orders; they are never listed.
const testOrderPrefix = "test"

func (t Transformer) Summaries(in []dto.OrderListItem) []Summary {
	out := make([]Summary, 0, len(in))
	for _, o := range in {
		if strings.HasPrefix(o.OrderID, testOrderPrefix) {
			continue
		}
		out = append(out, t.Summary(o))
	}
	return out
}

func (t Transformer) optionalTime(raw string) string {
	if raw == "" {
		return ""
	}
	return view.FormatDateTime(raw, t.Location)
}

func labelOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
