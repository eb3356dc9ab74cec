package cart

import "github.com/shopspring/decimal"

// TotalCount sums the quantities of selected items.
func TotalCount(items []Item) int {
	n := 0
	for _, it := range items {
		if it.Selected {
			n += it.Quantity
		}
	}
	return n
}

// TotalPrice sums price x quantity over selected items.
func TotalPrice(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		if it.Selected {
			sum = sum.Add(it.Subtotal())
		}
	}
	return sum
}

func SelectedCount(items []Item) int {
	n := 0
	for _, it := range items {
		if it.Selected {
			n++
		}
	}
	return n
}

func SelectedItems(items []Item) []Item {
	out := []Item{}
	for _, it := range items {
		if it.Selected {
			out = append(out, it)
		}
	}
	return out
}

func SelectedIDs(items []Item) []string {
	out := []string{}
	for _, it := range items {
		if it.Selected {
			out = append(out, it.ID)
		}
	}
	return out
}
