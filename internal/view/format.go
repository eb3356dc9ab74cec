package view

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	CurrencySymbol = "¥"
	DateTimeLayout = "2006-01-02 15:04:05"
	EmptyValue     = "-"
)

var (
	printer     = message.NewPrinter(language.English)
	tenThousand = decimal.NewFromInt(10000)
)

// FormatAmount renders money for display: ¥0.00, ¥1,234.50, or ¥1.2万 at
// ten thousand and above.
func FormatAmount(d decimal.Decimal) string {
	if d.IsZero() {
		return CurrencySymbol + "0.00"
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	if d.GreaterThanOrEqual(tenThousand) {
		return sign + CurrencySymbol + d.Div(tenThousand).StringFixed(1) + "万"
	}
	return sign + CurrencySymbol + groupFixed(d, 2)
}

// FormatNumber groups thousands: 1234567 -> "1,234,567".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

func groupFixed(d decimal.Decimal, places int32) string {
	fixed := d.StringFixed(places)
	intPart, frac, _ := strings.Cut(fixed, ".")
	whole, _ := decimal.NewFromString(intPart)
	out := FormatNumber(whole.IntPart())
	if frac != "" {
		out += "." + frac
	}
	return out
}

var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// ParseTime reads a backend timestamp. Zone-less values are taken as UTC.
func ParseTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDateTime renders raw in loc. Empty input gives "-" and unparsable
// input is returned unchanged.
func FormatDateTime(raw string, loc *time.Location) string {
	if strings.TrimSpace(raw) == "" {
		return EmptyValue
	}
	t, ok := ParseTime(raw)
	if !ok {
		return raw
	}
	return FormatTime(t, loc)
}

func FormatTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return EmptyValue
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateTimeLayout)
}
