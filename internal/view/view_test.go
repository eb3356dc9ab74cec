package view

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageResolver(t *testing.T) {
	r := NewImageResolver("http://img.local/api/images/", "")

	tests := map[string]struct {
		raw  string
		want string
	}{
		"absolute http":  {raw: "http://cdn.example.com/a.png", want: "http://cdn.example.com/a.png"},
		"absolute https": {raw: "https://cdn.example.com/a.png", want: "https://cdn.example.com/a.png"},
		"hdfs uri":       {raw: "hdfs://namenode:9000/images/2024/kettle.jpg", want: "http://img.local/api/images/kettle.jpg"},
		"relative path":  {raw: "/uploads/kettle.jpg", want: "http://img.local/api/images/uploads/kettle.jpg"},
		"bare id":        {raw: "65a1b2c3d4e5", want: "http://img.local/api/images/65a1b2c3d4e5"},
		"empty":          {raw: "", want: DefaultPlaceholder},
		"hdfs dir only":  {raw: "hdfs://namenode/images/", want: DefaultPlaceholder},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.raw))
		})
	}
}

func TestZeroValueResolverUsesDefaults(t *testing.T) {
	var r ImageResolver
	assert.Equal(t, DefaultPlaceholder, r.Resolve(""))
	assert.Equal(t, "http://localhost:8080/api/images/x.png", r.Resolve("x.png"))
}

func TestLabelledPlaceholder(t *testing.T) {
	assert.Equal(t, "https://via.placeholder.com/80x80?text=Tea+Kettle", LabelledPlaceholder("Tea Kettle"))
}

func TestFormatAmount(t *testing.T) {
	tests := map[string]struct {
		in   string
		want string
	}{
		"zero":            {in: "0", want: "¥0.00"},
		"small":           {in: "9.9", want: "¥9.90"},
		"grouped":         {in: "1234.5", want: "¥1,234.50"},
		"rounds to cents": {in: "9999.994", want: "¥9,999.99"},
		"ten thousand":    {in: "10000", want: "¥1.0万"},
		"large":           {in: "12345.67", want: "¥1.2万"},
		"negative":        {in: "-12.5", want: "-¥12.50"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "999", FormatNumber(999))
	assert.Equal(t, "1,234,567", FormatNumber(1234567))
}

func TestFormatDateTime(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)

	tests := map[string]struct {
		raw  string
		want string
	}{
		"rfc3339 with zone": {raw: "2024-01-05T10:00:00Z", want: "2024-01-05 18:00:00"},
		"offset":            {raw: "2024-01-05T10:00:00+08:00", want: "2024-01-05 10:00:00"},
		"zone-less is utc":  {raw: "2024-01-05T10:00:00.123", want: "2024-01-05 18:00:00"},
		"space separated":   {raw: "2024-01-05 10:00:00", want: "2024-01-05 18:00:00"},
		"empty":             {raw: "", want: "-"},
		"unparsable":        {raw: "yesterday", want: "yesterday"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDateTime(tt.raw, shanghai))
		})
	}
}

func TestFormatTimeZero(t *testing.T) {
	assert.Equal(t, "-", FormatTime(time.Time{}, time.UTC))
}

func TestTimestamp(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)

	ts := ParseTimestamp("2024-01-05T10:00:00Z")
	assert.True(t, ts.Parsed())
	assert.Equal(t, "2024-01-05 18:00:00", ts.Display(shanghai))

	ts = ParseTimestamp(" 2024/01/02 10:00 ")
	assert.False(t, ts.Parsed())
	assert.False(t, ts.IsZero())
	assert.Equal(t, "2024/01/02 10:00", ts.Display(shanghai))

	raw, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.JSONEq(t, `"2024/01/02 10:00"`, string(raw))

	var back Timestamp
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, ts, back)

	assert.True(t, ParseTimestamp("").IsZero())
	assert.Equal(t, "-", Timestamp{}.Display(shanghai))
}
