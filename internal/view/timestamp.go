package view

import (
	"encoding/json"
	"strings"
	"time"
)

// Timestamp is a backend time that keeps its raw text. A value that cannot be
// parsed has a zero Time and is marshalled back exactly as received.
type Timestamp struct {
	time.Time
	Raw string
}

func ParseTimestamp(raw string) Timestamp {
	raw = strings.TrimSpace(raw)
	t, _ := ParseTime(raw)
	return Timestamp{Time: t, Raw: raw}
}

// At wraps a locally produced time.
func At(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// Parsed reports whether Time holds a real instant.
func (ts Timestamp) Parsed() bool {
	return !ts.Time.IsZero()
}

func (ts Timestamp) IsZero() bool {
	return ts.Time.IsZero() && ts.Raw == ""
}

// Display renders ts in loc, falling back to the raw text when unparsed.
func (ts Timestamp) Display(loc *time.Location) string {
	if ts.Parsed() {
		return FormatTime(ts.Time, loc)
	}
	if ts.Raw == "" {
		return EmptyValue
	}
	return ts.Raw
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.Parsed() {
		return ts.Time.MarshalJSON()
	}
	return json.Marshal(ts.Raw)
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*ts = ParseTimestamp(raw)
	return nil
}
