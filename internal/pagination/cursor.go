// Package pagination derives a page cursor from list responses.
package pagination

// Cursor is recomputed from every list response and never edited in place.
type Cursor struct {
	Page       int  `json:"page"`
	Size       int  `json:"size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// Reported is what a list endpoint said about paging. Zero fields are
// filled in from Page, Size and Total.
type Reported struct {
	Page       int
	Size       int
	Total      int
	TotalPages int
	HasNext    *bool
	HasPrev    *bool
}

// New returns the cursor for page/size before any response arrived.
func New(page, size int) Cursor {
	if page < 1 {
		page = 1
	}
	return Cursor{Page: page, Size: size}
}

// FromResponse builds a cursor; requested supplies page and size when the
// response omits them.
func FromResponse(r Reported, requested Cursor) Cursor {
	c := Cursor{Page: r.Page, Size: r.Size, Total: r.Total, TotalPages: r.TotalPages}
	if c.Page < 1 {
		c.Page = requested.Page
	}
	if c.Page < 1 {
		c.Page = 1
	}
	if c.Size < 1 {
		c.Size = requested.Size
	}
	if c.TotalPages < 1 && c.Size > 0 {
		c.TotalPages = (c.Total + c.Size - 1) / c.Size
	}
	if r.HasNext != nil {
		c.HasNext = *r.HasNext
	} else {
		c.HasNext = c.Page < c.TotalPages
	}
	if r.HasPrev != nil {
		c.HasPrev = *r.HasPrev
	} else {
		c.HasPrev = c.Page > 1
	}
	return c
}

// Valid reports whether page can be requested: 1..TotalPages, or page 1 of
// an empty result.
func (c Cursor) Valid(page int) bool {
	if page < 1 {
		return false
	}
	return page <= max(c.TotalPages, 1)
}
