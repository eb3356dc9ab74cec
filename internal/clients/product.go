package clients

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
)

// ProductQuery pages the catalog. Filters are passed through as query
// parameters (category, brand, status, keyword, ...).
type ProductQuery struct {
	Page    int
	Size    int
	Filters map[string]string
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	for k, val := range q.Filters {
		if val != "" {
			v.Set(k, val)
		}
	}
	return v
}

type ProductClient struct{ c *Client }

func NewProductClient(c *Client) *ProductClient { return &ProductClient{c: c} }

func (pc *ProductClient) List(ctx context.Context, q ProductQuery) (dto.ProductPage, error) {
	var page dto.ProductPage
	err := pc.c.Get(ctx, "/product/list", q.values(), &page)
	return page, err
}

func (pc *ProductClient) Get(ctx context.Context, id string) (dto.Product, error) {
	var p dto.Product
	err := pc.c.Do(ctx, Call{
		Method: http.MethodGet,
		Path:   "/product/" + url.PathEscape(id),
		Route:  "/product/{id}",
	}, &p)
	return p, err
}
