package clients

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
)

type OrderClient struct{ c *Client }

func NewOrderClient(c *Client) *OrderClient { return &OrderClient{c: c} }

func (oc *OrderClient) Create(ctx context.Context, req dto.CreateOrderRequest) (dto.Order, error) {
	var o dto.Order
	err := oc.c.Post(ctx, "/order/create", req, &o)
	return o, err
}

func (oc *OrderClient) List(ctx context.Context, q dto.OrderQuery) (dto.OrderPage, error) {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}

	var page dto.OrderPage
	err := oc.c.Get(ctx, "/order/list", v, &page)
	return page, err
}

func (oc *OrderClient) Get(ctx context.Context, orderID string) (dto.Order, error) {
	var o dto.Order
	err := oc.c.Do(ctx, Call{
		Method: http.MethodGet,
		Path:   "/order/" + url.PathEscape(orderID),
		Route:  "/order/{id}",
	}, &o)
	return o, err
}

func (oc *OrderClient) Pay(ctx context.Context, orderID string) error {
	return oc.action(ctx, orderID, "pay")
}

func (oc *OrderClient) Cancel(ctx context.Context, orderID string) error {
	return oc.action(ctx, orderID, "cancel")
}

func (oc *OrderClient) Complete(ctx context.Context, orderID string) error {
	return oc.action(ctx, orderID, "complete")
}

func (oc *OrderClient) action(ctx context.Context, orderID, verb string) error {
	return oc.c.Do(ctx, Call{
		Method: http.MethodPost,
		Path:   "/order/" + url.PathEscape(orderID) + "/" + verb,
		Route:  "/order/{id}/" + verb,
	}, nil)
}
