package clients

import (
	"context"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
)

type CartClient struct{ c *Client }

func NewCartClient(c *Client) *CartClient { return &CartClient{c: c} }

func (cc *CartClient) Get(ctx context.Context) (dto.Cart, error) {
	var cart dto.Cart
	err := cc.c.Get(ctx, "/cart", nil, &cart)
	return cart, err
}

func (cc *CartClient) Add(ctx context.Context, productID string, quantity int) error {
	return cc.c.Post(ctx, "/cart/add", dto.AddCartItemRequest{ProductID: productID, Quantity: quantity}, nil)
}

// UpdateQuantity sets the absolute quantity for productID.
func (cc *CartClient) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	return cc.c.Put(ctx, "/cart/update", dto.UpdateQuantityRequest{ProductID: productID, Quantity: quantity}, nil)
}

func (cc *CartClient) UpdateSelection(ctx context.Context, productIDs []string, selected bool) error {
	return cc.c.Put(ctx, "/cart/select", dto.UpdateSelectionRequest{ProductIDs: productIDs, Selected: selected}, nil)
}

func (cc *CartClient) Remove(ctx context.Context, productIDs []string) error {
	return cc.c.DeleteWithBody(ctx, "/cart/remove", dto.RemoveItemsRequest{ProductIDs: productIDs}, nil)
}

func (cc *CartClient) Clear(ctx context.Context) error {
	return cc.c.Delete(ctx, "/cart/clear", nil, nil)
}
