package apiclient

import (
	"context"
	"net/http"
)

type productsResponse struct {
	Products []Product `json:"products"`
}

// ListProducts returns the products of one branch.
func (c *Client) ListProducts(ctx context.Context, branchID int64) ([]Product, error) {
	var resp productsResponse
	path := idPath("/products", branchID)
	if err := c.do(ctx, "products.list", http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// CreateProduct posts a new product.
func (c *Client) CreateProduct(ctx context.Context, in ProductInput) error {
	return c.do(ctx, "products.create", http.MethodPost, "/products", in, nil)
}

// UpdateProduct replaces the product identified by id.
func (c *Client) UpdateProduct(ctx context.Context, id int64, in ProductInput) error {
	return c.do(ctx, "products.update", http.MethodPut, idPath("/products", id), in, nil)
}

// DeleteProduct removes the product identified by id.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, "products.delete", http.MethodDelete, idPath("/products", id), nil, nil)
}
