package storekeep

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/storekeep/storekeep-go/routes"
)

// ProductStatus encodes the catalog visibility of a product.
type ProductStatus string

const (
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusActive   ProductStatus = "active"
	ProductStatusArchived ProductStatus = "archived"
)

// Product is the catalog summary an admin list screen needs. Pricing is in
// minor units; richer merchandising data stays server-side.
type Product struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	SKU        string        `json:"sku"`
	PriceCents int64         `json:"priceCents"`
	Currency   string        `json:"currency"`
	Stock      int           `json:"stock"`
	Status     ProductStatus `json:"status"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// ProductCreateRequest contains the fields to create a product.
type ProductCreateRequest struct {
	Title      string `json:"title"`
	SKU        string `json:"sku"`
	PriceCents int64  `json:"priceCents"`
	Currency   string `json:"currency"`
	Stock      int    `json:"stock"`
}

type productListResponse struct {
	Products []Product `json:"products"`
}

type productResponse struct {
	Product Product `json:"product"`
}

// ProductsClient provides methods to manage the product catalog.
type ProductsClient struct {
	client *Client
}

// List returns the product catalog, optionally filtered by status.
func (c *ProductsClient) List(ctx context.Context, status ProductStatus) ([]Product, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("storekeep: products client not initialized")
	}
	path := routes.Products
	if status != "" {
		path += "?status=" + url.QueryEscape(string(status))
	}
	req, err := c.client.newJSONRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.send(req)
	if err != nil {
		return nil, err
	}
	var payload productListResponse
	if err := decodeInto(resp, &payload); err != nil {
		return nil, err
	}
	return payload.Products, nil
}

// Get retrieves a product by ID.
func (c *ProductsClient) Get(ctx context.Context, productID string) (Product, error) {
	if c == nil || c.client == nil {
		return Product{}, fmt.Errorf("storekeep: products client not initialized")
	}
	if strings.TrimSpace(productID) == "" {
		return Product{}, fmt.Errorf("storekeep: product id required")
	}
	req, err := c.client.newJSONRequest(ctx, http.MethodGet, routes.Products+"/"+url.PathEscape(productID), nil)
	if err != nil {
		return Product{}, err
	}
	resp, err := c.client.send(req)
	if err != nil {
		return Product{}, err
	}
	var payload productResponse
	if err := decodeInto(resp, &payload); err != nil {
		return Product{}, err
	}
	return payload.Product, nil
}

// Create adds a product to the catalog in draft status.
func (c *ProductsClient) Create(ctx context.Context, req ProductCreateRequest) (Product, error) {
	if c == nil || c.client == nil {
		return Product{}, fmt.Errorf("storekeep: products client not initialized")
	}
	if strings.TrimSpace(req.Title) == "" {
		return Product{}, fmt.Errorf("storekeep: title required")
	}
	if req.PriceCents < 0 {
		return Product{}, fmt.Errorf("storekeep: price must be non-negative")
	}
	httpReq, err := c.client.newJSONRequest(ctx, http.MethodPost, routes.Products, req)
	if err != nil {
		return Product{}, err
	}
	resp, err := c.client.send(httpReq)
	if err != nil {
		return Product{}, err
	}
	var payload productResponse
	if err := decodeInto(resp, &payload); err != nil {
		return Product{}, err
	}
	return payload.Product, nil
}

// UpdateStatus moves a product between draft, active, and archived.
func (c *ProductsClient) UpdateStatus(ctx context.Context, productID string, status ProductStatus) (Product, error) {
	if c == nil || c.client == nil {
		return Product{}, fmt.Errorf("storekeep: products client not initialized")
	}
	if strings.TrimSpace(productID) == "" {
		return Product{}, fmt.Errorf("storekeep: product id required")
	}
	body := struct {
		Status ProductStatus `json:"status"`
	}{Status: status}
	req, err := c.client.newJSONRequest(ctx, http.MethodPatch, routes.Products+"/"+url.PathEscape(productID), body)
	if err != nil {
		return Product{}, err
	}
	resp, err := c.client.send(req)
	if err != nil {
		return Product{}, err
	}
	var payload productResponse
	if err := decodeInto(resp, &payload); err != nil {
		return Product{}, err
	}
	return payload.Product, nil
}
