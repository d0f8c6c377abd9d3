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

// OrderStatus encodes the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderLine is one product line within an order.
type OrderLine struct {
	ProductID  string `json:"productId"`
	Title      string `json:"title"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"priceCents"`
}

// Order is the summary an admin order screen needs. Payment and fulfilment
// mechanics stay server-side.
type Order struct {
	ID         string      `json:"id"`
	Number     string      `json:"number"`
	CustomerID string      `json:"customerId"`
	Status     OrderStatus `json:"status"`
	TotalCents int64       `json:"totalCents"`
	Currency   string      `json:"currency"`
	Lines      []OrderLine `json:"lines,omitempty"`
	PlacedAt   time.Time   `json:"placedAt"`
}

type orderListResponse struct {
	Orders []Order `json:"orders"`
}

type orderResponse struct {
	Order Order `json:"order"`
}

// OrdersClient provides methods to inspect and progress orders.
type OrdersClient struct {
	client *Client
}

// List returns orders, optionally filtered by status.
func (c *OrdersClient) List(ctx context.Context, status OrderStatus) ([]Order, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("storekeep: orders client not initialized")
	}
	path := routes.Orders
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
	var payload orderListResponse
	if err := decodeInto(resp, &payload); err != nil {
		return nil, err
	}
	return payload.Orders, nil
}

// Get retrieves an order with its lines.
func (c *OrdersClient) Get(ctx context.Context, orderID string) (Order, error) {
	if c == nil || c.client == nil {
		return Order{}, fmt.Errorf("storekeep: orders client not initialized")
	}
	if strings.TrimSpace(orderID) == "" {
		return Order{}, fmt.Errorf("storekeep: order id required")
	}
	req, err := c.client.newJSONRequest(ctx, http.MethodGet, routes.Orders+"/"+url.PathEscape(orderID), nil)
	if err != nil {
		return Order{}, err
	}
	resp, err := c.client.send(req)
	if err != nil {
		return Order{}, err
	}
	var payload orderResponse
	if err := decodeInto(resp, &payload); err != nil {
		return Order{}, err
	}
	return payload.Order, nil
}

// UpdateStatus progresses an order through its fulfilment states. The
// server validates the transition.
func (c *OrdersClient) UpdateStatus(ctx context.Context, orderID string, status OrderStatus) (Order, error) {
	if c == nil || c.client == nil {
		return Order{}, fmt.Errorf("storekeep: orders client not initialized")
	}
	if strings.TrimSpace(orderID) == "" {
		return Order{}, fmt.Errorf("storekeep: order id required")
	}
	if status == "" {
		return Order{}, fmt.Errorf("storekeep: status required")
	}
	body := struct {
		Status OrderStatus `json:"status"`
	}{Status: status}
	req, err := c.client.newJSONRequest(ctx, http.MethodPatch, routes.Orders+"/"+url.PathEscape(orderID), body)
	if err != nil {
		return Order{}, err
	}
	resp, err := c.client.send(req)
	if err != nil {
		return Order{}, err
	}
	var payload orderResponse
	if err := decodeInto(resp, &payload); err != nil {
		return Order{}, err
	}
	return payload.Order, nil
}
