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

// Review is a product review awaiting moderation.
type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	Author    string    `json:"author"`
	Rating    int       `json:"rating"`
	Body      string    `json:"body"`
	Visible   bool      `json:"visible"`
	CreatedAt time.Time `json:"createdAt"`
}

type reviewListResponse struct {
	Reviews []Review `json:"reviews"`
}

type reviewResponse struct {
	Review Review `json:"review"`
}

// ReviewsClient provides methods to moderate product reviews.
type ReviewsClient struct {
	client *Client
}

// List returns reviews for a product, or all pending reviews when
// productID is empty.
func (c *ReviewsClient) List(ctx context.Context, productID string) ([]Review, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("storekeep: reviews client not initialized")
	}
	path := routes.Reviews
	if productID != "" {
		path += "?productId=" + url.QueryEscape(productID)
	}
	req, err := c.client.newJSONRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.send(req)
	if err != nil {
		return nil, err
	}
	var payload reviewListResponse
	if err := decodeInto(resp, &payload); err != nil {
		return nil, err
	}
	return payload.Reviews, nil
}

// SetVisibility shows or hides a review on the storefront.
func (c *ReviewsClient) SetVisibility(ctx context.Context, reviewID string, visible bool) (Review, error) {
	if c == nil || c.client == nil {
		return Review{}, fmt.Errorf("storekeep: reviews client not initialized")
	}
	if strings.TrimSpace(reviewID) == "" {
		return Review{}, fmt.Errorf("storekeep: review id required")
	}
	body := struct {
		Visible bool `json:"visible"`
	}{Visible: visible}
	req, err := c.client.newJSONRequest(ctx, http.MethodPatch, routes.Reviews+"/"+url.PathEscape(reviewID), body)
	if err != nil {
		return Review{}, err
	}
	resp, err := c.client.send(req)
	if err != nil {
		return Review{}, err
	}
	var payload reviewResponse
	if err := decodeInto(resp, &payload); err != nil {
		return Review{}, err
	}
	return payload.Review, nil
}
