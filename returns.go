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

// ReturnStatus encodes the review state of a return request.
type ReturnStatus string

const (
	ReturnStatusRequested ReturnStatus = "requested"
	ReturnStatusApproved  ReturnStatus = "approved"
	ReturnStatusRejected  ReturnStatus = "rejected"
)

// Return is a customer return request awaiting admin review.
type Return struct {
	ID          string       `json:"id"`
	OrderID     string       `json:"orderId"`
	Reason      string       `json:"reason"`
	Status      ReturnStatus `json:"status"`
	RequestedAt time.Time    `json:"requestedAt"`
}

type returnListResponse struct {
	Returns []Return `json:"returns"`
}

type returnResponse struct {
	Return Return `json:"return"`
}

// ReturnsClient provides methods to review return requests.
type ReturnsClient struct {
	client *Client
}

// List returns pending and resolved return requests.
func (c *ReturnsClient) List(ctx context.Context) ([]Return, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("storekeep: returns client not initialized")
	}
	req, err := c.client.newJSONRequest(ctx, http.MethodGet, routes.Returns, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.send(req)
	if err != nil {
		return nil, err
	}
	var payload returnListResponse
	if err := decodeInto(resp, &payload); err != nil {
		return nil, err
	}
	return payload.Returns, nil
}

// Resolve approves or rejects a return request.
func (c *ReturnsClient) Resolve(ctx context.Context, returnID string, status ReturnStatus) (Return, error) {
	if c == nil || c.client == nil {
		return Return{}, fmt.Errorf("storekeep: returns client not initialized")
	}
	if strings.TrimSpace(returnID) == "" {
		return Return{}, fmt.Errorf("storekeep: return id required")
	}
	if status != ReturnStatusApproved && status != ReturnStatusRejected {
		return Return{}, fmt.Errorf("storekeep: status must be approved or rejected")
	}
	body := struct {
		Status ReturnStatus `json:"status"`
	}{Status: status}
	req, err := c.client.newJSONRequest(ctx, http.MethodPatch, routes.Returns+"/"+url.PathEscape(returnID), body)
	if err != nil {
		return Return{}, err
	}
	resp, err := c.client.send(req)
	if err != nil {
		return Return{}, err
	}
	var payload returnResponse
	if err := decodeInto(resp, &payload); err != nil {
		return Return{}, err
	}
	return payload.Return, nil
}
