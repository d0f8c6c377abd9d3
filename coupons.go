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

// Coupon is a discount code redeemable at checkout.
type Coupon struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	PercentOff  int       `json:"percentOff,omitempty"`
	AmountCents int64     `json:"amountCents,omitempty"`
	ExpiresAt   time.Time `json:"expiresAt,omitzero"`
	Redeemed    int       `json:"redeemed"`
	MaxUses     int       `json:"maxUses,omitempty"`
}

// CouponCreateRequest contains the fields to create a coupon. Exactly one
// of PercentOff or AmountCents must be set.
type CouponCreateRequest struct {
	Code        string    `json:"code"`
	PercentOff  int       `json:"percentOff,omitempty"`
	AmountCents int64     `json:"amountCents,omitempty"`
	ExpiresAt   time.Time `json:"expiresAt,omitzero"`
	MaxUses     int       `json:"maxUses,omitempty"`
}

func (r CouponCreateRequest) validate() error {
	if strings.TrimSpace(r.Code) == "" {
		return fmt.Errorf("code required")
	}
	hasPercent := r.PercentOff > 0
	hasAmount := r.AmountCents > 0
	if hasPercent == hasAmount {
		return fmt.Errorf("provide exactly one of percentOff or amountCents")
	}
	if r.PercentOff > 100 {
		return fmt.Errorf("percentOff must be at most 100")
	}
	return nil
}

type couponListResponse struct {
	Coupons []Coupon `json:"coupons"`
}

type couponResponse struct {
	Coupon Coupon `json:"coupon"`
}

// CouponsClient provides methods to manage discount codes.
type CouponsClient struct {
	client *Client
}

// List returns all coupons.
func (c *CouponsClient) List(ctx context.Context) ([]Coupon, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("storekeep: coupons client not initialized")
	}
	req, err := c.client.newJSONRequest(ctx, http.MethodGet, routes.Coupons, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.send(req)
	if err != nil {
		return nil, err
	}
	var payload couponListResponse
	if err := decodeInto(resp, &payload); err != nil {
		return nil, err
	}
	return payload.Coupons, nil
}

// Create registers a new coupon code.
func (c *CouponsClient) Create(ctx context.Context, req CouponCreateRequest) (Coupon, error) {
	if c == nil || c.client == nil {
		return Coupon{}, fmt.Errorf("storekeep: coupons client not initialized")
	}
	if err := req.validate(); err != nil {
		return Coupon{}, fmt.Errorf("storekeep: %w", err)
	}
	httpReq, err := c.client.newJSONRequest(ctx, http.MethodPost, routes.Coupons, req)
	if err != nil {
		return Coupon{}, err
	}
	resp, err := c.client.send(httpReq)
	if err != nil {
		return Coupon{}, err
	}
	var payload couponResponse
	if err := decodeInto(resp, &payload); err != nil {
		return Coupon{}, err
	}
	return payload.Coupon, nil
}

// Delete retires a coupon code.
func (c *CouponsClient) Delete(ctx context.Context, couponID string) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("storekeep: coupons client not initialized")
	}
	if strings.TrimSpace(couponID) == "" {
		return fmt.Errorf("storekeep: coupon id required")
	}
	req, err := c.client.newJSONRequest(ctx, http.MethodDelete, routes.Coupons+"/"+url.PathEscape(couponID), nil)
	if err != nil {
		return err
	}
	resp, err := c.client.send(req)
	if err != nil {
		return err
	}
	return decodeInto(resp, nil)
}
