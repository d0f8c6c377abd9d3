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

// Campaign is a marketing campaign summary.
type Campaign struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Banner   string    `json:"banner,omitempty"`
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
	Active   bool      `json:"active"`
}

type campaignListResponse struct {
	Campaigns []Campaign `json:"campaigns"`
}

type campaignResponse struct {
	Campaign Campaign `json:"campaign"`
}

// CampaignsClient provides methods to inspect marketing campaigns.
type CampaignsClient struct {
	client *Client
}

// List returns all campaigns.
func (c *CampaignsClient) List(ctx context.Context) ([]Campaign, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("storekeep: campaigns client not initialized")
	}
	req, err := c.client.newJSONRequest(ctx, http.MethodGet, routes.Campaigns, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.send(req)
	if err != nil {
		return nil, err
	}
	var payload campaignListResponse
	if err := decodeInto(resp, &payload); err != nil {
		return nil, err
	}
	return payload.Campaigns, nil
}

// Get retrieves a campaign by ID.
func (c *CampaignsClient) Get(ctx context.Context, campaignID string) (Campaign, error) {
	if c == nil || c.client == nil {
		return Campaign{}, fmt.Errorf("storekeep: campaigns client not initialized")
	}
	if strings.TrimSpace(campaignID) == "" {
		return Campaign{}, fmt.Errorf("storekeep: campaign id required")
	}
	req, err := c.client.newJSONRequest(ctx, http.MethodGet, routes.Campaigns+"/"+url.PathEscape(campaignID), nil)
	if err != nil {
		return Campaign{}, err
	}
	resp, err := c.client.send(req)
	if err != nil {
		return Campaign{}, err
	}
	var payload campaignResponse
	if err := decodeInto(resp, &payload); err != nil {
		return Campaign{}, err
	}
	return payload.Campaign, nil
}
