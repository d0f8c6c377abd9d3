package storekeep

import (
	"context"
	"fmt"
	"net/http"

	"github.com/storekeep/storekeep-go/routes"
)

// ShopSettings is the shop-wide configuration document.
type ShopSettings struct {
	Name            string `json:"name"`
	SupportEmail    string `json:"supportEmail"`
	Currency        string `json:"currency"`
	MaintenanceMode bool   `json:"maintenanceMode"`
}

type shopSettingsResponse struct {
	Settings ShopSettings `json:"settings"`
}

// ShopClient provides methods to read and update shop settings.
type ShopClient struct {
	client *Client
}

// Settings retrieves the current shop configuration.
func (c *ShopClient) Settings(ctx context.Context) (ShopSettings, error) {
	if c == nil || c.client == nil {
		return ShopSettings{}, fmt.Errorf("storekeep: shop client not initialized")
	}
	req, err := c.client.newJSONRequest(ctx, http.MethodGet, routes.ShopSettings, nil)
	if err != nil {
		return ShopSettings{}, err
	}
	resp, err := c.client.send(req)
	if err != nil {
		return ShopSettings{}, err
	}
	var payload shopSettingsResponse
	if err := decodeInto(resp, &payload); err != nil {
		return ShopSettings{}, err
	}
	return payload.Settings, nil
}

// UpdateSettings replaces the shop configuration. Requires the admin role
// server-side.
func (c *ShopClient) UpdateSettings(ctx context.Context, settings ShopSettings) (ShopSettings, error) {
	if c == nil || c.client == nil {
		return ShopSettings{}, fmt.Errorf("storekeep: shop client not initialized")
	}
	req, err := c.client.newJSONRequest(ctx, http.MethodPut, routes.ShopSettings, settings)
	if err != nil {
		return ShopSettings{}, err
	}
	resp, err := c.client.send(req)
	if err != nil {
		return ShopSettings{}, err
	}
	var payload shopSettingsResponse
	if err := decodeInto(resp, &payload); err != nil {
		return ShopSettings{}, err
	}
	return payload.Settings, nil
}
