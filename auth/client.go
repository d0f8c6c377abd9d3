// Package auth provides the wire client for the Storekeep admin auth endpoints.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultUserAgent = "StorekeepSDK/1"

// Config controls how the auth client talks to the admin API.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
}

// Client issues login and refresh requests against the admin API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// Credentials encapsulates email/password inputs for login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the minimal identity summary the session layer needs. The admin
// API may return a richer object; extra fields are ignored.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Role    string `json:"role,omitempty"`
	IsAdmin bool   `json:"isAdmin,omitempty"`
}

// Admin reports whether the user carries admin privileges either via the
// explicit flag or the role field.
func (u User) Admin() bool {
	return u.IsAdmin || strings.EqualFold(u.Role, "admin")
}

// LoginResponse mirrors the POST /login response body.
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user,omitempty"`
}

// RefreshRequest wraps the token used during refresh.
type RefreshRequest struct {
	Token string `json:"token"`
}

// RefreshResponse mirrors the POST /refresh-token response body.
// The refresh token itself is not rotated by the admin API.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// Error conveys HTTP failures from the auth endpoints.
type Error struct {
	Status int
	Body   string
}

func (e Error) Error() string {
	return fmt.Sprintf("auth: http %d: %s", e.Status, strings.TrimSpace(e.Body))
}

// NewClient constructs a Client with sane defaults.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, errors.New("auth: base url required")
	}
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &Client{
		baseURL:    strings.TrimSuffix(base, "/"),
		httpClient: client,
		userAgent:  ua,
	}, nil
}

// Login exchanges admin credentials for an access/refresh token pair.
// The server contract requires both tokens; the session layer treats the
// absence of either as a hard failure and persists nothing.
func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResponse, error) {
	if strings.TrimSpace(creds.Email) == "" || strings.TrimSpace(creds.Password) == "" {
		return LoginResponse{}, errors.New("auth: email and password required")
	}
	var out LoginResponse
	if err := c.post(ctx, "/login", creds, &out); err != nil {
		return LoginResponse{}, err
	}
	return out, nil
}

// Refresh swaps a refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context, req RefreshRequest) (RefreshResponse, error) {
	if strings.TrimSpace(req.Token) == "" {
		return RefreshResponse{}, errors.New("auth: refresh token required")
	}
	var out RefreshResponse
	if err := c.post(ctx, "/refresh-token", req, &out); err != nil {
		return RefreshResponse{}, err
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	//nolint:errcheck // best-effort cleanup on return
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return Error{Status: resp.StatusCode, Body: string(body)}
	}
	return json.Unmarshal(body, out)
}
