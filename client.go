// Package storekeep provides the Storekeep admin API client for Go.
//
// The client owns the session lifecycle the admin dashboard depends on:
// bearer attachment, transparent access-token refresh with at-most-one
// retry per call, and the account-lock signal. Business endpoints are thin
// consumers of that pipeline.
package storekeep

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/storekeep/storekeep-go/auth"
	"github.com/storekeep/storekeep-go/credstore"
	"github.com/storekeep/storekeep-go/headers"
	"github.com/storekeep/storekeep-go/locksignal"
)

const defaultBaseURL = "https://api.storekeep.dev/admin/v1"
const defaultUserAgent = "storekeep-go/" + Version
const defaultRequestTimeout = 30 * time.Second

// Config wires the base URL, credential store, and observability for the
// admin client. BaseURL is read once at construction.
type Config struct {
	BaseURL        string
	Store          credstore.Store
	HTTPClient     *http.Client
	Logger         *zerolog.Logger
	Telemetry      TelemetryHooks
	UserAgent      string
	RequestTimeout time.Duration
}

// Client provides high-level helpers for interacting with the Storekeep admin API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      credstore.Store
	logger     zerolog.Logger
	telemetry  TelemetryHooks
	userAgent  string
	refresher  *refresher

	// Session owns login/logout and the derived identity.
	Session *Session
	// Locks is the process-wide account-lock signal.
	Locks *locksignal.Signal

	// Grouped service clients.
	Products  *ProductsClient
	Orders    *OrdersClient
	Returns   *ReturnsClient
	Coupons   *CouponsClient
	Campaigns *CampaignsClient
	Reviews   *ReviewsClient
	Tickets   *TicketsClient
	Shop      *ShopClient
}

// NewClient validates the configuration and returns a ready-to-use Client.
func NewClient(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	normalized, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	store := cfg.Store
	if store == nil {
		store = credstore.NewMemory()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	authClient, err := auth.NewClient(auth.Config{
		BaseURL:    normalized,
		HTTPClient: httpClient,
		UserAgent:  ua,
	})
	if err != nil {
		return nil, ConfigError{Reason: err.Error()}
	}

	client := &Client{
		baseURL:    normalized,
		httpClient: httpClient,
		store:      store,
		logger:     logger,
		telemetry:  cfg.Telemetry,
		userAgent:  ua,
		Locks:      &locksignal.Signal{},
	}
	client.Session = newSession(authClient, store, logger, client.Locks)
	client.refresher = &refresher{
		auth:      authClient,
		store:     store,
		logger:    logger,
		telemetry: cfg.Telemetry,
		observer:  client.Session,
	}
	client.Products = &ProductsClient{client: client}
	client.Orders = &OrdersClient{client: client}
	client.Returns = &ReturnsClient{client: client}
	client.Coupons = &CouponsClient{client: client}
	client.Campaigns = &CampaignsClient{client: client}
	client.Reviews = &ReviewsClient{client: client}
	client.Tickets = &TicketsClient{client: client}
	client.Shop = &ShopClient{client: client}
	return client, nil
}

// Close releases the session's lock subscription. Needed in tests and
// long-lived processes that create more than one client.
func (c *Client) Close() {
	c.Session.Close()
}

func normalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ConfigError{Reason: "base URL required"}
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", ConfigError{Reason: fmt.Sprintf("invalid base URL: %v", err)}
	}
	if u.Scheme == "" {
		return "", ConfigError{Reason: "base URL missing scheme (http/https)"}
	}
	if u.Host == "" {
		return "", ConfigError{Reason: "base URL missing host"}
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return strings.TrimSuffix(u.String(), "/"), nil
}

func (c *Client) newJSONRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if req.Header.Get(headers.RequestID) == "" {
		req.Header.Set(headers.RequestID, uuid.NewString())
	}
	injectTraceparent(ctx, req)
	return req, nil
}

func (c *Client) prepare(req *http.Request) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set(headers.Client, defaultUserAgent)
	if token := loadCredential(c.store).AccessToken; token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// send runs the request through the session pipeline: attach the bearer
// token if one is stored, and on a 401 run one coordinated refresh and
// resend the same request exactly once. A 401 on the resend is returned
// as-is; the caller never observes the intermediate refresh.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	c.prepare(req)
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && c.refresher.canRefresh() {
		drain(resp)
		token, rerr := c.refresher.refresh(req.Context())
		if rerr != nil {
			return nil, rerr
		}
		retry, cerr := cloneRequest(req)
		if cerr != nil {
			return nil, cerr
		}
		retry.Header.Set("Authorization", "Bearer "+token)
		c.logger.Debug().Str("path", req.URL.Path).Msg("resending request with refreshed token")
		resp, err = c.do(retry)
		if err != nil {
			return nil, err
		}
	}

	if resp.StatusCode >= 400 {
		//nolint:errcheck // best-effort cleanup on return
		defer func() { _ = resp.Body.Close() }()
		return nil, c.apiError(resp)
	}
	return resp, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.telemetry.OnHTTPRequest != nil {
		c.telemetry.OnHTTPRequest(req.Context(), req)
	}
	c.logger.Debug().Str("method", req.Method).Str("url", req.URL.String()).Msg("http request")
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.telemetry.OnHTTPResponse != nil {
		c.telemetry.OnHTTPResponse(req.Context(), req, resp, err, time.Since(start))
	}
	c.telemetry.metric(req.Context(), "admin_http_request_latency_ms", float64(time.Since(start).Milliseconds()), map[string]string{
		"path": req.URL.Path,
	})
	if err != nil {
		return nil, TransportError{
			Kind:    classifyTransportErrorKind(err),
			Message: "request failed",
			Cause:   err,
		}
	}
	return resp, nil
}

// apiError decodes the error body and publishes the account-lock signal
// when the server reports an administrative lock. Locked responses leave
// credentials untouched; the caller still gets the error so its own
// handling fires.
func (c *Client) apiError(resp *http.Response) error {
	err := decodeAPIError(resp)
	if isLockedError(err) {
		c.logger.Warn().Msg("account administratively locked")
		c.Locks.Notify()
	}
	return err
}

func (c *Client) buildURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// decodeInto drains and decodes a successful response body.
func decodeInto(resp *http.Response, out any) error {
	//nolint:errcheck // best-effort cleanup on return
	defer func() { _ = resp.Body.Close() }()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// cloneRequest duplicates a request for the single post-refresh resend,
// replaying the buffered body. Requests built by newJSONRequest always
// carry a replayable GetBody.
func cloneRequest(req *http.Request) (*http.Request, error) {
	retry := req.Clone(req.Context())
	if req.GetBody == nil {
		return retry, nil
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, errors.Join(errors.New("storekeep: cannot replay request body"), err)
	}
	retry.Body = body
	return retry, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
