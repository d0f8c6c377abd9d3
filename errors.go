package storekeep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
)

// Sentinel errors surfaced by the session layer.
var (
	// ErrMalformedLogin means the login call succeeded at the transport
	// level but the response was missing a required token. Nothing is
	// persisted in that case.
	ErrMalformedLogin = errors.New("storekeep: login response missing access or refresh token")

	// ErrSessionExpired means the refresh exchange itself failed; the
	// credential set has been cleared and the user must log in again.
	ErrSessionExpired = errors.New("storekeep: session expired")

	// ErrLoginRequired is returned by the route guard for protected paths
	// when no session is present.
	ErrLoginRequired = errors.New("storekeep: login required")

	// ErrAdminRequired is returned by the route guard for admin paths when
	// the session lacks the admin role.
	ErrAdminRequired = errors.New("storekeep: admin role required")
)

// Well-known API error codes.
const (
	// CodeAccountLocked marks a 403 carrying the administrative lock flag.
	// It is not an auth failure: credentials stay intact and no refresh or
	// logout is attempted.
	CodeAccountLocked = "ACCOUNT_LOCKED"
)

// APIError captures structured admin API error metadata.
type APIError struct {
	Status    int
	Code      string
	Message   string
	RequestID string
}

// Error implements the error interface.
func (e APIError) Error() string {
	if e.Code == "" {
		e.Code = "UNKNOWN"
	}
	if e.Message == "" {
		e.Message = fmt.Sprintf("%s (%d)", e.Code, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsUnauthorized reports whether err is an API 401.
func IsUnauthorized(err error) bool {
	var apiErr APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsForbidden reports whether err is an API 403 without the lock marker.
func IsForbidden(err error) bool {
	var apiErr APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusForbidden && apiErr.Code != CodeAccountLocked
}

// IsAccountLocked reports whether err is the administrative-lock response.
func IsAccountLocked(err error) bool {
	var apiErr APIError
	return errors.As(err, &apiErr) && apiErr.Code == CodeAccountLocked
}

// TransportErrorKind classifies low-level request failures.
type TransportErrorKind string

const (
	TransportErrorTimeout TransportErrorKind = "timeout"
	TransportErrorNetwork TransportErrorKind = "network"
)

// TransportError wraps network-level failures. Timeouts fail the call like
// any other transport error and never trigger the refresh path; only a 401
// status does.
type TransportError struct {
	Kind    TransportErrorKind
	Message string
	Cause   error
}

func (e TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("storekeep: %s: %v", e.Message, e.Cause)
	}
	return "storekeep: " + e.Message
}

func (e TransportError) Unwrap() error { return e.Cause }

// ConfigError reports invalid client construction input.
type ConfigError struct {
	Reason string
}

func (e ConfigError) Error() string {
	return "storekeep: invalid config: " + e.Reason
}

func classifyTransportErrorKind(err error) TransportErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return TransportErrorTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return TransportErrorTimeout
	}
	return TransportErrorNetwork
}

// apiErrorPayload is the admin API error envelope. The accountLocked flag
// rides alongside the envelope on administrative-lock responses.
type apiErrorPayload struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Status  int    `json:"status"`
	} `json:"error"`
	AccountLocked bool   `json:"accountLocked"`
	RequestID     string `json:"requestId"`
}

func decodeAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)
	apiErr := APIError{Status: resp.StatusCode}
	if len(data) == 0 {
		apiErr.Message = resp.Status
		return apiErr
	}
	var payload apiErrorPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		apiErr.Message = string(data)
		return apiErr
	}
	apiErr.Code = payload.Error.Code
	apiErr.Message = payload.Error.Message
	if payload.Error.Status != 0 {
		apiErr.Status = payload.Error.Status
	}
	apiErr.RequestID = payload.RequestID
	if payload.AccountLocked || apiErr.Code == CodeAccountLocked {
		apiErr.Code = CodeAccountLocked
	}
	if apiErr.Message == "" {
		apiErr.Message = resp.Status
	}
	return apiErr
}

// isLockedError reports whether the decoded error is the lock marker on a 403.
func isLockedError(err error) bool {
	var apiErr APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusForbidden && apiErr.Code == CodeAccountLocked
}
