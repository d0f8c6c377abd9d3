// Package headers defines HTTP header constants used by the Storekeep admin API.
// This is the single source of truth for header names used in API requests/responses.
package headers

const (
	// RequestID is the header for request correlation across retries.
	// The pipeline reuses the same id when it resends a request after a
	// token refresh so the server sees one logical call.
	RequestID = "X-Request-Id"

	// Client identifies the SDK build to the API for diagnostics.
	Client = "X-Storekeep-Client"
)
