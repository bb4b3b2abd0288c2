// Package httpclient holds the HTTP plumbing shared by the content and
// catalog API clients.
package httpclient

import (
	"fmt"
	"net/http"
	"time"
)

// NewDefaultHTTPClient creates a simple HTTP client with a timeout
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}

// APIError represents a non-2xx response from an upstream API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// IsTerminalStatus reports whether a status code signals the end of a
// paginated listing rather than a failure. The upstream systems answer 400 or
// 404 when a page past the last one is requested, or when the endpoint does
// not exist for a category at all.
func IsTerminalStatus(code int) bool {
	return code == http.StatusBadRequest || code == http.StatusNotFound
}
