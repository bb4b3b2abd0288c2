// Package catalogapi provides a client for the commerce catalog listing. It
// uses the same resilient pagination strategy as the content client; only the
// payload shape differs.
package catalogapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/seosync/internal/common"
	"github.com/ternarybob/seosync/internal/httpclient"
	"github.com/ternarybob/seosync/internal/models"
)

const (
	// DefaultPerPage is the page size requested from the catalog.
	DefaultPerPage = 100

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 10
)

// Client fetches product entries from the commerce catalog.
type Client struct {
	origins    []string
	username   string
	password   string
	perPage    int
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithOrigins overrides the resolved origin list.
func WithOrigins(origins []string) ClientOption {
	return func(c *Client) {
		c.origins = origins
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a catalog client. The catalog shares the content system's
// origins and credentials; only the page size comes from the catalog config.
func NewClient(contentCfg *common.ContentConfig, catalogCfg *common.CatalogConfig, opts ...ClientOption) *Client {
	perPage := catalogCfg.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	timeout := contentCfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	rateLimit := contentCfg.RateLimit
	if rateLimit <= 0 {
		rateLimit = DefaultRateLimit
	}

	c := &Client{
		origins:    common.ResolveOrigins(contentCfg.Origin),
		username:   contentCfg.Username,
		password:   contentCfg.Password,
		perPage:    perPage,
		httpClient: httpclient.NewDefaultHTTPClient(timeout),
		limiter:    rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchProducts retrieves every entry from the catalog listing. An empty
// array and a 400/404 both terminate pagination normally.
func (c *Client) FetchProducts(ctx context.Context) ([]models.CatalogEntry, error) {
	var entries []models.CatalogEntry

	for page := 1; ; page++ {
		pageEntries, done, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}

		entries = append(entries, pageEntries...)

		if done || len(pageEntries) == 0 {
			break
		}
	}

	if c.logger != nil {
		c.logger.Info().
			Int("count", len(entries)).
			Msg("Fetched catalog entries")
	}

	return entries, nil
}

func (c *Client) fetchPage(ctx context.Context, page int) ([]models.CatalogEntry, bool, error) {
	params := url.Values{}
	params.Set("page", fmt.Sprintf("%d", page))
	params.Set("per_page", fmt.Sprintf("%d", c.perPage))

	var lastErr error
	for _, origin := range c.origins {
		endpoint := fmt.Sprintf("%s/catalog/products", origin)
		body, status, err := c.get(ctx, endpoint, params)
		if err != nil {
			lastErr = err
			if c.logger != nil {
				c.logger.Warn().
					Str("origin", origin).
					Int("page", page).
					Err(err).
					Msg("Catalog origin failed, trying next")
			}
			continue
		}

		if httpclient.IsTerminalStatus(status) {
			return nil, true, nil
		}

		if status < 200 || status > 299 {
			lastErr = &httpclient.APIError{StatusCode: status, Message: fmt.Sprintf("unexpected status %d", status), Endpoint: endpoint}
			continue
		}

		var pageEntries []models.CatalogEntry
		if err := json.Unmarshal(body, &pageEntries); err != nil {
			lastErr = fmt.Errorf("failed to parse catalog response from %s: %w", endpoint, err)
			continue
		}

		return pageEntries, false, nil
	}

	return nil, false, fmt.Errorf("all origins failed for catalog page %d: %w", page, lastErr)
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("rate limiter interrupted: %w", err)
	}

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, resp.StatusCode, nil
}
