package contentapi

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
	// DefaultPerPage is the page size requested from the content system.
	DefaultPerPage = 100

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 10

	// requestFields restricts responses to the fields the pipeline consumes,
	// bounding payload size.
	requestFields = "link,slug,title,excerpt,metadata"
)

// Client fetches content items from the content-authoring system, trying each
// resolved origin in order per page.
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

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewClient creates a content system client from configuration.
func NewClient(cfg *common.ContentConfig, opts ...ClientOption) *Client {
	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	rateLimit := cfg.RateLimit
	if rateLimit <= 0 {
		rateLimit = DefaultRateLimit
	}

	c := &Client{
		origins:    common.ResolveOrigins(cfg.Origin),
		username:   cfg.Username,
		password:   cfg.Password,
		perPage:    perPage,
		httpClient: httpclient.NewDefaultHTTPClient(timeout),
		limiter:    rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchCategory retrieves every item of one content category, paging until
// the system answers with an empty array or a terminal status. A page for
// which all origins fail aborts the fetch.
func (c *Client) FetchCategory(ctx context.Context, category string) ([]models.ContentItem, error) {
	var items []models.ContentItem

	for page := 1; ; page++ {
		pageItems, done, err := c.fetchPage(ctx, category, page)
		if err != nil {
			return nil, err
		}

		items = append(items, pageItems...)

		if done || len(pageItems) == 0 {
			break
		}
	}

	if c.logger != nil {
		c.logger.Info().
			Str("category", category).
			Int("count", len(items)).
			Msg("Fetched content items")
	}

	return items, nil
}

// fetchPage attempts each origin in order for one page. The done result is
// true when the listing is exhausted (terminal status or trailing page).
func (c *Client) fetchPage(ctx context.Context, category string, page int) ([]models.ContentItem, bool, error) {
	params := url.Values{}
	params.Set("page", fmt.Sprintf("%d", page))
	params.Set("per_page", fmt.Sprintf("%d", c.perPage))
	params.Set("fields", requestFields)

	var lastErr error
	for _, origin := range c.origins {
		endpoint := fmt.Sprintf("%s/content/%s", origin, category)
		body, status, err := c.get(ctx, endpoint, params)
		if err != nil {
			lastErr = err
			if c.logger != nil {
				c.logger.Warn().
					Str("origin", origin).
					Str("category", category).
					Int("page", page).
					Err(err).
					Msg("Origin failed, trying next")
			}
			continue
		}

		// 400/404 from any origin means the listing does not go this far;
		// the whole fetch stops, not just this origin.
		if httpclient.IsTerminalStatus(status) {
			return nil, true, nil
		}

		if status < 200 || status > 299 {
			lastErr = &httpclient.APIError{StatusCode: status, Message: truncateBody(body), Endpoint: endpoint}
			continue
		}

		var pageItems []models.ContentItem
		if err := json.Unmarshal(body, &pageItems); err != nil {
			lastErr = fmt.Errorf("failed to parse response from %s: %w", endpoint, err)
			continue
		}

		return pageItems, false, nil
	}

	return nil, false, fmt.Errorf("all origins failed for category %s page %d: %w", category, page, lastErr)
}

// get performs a rate-limited GET request and returns the raw body and status.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("rate limiter interrupted: %w", err)
	}

	reqURL := endpoint
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", endpoint, params.Encode())
	}

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

func truncateBody(body []byte) string {
	const max = 256
	if len(body) > max {
		return string(body[:max])
	}
	return string(body)
}
