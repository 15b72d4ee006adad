package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"reddit-sentiment-lab/internal/observability"
)

// Default configuration values.
const (
	DefaultBaseURL   = "https://www.reddit.com"
	DefaultUserAgent = "Mozilla/5.0"
	DefaultTimeout   = 30 * time.Second
	DefaultPageLimit = 100
	DefaultSort      = "new"
)

// Page fetch errors. Both end the current crawl.
var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrMalformedPayload = errors.New("malformed listing payload")
)

// Client fetches listing and search pages. It never retries.
type Client struct {
	baseURL   string
	client    *http.Client
	userAgent string
	pageLimit int
	sort      string
	limiter   *rate.Limiter
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithPageLimit sets the page size query parameter.
func WithPageLimit(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.pageLimit = n
		}
	}
}

// WithSort sets the sort order used by search requests.
func WithSort(sort string) ClientOption {
	return func(c *Client) {
		c.sort = sort
	}
}

// WithRateLimit paces requests to rps with the given burst. rps <= 0 disables pacing.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient creates a new listing client for baseURL (scheme and host only).
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: DefaultTimeout},
		userAgent: DefaultUserAgent,
		pageLimit: DefaultPageLimit,
		sort:      DefaultSort,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Listing fetches one page of r/{subreddit}. after is the cursor of the previous page.
func (c *Client) Listing(ctx context.Context, subreddit, after string) (*Page, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(c.pageLimit))
	if after != "" {
		q.Set("after", after)
	}
	endpoint := fmt.Sprintf("%s/r/%s.json?%s", c.baseURL, url.PathEscape(subreddit), q.Encode())
	return c.fetch(ctx, subreddit, endpoint)
}

// Search fetches one page of a keyword search restricted to r/{subreddit}.
func (c *Client) Search(ctx context.Context, subreddit, query, after string) (*Page, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("restrict_sr", "1")
	q.Set("sort", c.sort)
	q.Set("limit", strconv.Itoa(c.pageLimit))
	if after != "" {
		q.Set("after", after)
	}
	endpoint := fmt.Sprintf("%s/r/%s/search.json?%s", c.baseURL, url.PathEscape(subreddit), q.Encode())
	return c.fetch(ctx, subreddit, endpoint)
}

// fetch performs one GET and decodes the listing envelope.
func (c *Client) fetch(ctx context.Context, subreddit, endpoint string) (*Page, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	start := time.Now()
	page, outcome, err := c.do(ctx, endpoint)
	observability.RecordPage(subreddit, outcome, time.Since(start).Seconds())
	return page, err
}

func (c *Client) do(ctx context.Context, endpoint string) (*Page, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, observability.PageTransport, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, observability.PageTransport, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, observability.PageTransport, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, observability.PageStatus, fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, resp.StatusCode, truncate(body, 200))
	}

	page, err := decodePage(body)
	if err != nil {
		return nil, observability.PageMalformed, err
	}
	return page, observability.PageOK, nil
}

// decodePage decodes a listing body. A payload without data.children is malformed.
func decodePage(body []byte) (*Page, error) {
	var lr listingResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if lr.Data == nil || lr.Data.Children == nil {
		return nil, fmt.Errorf("%w: missing data.children", ErrMalformedPayload)
	}

	page := &Page{Posts: make([]ListingPost, 0, len(lr.Data.Children))}
	for _, child := range lr.Data.Children {
		page.Posts = append(page.Posts, toListingPost(child.Data))
	}
	if lr.Data.After != nil {
		page.After = *lr.Data.After
	}
	return page, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
