package bazaar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"bazaar-flipper/internal/metrics"
)

const (
	userAgent    = "bazaar-flipper/1.0 (github.com)"
	maxErrorBody = 512
)

// ErrUnsuccessful is returned when the bazaar answers 200 with success=false.
var ErrUnsuccessful = errors.New("bazaar reported failure")

// Options configures a Client. Zero values fall back to the defaults noted on
// each field.
type Options struct {
	URL           string
	APIKey        string        // sent as the API-Key header when set
	Timeout       time.Duration // default 15s
	RatePerMinute int           // 0 = no pacing
	MaxConcurrent int           // default 4
	HTTPClient    *http.Client  // overrides Timeout when set
}

// Client is a rate-limited bazaar HTTP client.
type Client struct {
	http    *http.Client
	url     string
	apiKey  string
	sem     chan struct{}
	limiter *rate.Limiter
}

// NewClient creates a bazaar client.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 4
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	c := &Client{
		http:   hc,
		url:    opts.URL,
		apiKey: opts.APIKey,
		sem:    make(chan struct{}, opts.MaxConcurrent),
	}
	if opts.RatePerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RatePerMinute)), 1)
	}
	return c
}

// HealthCheck reports whether the bazaar endpoint answers 200.
func (c *Client) HealthCheck(ctx context.Context) bool {
	req, err := c.newRequest(ctx)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// FetchSnapshot downloads and decodes one bazaar snapshot.
func (c *Client) FetchSnapshot(ctx context.Context) (*Response, error) {
	start := time.Now()
	resp, err := c.fetch(ctx)
	metrics.SnapshotFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SnapshotFetchErrors.Inc()
		return nil, err
	}
	return resp, nil
}

func (c *Client) fetch(ctx context.Context) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("bazaar rate limit: %w", err)
		}
	}
	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-c.sem }()

	req, err := c.newRequest(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bazaar request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("bazaar %d: %s", resp.StatusCode, string(body))
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode bazaar snapshot: %w", err)
	}
	if !out.Success {
		cause := out.Cause
		if cause == "" {
			cause = "no cause given"
		}
		return nil, fmt.Errorf("%w: %s", ErrUnsuccessful, cause)
	}
	if out.Products == nil {
		out.Products = map[string]Product{}
	}
	return &out, nil
}

func (c *Client) newRequest(ctx context.Context) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("API-Key", c.apiKey)
	}
	return req, nil
}
