// Package feed is the client for the external alert service.
//
// It issues the live-batch and search requests and validates every record
// at the boundary. It never touches shared state: callers own
// reconciliation.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/abelbrown/resqwatch/internal/alert"
	"github.com/abelbrown/resqwatch/internal/logging"
)

const (
	livePath   = "/api/live-feed"
	searchPath = "/api/search"

	// maxBodyBytes bounds how much of a response body is read.
	maxBodyBytes = 10 << 20

	userAgent = "resqwatch/0.1"
)

// Client fetches alerts from the feed service.
// Safe for concurrent use.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter // spaces out search requests
	log     *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithSearchInterval sets the minimum spacing between search requests.
// Zero or negative disables throttling.
func WithSearchInterval(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithLogger sets the logger used for dropped-record warnings.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient creates a Client for the service at baseURL. The timeout
// applies to each request; an expired timeout surfaces as a FetchError.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("feed: invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("feed: base URL %q must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("feed: base URL %q has no host", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		log:     logging.WithPrefix("feed"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized service address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchLive requests the current live batch.
func (c *Client) FetchLive(ctx context.Context) ([]alert.Alert, error) {
	return c.get(ctx, OpLive, c.baseURL+livePath)
}

// Search requests the service's result set for query, as ranked by the
// service. The query is trimmed; an empty query is rejected without a
// network call.
func (c *Client) Search(ctx context.Context, query string) ([]alert.Alert, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &FetchError{Op: OpSearch, Err: ErrEmptyQuery}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{Op: OpSearch, Err: fmt.Errorf("rate limiter wait: %w", err)}
	}

	return c.get(ctx, OpSearch, c.baseURL+searchPath+"?q="+encodeQuery(query))
}

// encodeQuery percent-encodes a search term the way browsers'
// encodeURIComponent does (spaces as %20, not +).
func encodeQuery(q string) string {
	return strings.ReplaceAll(url.QueryEscape(q), "+", "%20")
}

// envelope is the service's response wrapper.
type envelope struct {
	Status  string            `json:"status"`
	Data    []json.RawMessage `json:"data"`
	Message string            `json:"message,omitempty"`
}

func (c *Client) get(ctx context.Context, op, endpoint string) ([]alert.Alert, error) {
	if ctx.Err() != nil {
		return nil, &FetchError{Op: op, Err: ctx.Err()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &FetchError{Op: op, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("HTTP %d: %s", resp.StatusCode, snippet(body))}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &FetchError{Op: op, Err: fmt.Errorf("parse response: %w", err)}
	}
	if env.Status != "success" {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("status %q", env.Status)
		}
		return nil, &FetchError{Op: op, Err: fmt.Errorf("%w: %s", ErrServiceStatus, msg)}
	}

	alerts := make([]alert.Alert, 0, len(env.Data))
	dropped := 0
	for _, raw := range env.Data {
		a, err := alert.Decode(raw)
		if err != nil {
			dropped++
			c.log.Warn("dropping malformed record", "op", op, "err", err)
			continue
		}
		alerts = append(alerts, a)
	}
	if dropped > 0 {
		c.log.Info("batch decoded with drops", "op", op, "kept", len(alerts), "dropped", dropped)
	}

	return alerts, nil
}

// snippet trims a response body for inclusion in an error message.
func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}

// IsFetchError reports whether err is (or wraps) a FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
