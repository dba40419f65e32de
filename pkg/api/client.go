package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"companion/pkg/logger"
	"companion/pkg/telemetry"
)

// Client talks to the assistant backend. All methods take a context and
// return typed errors; no method retries on failure — the caller re-triggers
// manually.
type Client struct {
	base  string
	httpc *http.Client
	lim   *limiterPool
}

// Options tunes the client. Zero values pick the defaults used by the CLI.
type Options struct {
	Timeout time.Duration
	RPS     float64
	Burst   int
}

// New returns a client bound to baseURL.
func New(baseURL string, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	return &Client{
		base:  strings.TrimRight(baseURL, "/"),
		httpc: &http.Client{Timeout: opts.Timeout},
		lim:   newLimiterPool(opts.RPS, opts.Burst),
	}
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string { return c.base }

// FetchError describes a failed backend request: transport errors carry Err,
// HTTP-level failures carry Status and the decoded {error} message when the
// backend provided one.
type FetchError struct {
	Endpoint string
	Status   int
	Message  string
	Err      error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("fetch %s: status %d: %s", e.Endpoint, e.Status, e.Message)
	}
	return fmt.Sprintf("fetch %s: status %d", e.Endpoint, e.Status)
}

func (e *FetchError) Unwrap() error { return e.Err }

// do performs one request. class selects the rate limiter bucket; out, when
// non-nil, receives the decoded JSON response body.
func (c *Client) do(ctx context.Context, class, method, path string, q url.Values, body, out any) error {
	if err := c.lim.wait(ctx, class); err != nil {
		return &FetchError{Endpoint: path, Err: err}
	}
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &FetchError{Endpoint: path, Err: err}
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return &FetchError{Endpoint: path, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		telemetry.FetchErrors.WithLabelValues(path).Inc()
		return &FetchError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		telemetry.FetchErrors.WithLabelValues(path).Inc()
		fe := &FetchError{Endpoint: path, Status: resp.StatusCode}
		var eb struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&eb) == nil {
			fe.Message = eb.Error
		}
		logger.Warn("request_failed", "endpoint", path, "status", resp.StatusCode, "message", fe.Message)
		return fe
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		telemetry.FetchErrors.WithLabelValues(path).Inc()
		return &FetchError{Endpoint: path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
