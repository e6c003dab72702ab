// Package api is the HTTP client for the user-account REST API.
//
// Every request carries the active UI locale as Accept-Language, read from
// the LocaleSource when the request is built.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"userhub-cli/internal/logging"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const maxResponseBytes = 4 << 20

// LocaleSource reports the locale to send. It is consulted per request.
type LocaleSource interface {
	Locale() string
}

type Client struct {
	baseURL string
	http    *http.Client
	locale  LocaleSource
	limiter *rate.Limiter
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRateLimit caps outbound requests per second. perSecond <= 0 disables it.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

func New(baseURL string, locale LocaleSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		locale:  locale,
		limiter: rate.NewLimiter(rate.Inf, 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// Do sends one request. body (if non-nil) is JSON-encoded; a 2xx response body
// is decoded into out (if non-nil). Any failure is returned as *Error.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &Error{Kind: KindNetwork, Err: err}
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", reqID)
	if c.locale != nil {
		if lang := strings.TrimSpace(c.locale.Locale()); lang != "" {
			req.Header.Set("Accept-Language", lang)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logging.Warningf("%s %s id=%s failed: %v", method, path, reqID, err)
		return &Error{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &Error{Kind: KindNetwork, Status: resp.StatusCode, Err: err}
	}
	logging.Debugf("%s %s id=%s status=%d dur=%s", method, path, reqID, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(bytes.TrimSpace(raw)) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return &Error{Kind: KindNetwork, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
		}
		return nil
	}
	return classify(resp.StatusCode, raw)
}

func classify(status int, raw []byte) *Error {
	var eb errorBody
	// Non-JSON error bodies (proxies, HTML pages) carry no usable message.
	_ = json.Unmarshal(raw, &eb)
	if status == http.StatusBadRequest && len(eb.ValidationErrors) > 0 {
		return &Error{Kind: KindValidation, Status: status, ValidationErrors: eb.ValidationErrors, Message: eb.Message}
	}
	return &Error{Kind: KindDomain, Status: status, Message: eb.Message}
}
