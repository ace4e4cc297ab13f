package upstream

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/varscout/varscout/internal/cache"
	"github.com/varscout/varscout/internal/model"
	"github.com/varscout/varscout/internal/util"
	"github.com/varscout/varscout/internal/worker"
)

// sleepFunc is the backoff sleep used between retry attempts (injectable for tests)
var sleepFunc = time.Sleep

// Logf receives one line per request attempt. Logging never affects control flow.
type Logf func(format string, args ...interface{})

// Client is the resilient call primitive every upstream lookup goes through.
// A failed attempt (network error, non-2xx status, or a payload-level error
// marker) is retried with exponential backoff; the final attempt's error is
// returned unchanged so callers can distinguish failure kinds. The client is
// stateless across calls and safe for concurrent use.
type Client struct {
	httpClient  *http.Client
	userAgent   string
	maxBytes    int64
	maxAttempts int
	limiter     *worker.Limiter
	cache       cache.Cache
	cacheTTL    time.Duration
	logf        Logf
}

// NewClient builds a client from configuration. responses is optional; nil
// disables caching.
func NewClient(cfg *model.Config, responses cache.Cache) *Client {
	transport := &http.Transport{
		Proxy: util.NewProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy),
	}
	if cfg.HTTP.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.HTTP.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent:   cfg.HTTP.UserAgent,
		maxBytes:    cfg.HTTP.MaxBodyBytes,
		maxAttempts: cfg.Retry.MaxAttempts,
		limiter:     worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
		cache:       responses,
		cacheTTL:    cfg.Cache.TTL,
		logf:        func(string, ...interface{}) {},
	}
}

// SetLogf installs an attempt logger (verbose mode)
func (c *Client) SetLogf(logf Logf) {
	if logf != nil {
		c.logf = logf
	}
}

// GetJSON performs a GET with the default retry budget and decodes the
// response body into out.
func (c *Client) GetJSON(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	return c.GetJSONAttempts(ctx, endpoint, params, c.maxAttempts, out)
}

// GetJSONAttempts is GetJSON with an explicit retry budget. Attempts are
// numbered 0..maxAttempts inclusive; the sleep before retry n+1 is 2^n seconds.
func (c *Client) GetJSONAttempts(ctx context.Context, endpoint string, params url.Values, maxAttempts int, out interface{}) error {
	requestURL := endpoint
	if len(params) > 0 {
		requestURL = endpoint + "?" + params.Encode()
	}

	if c.cache != nil {
		if body, found := c.cache.Get(cache.Key(requestURL)); found {
			c.logf("cache hit: %s", requestURL)
			return json.Unmarshal(body, out)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= maxAttempts; attempt++ {
		body, err := c.getOnce(ctx, requestURL)
		if err == nil {
			if c.cache != nil {
				_ = c.cache.Set(cache.Key(requestURL), body, c.cacheTTL)
			}
			return json.Unmarshal(body, out)
		}

		lastErr = err
		c.logf("attempt %d/%d %s: %v", attempt, maxAttempts, requestURL, err)

		if attempt < maxAttempts {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			sleepFunc(backoff)
		}
	}

	// Surface the final attempt's error unchanged so callers can
	// distinguish failure kinds.
	return lastErr
}

// getOnce performs a single attempt and returns the body on success
func (c *Client) getOnce(ctx context.Context, requestURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx, requestURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	if msg, found := payloadError(body); found {
		return nil, fmt.Errorf("upstream error: %s", msg)
	}

	return body, nil
}

// payloadError detects the error marker some services return with a 200
// status (e.g. {"error": "..."} track responses)
func payloadError(body []byte) (string, bool) {
	var probe struct {
		Error interface{} `json:"error"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return "", false
	}
	switch v := probe.Error.(type) {
	case string:
		if v != "" {
			return v, true
		}
	case map[string]interface{}:
		return fmt.Sprintf("%v", v), true
	}
	return "", false
}
