package intelx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/osintforge/intelx-mcp/metrics"
	"github.com/osintforge/intelx-mcp/rategate"
)

// Config configures a Client.
type Config struct {
	// SearchRoot is the service root for search, phonebook and file
	// endpoints (default: https://2.intelx.io).
	SearchRoot string
	// IdentityRoot is the service root for identity and account-export
	// endpoints (default: https://3.intelx.io).
	IdentityRoot string
	// APIKey is the static credential attached to every call.
	APIKey string
	// Timeout for individual requests (default: 30s).
	Timeout time.Duration
	// UserAgent string (default: "intelx-mcp/1.0").
	UserAgent string
	// Gate spaces out calls per service root. A shared gate should be
	// passed in; a private one is created when nil.
	Gate *rategate.Gate
	// Logger defaults to zap.NewNop().
	Logger *zap.Logger
	// Metrics records upstream call counts and latency. Optional.
	Metrics *metrics.Metrics
	// Transport allows injecting a custom HTTP transport (for tests).
	Transport http.RoundTripper
}

// DefaultConfig returns a client config with sensible defaults. The API
// key must still be filled in.
func DefaultConfig() Config {
	return Config{
		SearchRoot:   "https://2.intelx.io",
		IdentityRoot: "https://3.intelx.io",
		Timeout:      30 * time.Second,
		UserAgent:    "intelx-mcp/1.0",
	}
}

// Client is a rate-gated Intelligence X API client.
type Client struct {
	cfg        Config
	httpClient *http.Client
	gate       *rategate.Gate
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewClient creates a new client with the given configuration.
func NewClient(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.SearchRoot == "" {
		cfg.SearchRoot = def.SearchRoot
	}
	if cfg.IdentityRoot == "" {
		cfg.IdentityRoot = def.IdentityRoot
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	gate := cfg.Gate
	if gate == nil {
		gate = rategate.New(rategate.DefaultInterval)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		gate:    gate,
		logger:  logger,
		metrics: cfg.Metrics,
	}
}

// SearchRoot returns the configured search service root.
func (c *Client) SearchRoot() string { return c.cfg.SearchRoot }

// IdentityRoot returns the configured identity service root.
func (c *Client) IdentityRoot() string { return c.cfg.IdentityRoot }

// do executes one upstream call: waits at the gate for root, sends the
// request with the x-key header attached, and returns the response body.
// Non-2xx responses come back as *StatusError.
func (c *Client) do(ctx context.Context, method, root, path string, query url.Values, body io.Reader) ([]byte, error) {
	if err := c.gate.Await(ctx, root); err != nil {
		return nil, fmt.Errorf("rate gate: %w", err)
	}

	fullURL := strings.TrimSuffix(root, "/") + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("x-key", c.cfg.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(path, "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	c.metrics.ObserveUpstream(path, strconv.Itoa(resp.StatusCode), elapsed.Seconds())
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	c.logger.Debug("upstream call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", elapsed),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			Endpoint:   path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}
	return data, nil
}

// getJSON performs a GET and decodes the JSON response into target.
func (c *Client) getJSON(ctx context.Context, root, path string, query url.Values, target any) error {
	data, err := c.do(ctx, http.MethodGet, root, path, query, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// postJSON performs a POST with a JSON body and decodes the JSON response.
func (c *Client) postJSON(ctx context.Context, root, path string, payload, target any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", path, err)
	}
	data, err := c.do(ctx, http.MethodPost, root, path, nil, bytes.NewReader(body))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// handleFromSubmit validates a submit response and wraps its id.
func handleFromSubmit(resp submitResponse, kind Kind) (Handle, error) {
	switch resp.Status {
	case submitStatusInvalidTerm:
		return Handle{}, ErrInvalidSearchTerm
	case submitStatusRejected:
		return Handle{}, ErrSubmitRejected
	}
	h := Handle{ID: resp.ID, Kind: kind}
	if !h.Valid() {
		return Handle{}, fmt.Errorf("%w: %q", ErrInvalidHandle, resp.ID)
	}
	return h, nil
}
