package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// DefaultBaseURL is where the practice service listens when run locally.
const DefaultBaseURL = "http://localhost:8000"

// DefaultCacheTTL bounds how long read-mostly listings are reused.
const DefaultCacheTTL = 30 * time.Second

// maxBodySize caps response bodies. Scenario records are the largest payloads.
const maxBodySize = 8 << 20

// Service is the subset of the remote API the exercise flow depends on.
type Service interface {
	StartSession(ctx context.Context) (*StartResponse, error)
	GetDocument(ctx context.Context, sessionID string, n int) (*Document, error)
	GetData(ctx context.Context, sessionID string) (*DataArtifact, error)
	SubmitNotes(ctx context.Context, sessionID string, req SubmitRequest) (*SubmitResponse, error)
	ReviewSession(ctx context.Context, sessionID string) (*ReviewResponse, error)
	ReviewChecklist(ctx context.Context, sessionID string, docNum int, rows []ChecklistRow) (*ChecklistResponse, error)
}

// QuickService is the subset of the remote API used by quick practice.
type QuickService interface {
	QuickStart(ctx context.Context, mode string) (*QuickStartResponse, error)
	QuickSubmit(ctx context.Context, sessionID string, req QuickSubmitRequest) (*QuickFeedback, error)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every request. Zero means no client-side limit.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithCacheTTL sets how long ListSessions and GetSettings results are reused.
func WithCacheTTL(d time.Duration) Option {
	return func(c *Client) { c.cacheTTL = d }
}

// Client talks JSON over HTTP to the practice service.
type Client struct {
	baseURL  string
	http     *http.Client
	timeout  time.Duration
	logger   *zap.Logger
	cacheTTL time.Duration
	cache    *cache.Cache
}

var (
	_ Service      = (*Client)(nil)
	_ QuickService = (*Client)(nil)
)

// New creates a Client for the service at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{},
		logger:   zap.NewNop(),
		cacheTTL: DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cache = cache.New(c.cacheTTL, 2*c.cacheTTL)
	return c, nil
}

// BaseURL returns the service root this client targets.
func (c *Client) BaseURL() string { return c.baseURL }

// do sends one request and returns the raw 2xx body. Non-2xx responses
// become *Error; transport failures become *ErrUnavailable.
func (c *Client) do(ctx context.Context, method, path string, in any) (json.RawMessage, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err),
		)
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, &ErrUnavailable{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &ErrUnavailable{Endpoint: path, Err: fmt.Errorf("read body: %w", err)}
	}

	c.logger.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newError(resp.StatusCode, raw)
	}
	return raw, nil
}

// call performs a request and decodes the body into out.
func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	raw, err := c.do(ctx, method, path, in)
	if err != nil {
		return err
	}
	return decode(path, raw, out)
}

// callValidated is call with a schema check before decoding.
func (c *Client) callValidated(ctx context.Context, method, path, schemaName string, def map[string]any, in, out any) error {
	raw, err := c.do(ctx, method, path, in)
	if err != nil {
		return err
	}
	if err := validatePayload(path, schemaName, def, raw); err != nil {
		return err
	}
	return decode(path, raw, out)
}

func decode(path string, raw json.RawMessage, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ErrInvalidResponse{Endpoint: path, Body: raw, Err: err}
	}
	return nil
}

func sessionPath(sessionID string, parts ...string) string {
	p := "/api/session/" + url.PathEscape(sessionID)
	for _, part := range parts {
		p += "/" + part
	}
	return p
}
