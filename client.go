package licensegate

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// maxResponseBody caps how much of a response is read for
// classification and diagnostics.
const maxResponseBody = 1 << 20

// Client issues validate and activate calls against a license server.
// Each public call performs exactly one synchronous round trip; there
// is no retry, no background work, and no shared mutable state, so a
// Client is safe for concurrent use.
type Client struct {
	cfg       Config
	baseURL   *url.URL
	transport *http.Client
	generator *Generator
	logger    *slog.Logger
	metrics   *clientMetrics
	tracer    trace.Tracer
}

// Option customizes a Client at construction.
type Option func(*Client)

// WithLogger sets the structured logger used for round-trip logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithHTTPClient replaces the underlying HTTP client. The caller owns
// its timeout and TLS settings.
func WithHTTPClient(transport *http.Client) Option {
	return func(c *Client) { c.transport = transport }
}

// WithGenerator replaces the machine identity generator.
func WithGenerator(generator *Generator) Option {
	return func(c *Client) { c.generator = generator }
}

// NewClient validates cfg's server URL once and returns a ready
// Client. The URL gate runs here, not per call: a Client that exists
// can always build requests.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	baseURL, err := parseServerURL(cfg.ServerURL)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	transport := &http.Client{Timeout: timeout}
	if cfg.SkipSSLVerify {
		transport.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	c := &Client{
		cfg:       cfg,
		baseURL:   baseURL,
		transport: transport,
		generator: NewGenerator(),
		logger:    slog.Default(),
		tracer:    defaultTracer(),
	}
	for _, opt := range opts {
		opt(c)
	}

	metrics, err := newClientMetrics(defaultMeter())
	if err != nil {
		c.logger.Warn("license client metrics unavailable",
			slog.String("error", err.Error()),
		)
	} else {
		c.metrics = metrics
	}

	return c, nil
}

// ValidateLicense checks key against the license server. Machine id
// and fingerprint ride along as query parameters only when a machine
// id is supplied; the fingerprint is derived from the identity
// generator when the caller gave an id without one.
//
// Business outcomes (expired, not found, rate limited, activation
// failure) come back as a Result with Valid=false; only configuration
// and transport failures are returned as errors.
func (c *Client) ValidateLicense(ctx context.Context, key, machineID, fingerprint string) (*Result, error) {
	query := url.Values{}
	if machineID != "" {
		if fingerprint == "" {
			fingerprint = c.generator.Fingerprint(ctx)
		}
		query.Set("machine_id", machineID)
		query.Set("machine_fingerprint", fingerprint)
	}
	endpoint := fmt.Sprintf("/api/license/%s/validate", url.PathEscape(key))
	return c.roundTrip(ctx, "validate", http.MethodGet, endpoint, query, nil)
}

// ActivateLicense binds key to the given machine id, consuming one
// activation seat. The machine id is mandatory.
func (c *Client) ActivateLicense(ctx context.Context, key, machineID, fingerprint string) (*Result, error) {
	if machineID == "" {
		return nil, newMachineError("machine id is required for activation")
	}
	if fingerprint == "" {
		fingerprint = c.generator.Fingerprint(ctx)
	}
	body := map[string]string{
		"machine_id":          machineID,
		"machine_fingerprint": fingerprint,
	}
	endpoint := fmt.Sprintf("/api/license/%s/activate", url.PathEscape(key))
	return c.roundTrip(ctx, "activate", http.MethodPost, endpoint, nil, body)
}

// roundTrip is the single request/response pipeline shared by both
// operations: build, send, classify, fold.
func (c *Client) roundTrip(ctx context.Context, operation, method, endpoint string, query url.Values, body any) (*Result, error) {
	ctx, span := c.startSpan(ctx, operation)
	c.metrics.recordAttempt(ctx, operation)
	start := time.Now()

	status, respBody, header, err := c.send(ctx, method, endpoint, query, body)
	if err != nil {
		netErr := newNetworkError("request failed", 0, "", err)
		c.metrics.recordOutcome(ctx, operation, time.Since(start), netErr)
		endSpan(span, netErr)
		c.logger.ErrorContext(ctx, "license request failed",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
			slog.Duration("duration", time.Since(start)),
		)
		return nil, netErr
	}

	payload, clsErr := classify(status, respBody, header)
	c.metrics.recordOutcome(ctx, operation, time.Since(start), clsErr)
	endSpan(span, clsErr)

	if clsErr != nil {
		c.logger.WarnContext(ctx, "license request rejected",
			slog.String("operation", operation),
			slog.Int("status", status),
			slog.String("error_kind", clsErr.Kind.String()),
			slog.String("error_code", clsErr.Code),
			slog.Duration("duration", time.Since(start)),
		)
		if clsErr.business() {
			return resultFromError(clsErr), nil
		}
		return nil, clsErr
	}

	result := newResult(payload)
	c.logger.InfoContext(ctx, "license request completed",
		slog.String("operation", operation),
		slog.Int("status", status),
		slog.Bool("valid", result.Valid),
		slog.Duration("duration", time.Since(start)),
	)
	return result, nil
}

// send performs the one HTTP round trip and returns the raw response.
func (c *Client) send(ctx context.Context, method, endpoint string, query url.Values, body any) (int, []byte, http.Header, error) {
	target := *c.baseURL
	target.Path = joinPath(target.Path, endpoint)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, nil, nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.transport.Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, respBody, resp.Header, nil
}

func joinPath(base, endpoint string) string {
	if base == "" || base == "/" {
		return endpoint
	}
	if base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	return base + endpoint
}
