// Package providerhttp is the shared outbound HTTP path for third-party data
// providers: rate limiting, circuit breaking, request coalescing, retries and
// JSON decoding.
package providerhttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/playscout/internal/platform/logging"
	"github.com/riskibarqy/playscout/internal/platform/resilience"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const maxResponseBytes = 6 << 20

var (
	// ErrTransient marks failures worth retrying and counting against the breaker.
	ErrTransient = crerr.New("provider transient failure")
	// ErrUnavailable is returned without a request while the breaker is open.
	ErrUnavailable = crerr.New("provider unavailable")
	// ErrDecode marks a 2xx body that is not the expected JSON.
	ErrDecode = crerr.New("provider payload malformed")
)

// StatusError is a non-retryable HTTP status from the provider.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider status=%d body=%s", e.Code, e.Body)
}

// IsStatus reports whether err carries the given provider status code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Code == code
}

type Config struct {
	Name           string
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
	Headers        map[string]string
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	RateLimit      resilience.RateLimitConfig
	// SecretParams are query parameters masked in logs and errors.
	SecretParams []string
	// Secrets are literal values masked in logs and errors.
	Secrets []string
}

type Client struct {
	name           string
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	retryDelay     time.Duration
	headers        map[string]string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	limiter        *rate.Limiter
	flight         singleflight.Group
	secretParams   []string
	secrets        []string
	requests       metric.Int64Counter
}

func New(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = "provider"
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = time.Second
	}

	breaker := resilience.NewCircuitBreaker(name, cfg.CircuitBreaker, func(breakerName string, from, to resilience.CircuitState) {
		logger.Warn("provider circuit breaker transition", "provider", breakerName, "from", from, "to", to)
	})

	requests, err := otel.Meter("playscout/providerhttp").Int64Counter(
		"provider.requests",
		metric.WithDescription("Outbound provider requests by outcome."),
	)
	if err != nil {
		logger.Warn("create provider request counter failed", "provider", name, "error", err)
	}

	return &Client{
		name:           name,
		httpClient:     httpClient,
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		maxRetries:     max(cfg.MaxRetries, 0),
		retryDelay:     retryDelay,
		headers:        cfg.Headers,
		logger:         logger,
		breaker:        breaker,
		circuitEnabled: cfg.CircuitBreaker.Enabled,
		limiter:        resilience.NewLimiter(cfg.RateLimit),
		secretParams:   cfg.SecretParams,
		secrets:        nonEmpty(cfg.Secrets),
		requests:       requests,
	}
}

func (c *Client) Name() string {
	return c.name
}

func (c *Client) BreakerState() resilience.CircuitState {
	return c.breaker.State()
}

// GetJSON fetches path with query and decodes the body into target. Identical
// concurrent requests share a single upstream call.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, target any) error {
	fullURL := c.buildURL(path, query)
	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		return c.guarded(ctx, http.MethodGet, fullURL, nil)
	})
	if err != nil {
		return err
	}
	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	return c.decode(raw, target)
}

// SendJSON issues a non-idempotent request with an already encoded body. A nil
// target discards the response.
func (c *Client) SendJSON(ctx context.Context, method, path string, query url.Values, body []byte, target any) error {
	raw, err := c.guarded(ctx, method, c.buildURL(path, query), body)
	if err != nil {
		return err
	}
	if target == nil {
		return nil
	}
	return c.decode(raw, target)
}

func (c *Client) guarded(ctx context.Context, method, fullURL string, body []byte) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "provider circuit breaker rejected request", "provider", c.name, "state", c.breaker.State())
			c.count(ctx, "rejected")
			return nil, fmt.Errorf("%w: %s is temporarily unavailable: %w", ErrUnavailable, c.name, err)
		}
	}

	raw, err := c.executeRequest(ctx, method, fullURL, body)
	if c.circuitEnabled {
		c.breaker.Record(err, isCircuitFailure)
	}
	if err != nil {
		c.count(ctx, "failure")
		return nil, err
	}
	c.count(ctx, "success")
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, method, fullURL string, body []byte) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := resilience.Wait(ctx, c.limiter); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %w", ErrTransient, err)
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		if body != nil {
			req.Header.Set("content-type", "application/json")
		}
		for key, value := range c.headers {
			req.Header.Set(key, value)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", ErrTransient, c.sanitize(err.Error()))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", ErrTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: %w", ErrTransient, &StatusError{Code: resp.StatusCode, Body: abbreviateBody(raw)})
			default:
				return nil, &StatusError{Code: resp.StatusCode, Body: c.sanitize(abbreviateBody(raw))}
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("%w: provider request failed", ErrTransient)
	}
	c.logger.WarnContext(ctx, "provider request failed", "provider", c.name, "url", c.redactURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func (c *Client) decode(raw []byte, target any) error {
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: decode %s payload: %v", ErrDecode, c.name, err)
	}
	return nil
}

func (c *Client) buildURL(path string, query url.Values) string {
	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}
	return fullURL
}

func (c *Client) count(ctx context.Context, outcome string) {
	if c.requests == nil {
		return
	}
	c.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", c.name),
		attribute.String("outcome", outcome),
	))
}

func (c *Client) sanitize(value string) string {
	value = strings.TrimSpace(value)
	for _, secret := range c.secrets {
		value = strings.ReplaceAll(value, secret, "REDACTED")
	}
	return value
}

func (c *Client) redactURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return c.sanitize(rawURL)
	}
	query := parsed.Query()
	for _, param := range c.secretParams {
		if query.Has(param) {
			query.Set(param, "REDACTED")
		}
	}
	parsed.RawQuery = query.Encode()
	return c.sanitize(parsed.String())
}

func isCircuitFailure(err error) bool {
	return errors.Is(err, ErrTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}
