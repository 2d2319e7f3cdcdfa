// Package apifootball is the api-football (API-Sports) fixtures client.
package apifootball

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/riskibarqy/playscout/internal/domain/fixture"
	"github.com/riskibarqy/playscout/internal/platform/logging"
	"github.com/riskibarqy/playscout/internal/platform/providerhttp"
	"github.com/riskibarqy/playscout/internal/platform/resilience"
	"github.com/riskibarqy/playscout/internal/usecase"
)

const (
	defaultBaseURL  = "https://v3.football.api-sports.io"
	defaultTimezone = "America/Sao_Paulo"
	apiKeyHeader    = "x-apisports-key"
	sourceName      = "apifootball"
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timezone       string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	RateLimit      resilience.RateLimitConfig
}

type Client struct {
	http     *providerhttp.Client
	timezone string
}

func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timezone := strings.TrimSpace(cfg.Timezone)
	if timezone == "" {
		timezone = defaultTimezone
	}
	apiKey := strings.TrimSpace(cfg.APIKey)

	return &Client{
		http: providerhttp.New(providerhttp.Config{
			Name:           sourceName,
			HTTPClient:     cfg.HTTPClient,
			BaseURL:        baseURL,
			Timeout:        cfg.Timeout,
			MaxRetries:     cfg.MaxRetries,
			Headers:        map[string]string{apiKeyHeader: apiKey},
			Logger:         cfg.Logger,
			CircuitBreaker: cfg.CircuitBreaker,
			RateLimit:      cfg.RateLimit,
			Secrets:        []string{apiKey},
		}),
		timezone: timezone,
	}
}

func (c *Client) Name() string {
	return sourceName
}

type fixturesEnvelope struct {
	Response []fixture.SchemaB `json:"response"`
	Errors   any               `json:"errors"`
}

// FetchFixtures returns the raw schema B fixtures of one calendar day.
func (c *Client) FetchFixtures(ctx context.Context, date string) ([]fixture.ProviderFixture, error) {
	query := url.Values{}
	query.Set("date", strings.TrimSpace(date))
	query.Set("timezone", c.timezone)

	var env fixturesEnvelope
	if err := c.http.GetJSON(ctx, "/fixtures", query, &env); err != nil {
		switch {
		case errors.Is(err, providerhttp.ErrDecode):
			return nil, fmt.Errorf("fetch apifootball fixtures: %w: %w", fixture.ErrMalformedResponse, err)
		case errors.Is(err, providerhttp.ErrUnavailable):
			return nil, fmt.Errorf("fetch apifootball fixtures: %w: %w: %w", fixture.ErrNetwork, usecase.ErrDependencyUnavailable, err)
		default:
			return nil, fmt.Errorf("fetch apifootball fixtures: %w: %w", fixture.ErrNetwork, err)
		}
	}
	// api-football reports quota and key problems in "errors" with a 200 status.
	if env.Response == nil && hasErrors(env.Errors) {
		return nil, fmt.Errorf("fetch apifootball fixtures: %w: provider errors %v", fixture.ErrMalformedResponse, env.Errors)
	}

	out := make([]fixture.ProviderFixture, 0, len(env.Response))
	for _, item := range env.Response {
		out = append(out, item)
	}
	return out, nil
}

func hasErrors(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}
