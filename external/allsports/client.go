// Package allsports is the AllSportsAPI football client (fixtures, teams and
// standings).
package allsports

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
	defaultBaseURL  = "https://apiv2.allsportsapi.com/football/"
	defaultTimezone = "America/Sao_Paulo"
	sourceName      = "allsports"
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
	apiKey   string
	timezone string
	logger   *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
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
			Logger:         logger,
			CircuitBreaker: cfg.CircuitBreaker,
			RateLimit:      cfg.RateLimit,
			SecretParams:   []string{"APIkey"},
			Secrets:        []string{apiKey},
		}),
		apiKey:   apiKey,
		timezone: timezone,
		logger:   logger,
	}
}

func (c *Client) Name() string {
	return sourceName
}

func (c *Client) get(ctx context.Context, method string, params url.Values, target any) error {
	query := url.Values{}
	for key, values := range params {
		query[key] = values
	}
	query.Set("met", method)
	query.Set("APIkey", c.apiKey)
	return c.http.GetJSON(ctx, "/", query, target)
}

// feedError maps a transport failure onto the fixture feed taxonomy.
func feedError(op string, err error) error {
	switch {
	case errors.Is(err, providerhttp.ErrDecode):
		return fmt.Errorf("%s: %w: %w", op, fixture.ErrMalformedResponse, err)
	case errors.Is(err, providerhttp.ErrUnavailable):
		return fmt.Errorf("%s: %w: %w: %w", op, fixture.ErrNetwork, usecase.ErrDependencyUnavailable, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, fixture.ErrNetwork, err)
	}
}

// lookupError maps a transport failure for team and standings lookups.
func lookupError(op string, err error) error {
	if providerhttp.IsStatus(err, http.StatusNotFound) {
		return fmt.Errorf("%s: %w", op, usecase.ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %v", op, usecase.ErrDependencyUnavailable, err)
}
