// Package newsapi searches articles through the NewsAPI /v2/everything endpoint.
package newsapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/playscout/internal/domain/news"
	"github.com/riskibarqy/playscout/internal/platform/logging"
	"github.com/riskibarqy/playscout/internal/platform/providerhttp"
	"github.com/riskibarqy/playscout/internal/platform/resilience"
	"github.com/riskibarqy/playscout/internal/usecase"
)

const defaultBaseURL = "https://newsapi.org/v2"

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	RateLimit      resilience.RateLimitConfig
}

type Client struct {
	http   *providerhttp.Client
	apiKey string
}

func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	return &Client{
		http: providerhttp.New(providerhttp.Config{
			Name:           "newsapi",
			HTTPClient:     cfg.HTTPClient,
			BaseURL:        baseURL,
			Timeout:        cfg.Timeout,
			MaxRetries:     cfg.MaxRetries,
			Logger:         cfg.Logger,
			CircuitBreaker: cfg.CircuitBreaker,
			RateLimit:      cfg.RateLimit,
			SecretParams:   []string{"apiKey"},
			Secrets:        []string{apiKey},
		}),
		apiKey: apiKey,
	}
}

type articlesEnvelope struct {
	Status   string        `json:"status"`
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Articles []articleItem `json:"articles"`
}

type articleItem struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
}

func (c *Client) Search(ctx context.Context, q news.Query) ([]news.Article, error) {
	query := url.Values{}
	query.Set("q", q.Text)
	if q.Language != "" {
		query.Set("language", q.Language)
	}
	if q.SortBy != "" {
		query.Set("sortBy", q.SortBy)
	}
	if q.PageSize > 0 {
		query.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	query.Set("apiKey", c.apiKey)

	var env articlesEnvelope
	if err := c.http.GetJSON(ctx, "/everything", query, &env); err != nil {
		return nil, fmt.Errorf("search news q=%q: %w: %v", q.Text, usecase.ErrDependencyUnavailable, err)
	}
	if env.Status != "" && env.Status != "ok" {
		return nil, fmt.Errorf("search news q=%q: %w: %s %s", q.Text, usecase.ErrDependencyUnavailable, env.Code, env.Message)
	}

	out := make([]news.Article, 0, len(env.Articles))
	for _, item := range env.Articles {
		article := news.Article{
			Title:       strings.TrimSpace(item.Title),
			Description: strings.TrimSpace(item.Description),
			URL:         strings.TrimSpace(item.URL),
			ImageURL:    strings.TrimSpace(item.URLToImage),
			SourceName:  strings.TrimSpace(item.Source.Name),
		}
		if published, err := time.Parse(time.RFC3339, item.PublishedAt); err == nil {
			article.PublishedAt = &published
		}
		out = append(out, article)
	}
	return out, nil
}
