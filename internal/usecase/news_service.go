package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/playscout/internal/domain/news"
	"github.com/riskibarqy/playscout/internal/platform/cache"
	"github.com/riskibarqy/playscout/internal/platform/logging"
	"github.com/riskibarqy/playscout/internal/platform/textnorm"
)

const (
	DefaultNewsQuery    = "futebol"
	defaultNewsLanguage = "pt"
	defaultNewsSort     = "publishedAt"
	defaultNewsPageSize = 20
)

type NewsServiceConfig struct {
	Provider news.Provider
	Filter   *news.RelevanceFilter
	CacheTTL time.Duration
	Language string
	PageSize int
	Logger   *logging.Logger
}

type NewsService struct {
	provider news.Provider
	filter   *news.RelevanceFilter
	cache    *cache.Store[[]news.Article]
	language string
	pageSize int
	logger   *logging.Logger
}

func NewNewsService(cfg NewsServiceConfig) *NewsService {
	filter := cfg.Filter
	if filter == nil {
		filter = news.NewRelevanceFilter(nil, nil, nil)
	}
	language := strings.TrimSpace(cfg.Language)
	if language == "" {
		language = defaultNewsLanguage
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultNewsPageSize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &NewsService{
		provider: cfg.Provider,
		filter:   filter,
		cache:    cache.NewStore[[]news.Article](cfg.CacheTTL),
		language: language,
		pageSize: pageSize,
		logger:   logger,
	}
}

// Search returns the football-relevant articles for text, defaulting to the
// general football query.
func (s *NewsService) Search(ctx context.Context, text string) ([]news.Article, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NewsService.Search")
	defer span.End()

	text = strings.TrimSpace(text)
	if text == "" {
		text = DefaultNewsQuery
	}

	key := "news:" + s.language + ":" + textnorm.Fold(text)
	articles, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) ([]news.Article, error) {
		raw, err := s.provider.Search(ctx, news.Query{
			Text:     text,
			Language: s.language,
			SortBy:   defaultNewsSort,
			PageSize: s.pageSize,
		})
		if err != nil {
			return nil, err
		}
		relevant := s.filter.Apply(raw)
		s.logger.DebugContext(ctx, "news filtered", "query", text, "fetched", len(raw), "kept", len(relevant))
		return relevant, nil
	})
	if err != nil {
		return nil, fmt.Errorf("search news: %w", err)
	}
	return articles, nil
}
