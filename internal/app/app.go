package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/playscout/external/allsports"
	"github.com/riskibarqy/playscout/external/apifootball"
	"github.com/riskibarqy/playscout/external/newsapi"
	"github.com/riskibarqy/playscout/external/userbackend"
	"github.com/riskibarqy/playscout/internal/config"
	"github.com/riskibarqy/playscout/internal/domain/fixture"
	"github.com/riskibarqy/playscout/internal/domain/user"
	"github.com/riskibarqy/playscout/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/playscout/internal/infrastructure/repository/postgres"
	redisstore "github.com/riskibarqy/playscout/internal/infrastructure/repository/redis"
	"github.com/riskibarqy/playscout/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/playscout/internal/platform/id"
	"github.com/riskibarqy/playscout/internal/platform/logging"
	"github.com/riskibarqy/playscout/internal/platform/textnorm"
	"github.com/riskibarqy/playscout/internal/usecase"
)

// Cleanup releases what NewHTTPServer opened.
type Cleanup func() error

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, Cleanup, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	location, err := time.LoadLocation(cfg.FeedTimezone)
	if err != nil {
		return nil, nil, fmt.Errorf("load feed timezone: %w", err)
	}

	allsportsClient := NewAllSportsClient(cfg, logger)
	feedSvc, err := NewFeedService(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	newsSvc := NewNewsService(cfg, logger)
	leagueSvc := usecase.NewLeagueService(memory.NewLeagueRepository(memory.SeedLeagues()), allsportsClient, cfg.CacheTTL)
	teamSvc := usecase.NewTeamService(allsportsClient, fixture.NormalizeOptions{
		SchemaAOffset: cfg.AllSportsUTCOffset,
		Location:      location,
	}, cfg.CacheTTL)

	var closers []func() error
	cleanup := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	users, closeUsers, err := newUserRepository(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, closeUsers)

	sessions, closeSessions, err := newSessionStore(cfg)
	if err != nil {
		_ = cleanup()
		return nil, nil, err
	}
	closers = append(closers, closeSessions)

	accountSvc := usecase.NewAccountService(usecase.AccountServiceConfig{
		Users:      users,
		Sessions:   sessions,
		Teams:      teamSvc,
		SessionIDs: idgen.NewUUIDGenerator(),
		UserTokens: idgen.NewRandomGenerator(),
		Logger:     logger.With("component", "accounts"),
	})

	streamCfg, err := FeedPollerConfig(cfg, location, logger)
	if err != nil {
		_ = cleanup()
		return nil, nil, err
	}

	handler := httpapi.NewHandler(httpapi.HandlerConfig{
		Feed:           feedSvc,
		News:           newsSvc,
		Leagues:        leagueSvc,
		Teams:          teamSvc,
		Accounts:       accountSvc,
		Stream:         streamCfg,
		ConnectionIDs:  idgen.NewUUIDGenerator(),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:         logger,
	})
	router := httpapi.NewRouter(handler, accountSvc, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, cleanup, nil
}

func NewAllSportsClient(cfg config.Config, logger *logging.Logger) *allsports.Client {
	return allsports.NewClient(allsports.ClientConfig{
		BaseURL:        cfg.AllSports.BaseURL,
		APIKey:         cfg.AllSports.APIKey,
		Timezone:       cfg.AllSportsTimezone,
		Timeout:        cfg.AllSports.Timeout,
		MaxRetries:     cfg.AllSports.MaxRetries,
		Logger:         logger,
		CircuitBreaker: cfg.AllSports.CircuitBreaker,
		RateLimit:      cfg.AllSports.RateLimit,
	})
}

// NewFeedService builds the feed over every provider named in FEED_PROVIDER.
func NewFeedService(cfg config.Config, logger *logging.Logger) (*usecase.FeedService, error) {
	location, err := time.LoadLocation(cfg.FeedTimezone)
	if err != nil {
		return nil, fmt.Errorf("load feed timezone: %w", err)
	}

	sources := make([]fixture.Source, 0, len(cfg.FeedProviders))
	for _, provider := range cfg.FeedProviders {
		switch provider {
		case config.ProviderAllSports:
			sources = append(sources, NewAllSportsClient(cfg, logger))
		case config.ProviderAPIFootball:
			sources = append(sources, apifootball.NewClient(apifootball.ClientConfig{
				BaseURL:        cfg.APIFootball.BaseURL,
				APIKey:         cfg.APIFootball.APIKey,
				Timezone:       cfg.FeedTimezone,
				Timeout:        cfg.APIFootball.Timeout,
				MaxRetries:     cfg.APIFootball.MaxRetries,
				Logger:         logger,
				CircuitBreaker: cfg.APIFootball.CircuitBreaker,
				RateLimit:      cfg.APIFootball.RateLimit,
			}))
		default:
			return nil, fmt.Errorf("unsupported feed provider %q", provider)
		}
	}

	return usecase.NewFeedService(usecase.FeedServiceConfig{
		Sources:       sources,
		SchemaAOffset: cfg.AllSportsUTCOffset,
		Location:      location,
		Priority:      cfg.FeedPriority,
		Language:      textnorm.ParseLanguage(cfg.FeedLanguage),
		Logger:        logger.With("component", "feed"),
	}), nil
}

func NewNewsService(cfg config.Config, logger *logging.Logger) *usecase.NewsService {
	client := newsapi.NewClient(newsapi.ClientConfig{
		BaseURL:        cfg.NewsAPI.BaseURL,
		APIKey:         cfg.NewsAPI.APIKey,
		Timeout:        cfg.NewsAPI.Timeout,
		MaxRetries:     cfg.NewsAPI.MaxRetries,
		Logger:         logger,
		CircuitBreaker: cfg.NewsAPI.CircuitBreaker,
		RateLimit:      cfg.NewsAPI.RateLimit,
	})
	return usecase.NewNewsService(usecase.NewsServiceConfig{
		Provider: client,
		CacheTTL: cfg.CacheTTL,
		Language: cfg.NewsLanguage,
		PageSize: cfg.NewsPageSize,
		Logger:   logger.With("component", "news"),
	})
}

// FeedPollerConfig maps the FEED_* knobs onto a poller template.
func FeedPollerConfig(cfg config.Config, location *time.Location, logger *logging.Logger) (usecase.FeedPollerConfig, error) {
	mode, err := usecase.ParsePollMode(cfg.FeedPollMode)
	if err != nil {
		return usecase.FeedPollerConfig{}, err
	}
	return usecase.FeedPollerConfig{
		Mode:          mode,
		Interval:      cfg.FeedPollInterval,
		ClockInterval: cfg.FeedClockInterval,
		KickoffGrace:  cfg.FeedKickoffGrace,
		RetryInitial:  cfg.FeedRetryInitial,
		FetchTimeout:  cfg.FeedFetchTimeout,
		Location:      location,
		Logger:        logger.With("component", "poller"),
	}, nil
}

func newUserRepository(cfg config.Config, logger *logging.Logger) (user.Repository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.UserStore {
	case config.UserStoreREST:
		return userbackend.NewClient(userbackend.ClientConfig{
			BaseURL:        cfg.UserBackend.BaseURL,
			Timeout:        cfg.UserBackend.Timeout,
			MaxRetries:     cfg.UserBackend.MaxRetries,
			Logger:         logger,
			CircuitBreaker: cfg.UserBackend.CircuitBreaker,
		}), noop, nil
	case config.UserStorePostgres:
		db, err := openDB(cfg.DBURL)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewUserRepository(db), db.Close, nil
	default:
		return memory.NewUserRepository(), noop, nil
	}
}

func newSessionStore(cfg config.Config) (user.SessionStore, func() error, error) {
	if cfg.SessionStore != config.SessionStoreRedis {
		return memory.NewSessionStore(cfg.SessionTTL), func() error { return nil }, nil
	}

	client, err := redisstore.NewClient(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	return redisstore.NewSessionStore(client, cfg.SessionTTL, cfg.SessionKeyPrefix), client.Close, nil
}
