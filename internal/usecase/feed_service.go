package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/playscout/internal/domain/fixture"
	"github.com/riskibarqy/playscout/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/language"
)

const feedDateLayout = "2006-01-02"

// FeedFetcher returns the normalized fixtures of one calendar day.
type FeedFetcher interface {
	FetchFeed(ctx context.Context, date string) ([]fixture.Fixture, error)
}

type FeedServiceConfig struct {
	Sources        []fixture.Source
	SchemaAOffset  string
	Location       *time.Location
	Priority       []string
	Disambiguation map[string]string
	Language       language.Tag
	Logger         *logging.Logger
	Now            func() time.Time
}

// FeedService fetches the day's fixtures from every configured provider and
// turns them into the grouped feed.
type FeedService struct {
	sources        []fixture.Source
	normalize      fixture.NormalizeOptions
	priority       []string
	disambiguation map[string]string
	language       language.Tag
	logger         *logging.Logger
	now            func() time.Time
}

func NewFeedService(cfg FeedServiceConfig) *FeedService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	location := cfg.Location
	if location == nil {
		location = time.UTC
	}
	disambiguation := cfg.Disambiguation
	if disambiguation == nil {
		disambiguation = fixture.DefaultDisambiguation
	}

	return &FeedService{
		sources: cfg.Sources,
		normalize: fixture.NormalizeOptions{
			SchemaAOffset: cfg.SchemaAOffset,
			Location:      location,
			Now:           now,
		},
		priority:       cfg.Priority,
		disambiguation: disambiguation,
		language:       cfg.Language,
		logger:         logger,
		now:            now,
	}
}

// ValidateFeedDate rejects a feed day that is not in YYYY-MM-DD form.
func ValidateFeedDate(date string) error {
	if _, err := time.Parse(feedDateLayout, date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	return nil
}

// Today is the feed date for the current instant in the presentation timezone.
func (s *FeedService) Today() string {
	return s.now().In(s.normalize.Location).Format(feedDateLayout)
}

// FetchFeed queries all sources concurrently and merges their fixtures. A
// partial failure is logged; the call fails only when every source fails.
func (s *FeedService) FetchFeed(ctx context.Context, date string) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedService.FetchFeed")
	defer span.End()

	date = strings.TrimSpace(date)
	if date == "" {
		date = s.Today()
	}
	if err := ValidateFeedDate(date); err != nil {
		return nil, err
	}
	if len(s.sources) == 0 {
		return nil, fmt.Errorf("%w: no fixture source configured", ErrDependencyUnavailable)
	}
	span.SetAttributes(attribute.String("feed.date", date), attribute.Int("feed.sources", len(s.sources)))

	fixtures, err := s.fetchAll(ctx, date)
	if err != nil {
		return nil, spanError(span, err)
	}
	return fixtures, nil
}

type sourceResult struct {
	raws []fixture.ProviderFixture
	err  error
}

// fetchAll normalizes each source on its own. With more than one source the
// ids are qualified by source name, since provider id spaces overlap.
func (s *FeedService) fetchAll(ctx context.Context, date string) ([]fixture.Fixture, error) {
	if len(s.sources) == 1 {
		raws, err := s.sources[0].FetchFixtures(ctx, date)
		if err != nil {
			return nil, err
		}
		return fixture.NormalizeBatch(raws, s.normalize), nil
	}

	results := make([]sourceResult, len(s.sources))
	pool, err := ants.NewPool(len(s.sources))
	if err != nil {
		return nil, fmt.Errorf("create feed worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for i, source := range s.sources {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			raws, fetchErr := source.FetchFixtures(ctx, date)
			results[i] = sourceResult{raws: raws, err: fetchErr}
		}); err != nil {
			workers.Done()
			results[i] = sourceResult{err: fmt.Errorf("submit fetch %s: %w", source.Name(), err)}
		}
	}
	workers.Wait()

	merged := make([]fixture.Fixture, 0, 64)
	errs := make([]error, 0, len(results))
	for i, result := range results {
		name := s.sources[i].Name()
		if result.err != nil {
			s.logger.WarnContext(ctx, "fixture source failed", "source", name, "date", date, "error", result.err)
			errs = append(errs, result.err)
			continue
		}
		batch := fixture.NormalizeBatch(result.raws, s.normalize)
		fixture.QualifyIDs(batch, name)
		merged = append(merged, batch...)
	}
	if len(errs) == len(results) {
		return nil, errors.Join(errs...)
	}
	fixture.SortByKickoff(merged)
	return merged, nil
}

// FeedView is the grouped, render-ready feed.
type FeedView struct {
	Now    time.Time
	Groups []fixture.Group
}

// View groups and ranks fixtures for display. search is applied only when it
// reaches fixture.MinSearchLength runes.
func (s *FeedService) View(fixtures []fixture.Fixture, search string, now time.Time) FeedView {
	if now.IsZero() {
		now = s.now()
	}
	return FeedView{
		Now: now,
		Groups: fixture.GroupAndRank(fixtures, fixture.GroupOptions{
			Search:         search,
			Priority:       s.priority,
			Disambiguation: s.disambiguation,
			Language:       s.language,
		}),
	}
}

// Location is the presentation timezone used for kickoff display.
func (s *FeedService) Location() *time.Location {
	return s.normalize.Location
}
