package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/playscout/internal/domain/league"
	"github.com/riskibarqy/playscout/internal/domain/leaguestanding"
	"github.com/riskibarqy/playscout/internal/platform/cache"
	"go.opentelemetry.io/otel/attribute"
)

type LeagueService struct {
	leagueRepo league.Repository
	standings  leaguestanding.Provider
	cache      *cache.Store[[]leaguestanding.Standing]
}

func NewLeagueService(leagueRepo league.Repository, standings leaguestanding.Provider, cacheTTL time.Duration) *LeagueService {
	return &LeagueService{
		leagueRepo: leagueRepo,
		standings:  standings,
		cache:      cache.NewStore[[]leaguestanding.Standing](cacheTTL),
	}
}

func (s *LeagueService) ListLeagues(ctx context.Context) ([]league.League, error) {
	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	return leagues, nil
}

// ListStandings returns the current table of one of the browsable leagues,
// ordered by position.
func (s *LeagueService) ListStandings(ctx context.Context, leagueID string) ([]leaguestanding.Standing, error) {
	leagueID = strings.TrimSpace(leagueID)
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListStandings", attribute.String("league.id", leagueID))
	defer span.End()

	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	_, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	items, err := s.cache.GetOrLoad(ctx, "standings:"+leagueID, func(ctx context.Context) ([]leaguestanding.Standing, error) {
		rows, err := s.standings.FetchStandings(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		leaguestanding.SortByPosition(rows)
		return rows, nil
	})
	if err != nil {
		return nil, spanError(span, fmt.Errorf("list league standings: %w", err))
	}

	return items, nil
}
