package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/playscout/internal/domain/fixture"
	"github.com/riskibarqy/playscout/internal/domain/team"
	"github.com/riskibarqy/playscout/internal/platform/cache"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

// TeamDetailFixtureLimit is how many fixtures the team page shows.
const TeamDetailFixtureLimit = 5

const favoriteLookupConcurrency = 4

type TeamService struct {
	provider  team.Provider
	normalize fixture.NormalizeOptions
	profiles  *cache.Store[team.Profile]
}

func NewTeamService(provider team.Provider, normalize fixture.NormalizeOptions, cacheTTL time.Duration) *TeamService {
	return &TeamService{
		provider:  provider,
		normalize: normalize,
		profiles:  cache.NewStore[team.Profile](cacheTTL),
	}
}

// SearchTeams looks teams up by name, keeping senior sides with distinct names.
func (s *TeamService) SearchTeams(ctx context.Context, name string) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.SearchTeams")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}

	teams, err := s.provider.SearchTeams(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("search teams: %w", err)
	}
	return team.FilterSearchResults(teams), nil
}

// GetTeamDetails loads the team profile and its fixtures concurrently.
func (s *TeamService) GetTeamDetails(ctx context.Context, teamID string) (team.Details, error) {
	teamID = strings.TrimSpace(teamID)
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GetTeamDetails", attribute.String("team.id", teamID))
	defer span.End()

	if teamID == "" {
		return team.Details{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	var (
		profile  team.Profile
		fixtures []fixture.Fixture
	)
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		item, err := s.getProfile(ctx, teamID)
		if err != nil {
			return err
		}
		profile = item
		return nil
	})
	p.Go(func(ctx context.Context) error {
		raws, err := s.provider.FetchTeamFixtures(ctx, teamID)
		if err != nil {
			return fmt.Errorf("fetch team fixtures: %w", err)
		}
		fixtures = firstFixtures(raws, s.normalize, TeamDetailFixtureLimit)
		return nil
	})
	if err := p.Wait(); err != nil {
		return team.Details{}, err
	}

	return team.Details{Profile: profile, Fixtures: fixtures}, nil
}

// GetTeams resolves several team ids, skipping ids the provider does not know.
// The result keeps the order of ids.
func (s *TeamService) GetTeams(ctx context.Context, ids []string) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GetTeams")
	defer span.End()

	found := make([]*team.Team, len(ids))
	p := pool.New().WithContext(ctx).WithMaxGoroutines(favoriteLookupConcurrency)
	for i, teamID := range ids {
		p.Go(func(ctx context.Context) error {
			profile, err := s.getProfile(ctx, teamID)
			if err != nil {
				if isNotFound(err) {
					return nil
				}
				return err
			}
			found[i] = &profile.Team
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	out := make([]team.Team, 0, len(ids))
	for _, item := range found {
		if item != nil {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *TeamService) getProfile(ctx context.Context, teamID string) (team.Profile, error) {
	return s.profiles.GetOrLoad(ctx, "team:"+teamID, func(ctx context.Context) (team.Profile, error) {
		profile, exists, err := s.provider.GetTeam(ctx, teamID)
		if err != nil {
			return team.Profile{}, fmt.Errorf("get team: %w", err)
		}
		if !exists {
			return team.Profile{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
		}
		return profile, nil
	})
}

// firstFixtures keeps provider order, dropping malformed and repeated records.
func firstFixtures(raws []fixture.ProviderFixture, opts fixture.NormalizeOptions, limit int) []fixture.Fixture {
	out := make([]fixture.Fixture, 0, limit)
	seen := make(map[string]struct{}, limit)
	for _, raw := range raws {
		if len(out) == limit {
			break
		}
		item, ok := fixture.Normalize(raw, opts)
		if !ok {
			continue
		}
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}
