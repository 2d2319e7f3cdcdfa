package team

import (
	"context"

	"github.com/riskibarqy/playscout/internal/domain/fixture"
)

// Provider describes the team lookups the sports data provider serves.
type Provider interface {
	SearchTeams(ctx context.Context, name string) ([]Team, error)
	GetTeam(ctx context.Context, teamID string) (Profile, bool, error)
	FetchTeamFixtures(ctx context.Context, teamID string) ([]fixture.ProviderFixture, error)
}
