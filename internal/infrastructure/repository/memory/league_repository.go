package memory

import (
	"context"
	"slices"

	"github.com/riskibarqy/playscout/internal/domain/league"
)

// LeagueRepository serves a fixed league list. It is immutable after
// construction, so reads need no locking.
type LeagueRepository struct {
	leagues []league.League
	index   map[string]int
}

// NewLeagueRepository keeps the first position of each id, takes the last
// record seen for it and skips invalid entries.
func NewLeagueRepository(leagues []league.League) *LeagueRepository {
	repo := &LeagueRepository{index: make(map[string]int, len(leagues))}
	for _, l := range leagues {
		if l.Validate() != nil {
			continue
		}
		if pos, dup := repo.index[l.ID]; dup {
			repo.leagues[pos] = l
			continue
		}
		repo.index[l.ID] = len(repo.leagues)
		repo.leagues = append(repo.leagues, l)
	}
	return repo
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	return slices.Clone(r.leagues), nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	pos, ok := r.index[leagueID]
	if !ok {
		return league.League{}, false, nil
	}
	return r.leagues[pos], true, nil
}
