package leaguestanding

import "context"

// Provider fetches the current table of a league from the sports data provider.
type Provider interface {
	FetchStandings(ctx context.Context, leagueID string) ([]Standing, error)
}
