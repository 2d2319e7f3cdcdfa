package memory

import "github.com/riskibarqy/playscout/internal/domain/league"

// League ids as known by AllSportsAPI.
const (
	LeagueIDBrasileiraoSerieA = "99"
	LeagueIDPremierLeague     = "152"
	LeagueIDLaLiga            = "97"
	LeagueIDSerieA            = "207"
	LeagueIDBundesliga        = "175"
)

// SeedLeagues is the curated list of leagues the standings screen offers.
func SeedLeagues() []league.League {
	return []league.League{
		{ID: LeagueIDBrasileiraoSerieA, Name: "Brasileirão Série A", Country: "Brazil"},
		{ID: LeagueIDPremierLeague, Name: "Premier League", Country: "England"},
		{ID: LeagueIDLaLiga, Name: "La Liga", Country: "Spain"},
		{ID: LeagueIDSerieA, Name: "Serie A", Country: "Italy"},
		{ID: LeagueIDBundesliga, Name: "Bundesliga", Country: "Germany"},
	}
}
