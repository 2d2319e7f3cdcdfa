package allsports

import (
	"context"
	"net/url"
	"strings"

	"github.com/riskibarqy/playscout/internal/domain/leaguestanding"
)

func (c *Client) FetchStandings(ctx context.Context, leagueID string) ([]leaguestanding.Standing, error) {
	leagueID = strings.TrimSpace(leagueID)
	params := url.Values{}
	params.Set("leagueId", leagueID)

	var env standingsEnvelope
	if err := c.get(ctx, "Standings", params, &env); err != nil {
		return nil, lookupError("fetch allsports standings", err)
	}
	if strings.TrimSpace(env.Success.String()) != "1" {
		return nil, nil
	}

	rows := make([]leaguestanding.Standing, 0, len(env.Result.Total))
	for _, item := range env.Result.Total {
		name := strings.TrimSpace(item.TeamName)
		if name == "" {
			name = strings.TrimSpace(item.TeamAlt)
		}
		rows = append(rows, leaguestanding.Standing{
			LeagueID:     leagueID,
			Position:     atoi(item.Place),
			TeamID:       strings.TrimSpace(item.TeamKey.String()),
			TeamName:     name,
			TeamLogoURL:  strings.TrimSpace(item.TeamLogo),
			Played:       atoi(item.Played),
			Won:          atoi(item.Won),
			Draw:         atoi(item.Draw),
			Lost:         atoi(item.Lost),
			GoalsFor:     atoi(item.For),
			GoalsAgainst: atoi(item.Against),
			Points:       atoi(item.Points),
		})
	}
	leaguestanding.SortByPosition(rows)
	return rows, nil
}
