package allsports

import (
	"context"
	"net/url"
	"strings"

	"github.com/riskibarqy/playscout/internal/domain/team"
)

func (c *Client) SearchTeams(ctx context.Context, name string) ([]team.Team, error) {
	params := url.Values{}
	params.Set("teamName", strings.TrimSpace(name))

	var env envelope[teamItem]
	if err := c.get(ctx, "Teams", params, &env); err != nil {
		return nil, lookupError("search allsports teams", err)
	}
	// The provider answers an unknown name with success=0.
	if !env.ok() {
		return nil, nil
	}

	out := make([]team.Team, 0, len(env.Result))
	for _, item := range env.Result {
		t := mapTeam(item)
		if t.Validate() != nil {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (c *Client) GetTeam(ctx context.Context, teamID string) (team.Profile, bool, error) {
	params := url.Values{}
	params.Set("teamId", strings.TrimSpace(teamID))

	var env envelope[teamItem]
	if err := c.get(ctx, "Teams", params, &env); err != nil {
		return team.Profile{}, false, lookupError("get allsports team", err)
	}
	if !env.ok() || len(env.Result) == 0 {
		return team.Profile{}, false, nil
	}

	item := env.Result[0]
	profile := team.Profile{
		Team:    mapTeam(item),
		Players: make([]team.Player, 0, len(item.Players)),
		Coaches: make([]team.Coach, 0, len(item.Coaches)),
	}
	for _, p := range item.Players {
		profile.Players = append(profile.Players, team.Player{
			ID:       p.PlayerKey.String(),
			Name:     strings.TrimSpace(p.PlayerName),
			Number:   p.PlayerNumber.String(),
			Position: strings.TrimSpace(p.PlayerType),
			Age:      p.PlayerAge.String(),
		})
	}
	for _, coach := range item.Coaches {
		profile.Coaches = append(profile.Coaches, team.Coach{
			Name:    strings.TrimSpace(coach.CoachName),
			Country: strings.TrimSpace(coach.CoachCountry),
			Age:     coach.CoachAge.String(),
		})
	}
	return profile, true, nil
}

func mapTeam(item teamItem) team.Team {
	return team.Team{
		ID:      strings.TrimSpace(item.TeamKey.String()),
		Name:    strings.TrimSpace(item.TeamName),
		LogoURL: strings.TrimSpace(item.TeamLogo),
	}
}
