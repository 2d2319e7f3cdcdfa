package httpapi

import (
	"time"

	"github.com/riskibarqy/playscout/internal/domain/fixture"
	"github.com/riskibarqy/playscout/internal/domain/league"
	"github.com/riskibarqy/playscout/internal/domain/leaguestanding"
	"github.com/riskibarqy/playscout/internal/domain/news"
	"github.com/riskibarqy/playscout/internal/domain/team"
	"github.com/riskibarqy/playscout/internal/domain/user"
	"github.com/riskibarqy/playscout/internal/usecase"
)

type teamRefDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logo_url,omitempty"`
}

type competitionDTO struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
}

type scoreDTO struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type matchEventDTO struct {
	Kind   string  `json:"kind"`
	Minute *string `json:"minute"`
	Side   string  `json:"side"`
	Player string  `json:"player"`
}

type fixtureDTO struct {
	ID            string          `json:"id"`
	Kickoff       string          `json:"kickoff"`
	HomeTeam      teamRefDTO      `json:"home_team"`
	AwayTeam      teamRefDTO      `json:"away_team"`
	Competition   competitionDTO  `json:"competition"`
	Round         string          `json:"round,omitempty"`
	StatusKind    string          `json:"status_kind"`
	DisplayStatus string          `json:"display_status"`
	IsLive        bool            `json:"is_live"`
	Score         scoreDTO        `json:"score"`
	DisplayScore  string          `json:"display_score"`
	Elapsed       *int            `json:"elapsed"`
	Events        []matchEventDTO `json:"events"`
}

type fixtureGroupDTO struct {
	Key         string         `json:"key"`
	Competition competitionDTO `json:"competition"`
	HasLive     bool           `json:"has_live"`
	Fixtures    []fixtureDTO   `json:"fixtures"`
}

type feedDTO struct {
	Date   string            `json:"date"`
	Now    string            `json:"now"`
	Groups []fixtureGroupDTO `json:"groups"`
}

type newsArticleDTO struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	ImageURL    string  `json:"image_url,omitempty"`
	Source      string  `json:"source"`
	PublishedAt *string `json:"published_at"`
}

type leagueDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	LogoURL string `json:"logo_url,omitempty"`
}

type standingDTO struct {
	Position       int    `json:"position"`
	TeamID         string `json:"team_id"`
	TeamName       string `json:"team_name"`
	TeamLogoURL    string `json:"team_logo_url,omitempty"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Draw           int    `json:"draw"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
	Points         int    `json:"points"`
}

type playerDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Number   string `json:"number,omitempty"`
	Position string `json:"position,omitempty"`
	Age      string `json:"age,omitempty"`
}

type coachDTO struct {
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
	Age     string `json:"age,omitempty"`
}

type teamDetailsDTO struct {
	Team     teamRefDTO   `json:"team"`
	Players  []playerDTO  `json:"players"`
	Coaches  []coachDTO   `json:"coaches"`
	Fixtures []fixtureDTO `json:"fixtures"`
}

type userDTO struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Favorites []string `json:"favorites"`
}

type sessionDTO struct {
	Token     string  `json:"token"`
	User      userDTO `json:"user"`
	AvatarRef string  `json:"avatar_ref,omitempty"`
	CreatedAt string  `json:"created_at"`
}

type favoritesDTO struct {
	Favorites []string `json:"favorites"`
}

func fixtureToDTO(v fixture.Fixture, now time.Time) fixtureDTO {
	events := make([]matchEventDTO, 0, len(v.Events))
	for _, e := range v.Events {
		events = append(events, matchEventDTO{
			Kind:   string(e.Kind),
			Minute: e.Minute,
			Side:   string(e.Side),
			Player: e.Player,
		})
	}

	out := fixtureDTO{
		ID:            v.ID,
		Kickoff:       v.Kickoff.Format(time.RFC3339),
		HomeTeam:      teamRefDTO{ID: v.HomeTeam.ID, Name: v.HomeTeam.Name, LogoURL: v.HomeTeam.LogoURL},
		AwayTeam:      teamRefDTO{ID: v.AwayTeam.ID, Name: v.AwayTeam.Name, LogoURL: v.AwayTeam.LogoURL},
		Competition:   competitionToDTO(v.Competition),
		Round:         v.Round,
		StatusKind:    string(v.StatusKind),
		DisplayStatus: v.DisplayStatus,
		IsLive:        v.IsLive,
		DisplayScore:  v.DisplayScore(),
		Elapsed:       v.ElapsedAt(now),
		Events:        events,
	}
	if v.StatusKind.ShowsScore() {
		out.Score = scoreDTO{Home: v.Score.Home, Away: v.Score.Away}
	}
	return out
}

func competitionToDTO(v fixture.Competition) competitionDTO {
	return competitionDTO{ID: v.ID, Name: v.Name, Country: v.Country}
}

func groupsToDTO(groups []fixture.Group, now time.Time) []fixtureGroupDTO {
	out := make([]fixtureGroupDTO, 0, len(groups))
	for _, g := range groups {
		fixtures := make([]fixtureDTO, 0, len(g.Fixtures))
		for _, item := range g.Fixtures {
			fixtures = append(fixtures, fixtureToDTO(item, now))
		}
		out = append(out, fixtureGroupDTO{
			Key:         g.Key,
			Competition: competitionToDTO(g.Competition),
			HasLive:     g.HasLive,
			Fixtures:    fixtures,
		})
	}
	return out
}

func feedViewToDTO(date string, view usecase.FeedView) feedDTO {
	return feedDTO{
		Date:   date,
		Now:    view.Now.Format(time.RFC3339),
		Groups: groupsToDTO(view.Groups, view.Now),
	}
}

func articleToDTO(v news.Article) newsArticleDTO {
	return newsArticleDTO{
		Title:       v.Title,
		Description: v.Description,
		URL:         v.URL,
		ImageURL:    v.ImageURL,
		Source:      v.SourceName,
		PublishedAt: formatOptionalTime(v.PublishedAt),
	}
}

func leagueToDTO(v league.League) leagueDTO {
	return leagueDTO{ID: v.ID, Name: v.Name, Country: v.Country, LogoURL: v.LogoURL}
}

func standingToDTO(v leaguestanding.Standing) standingDTO {
	return standingDTO{
		Position:       v.Position,
		TeamID:         v.TeamID,
		TeamName:       v.TeamName,
		TeamLogoURL:    v.TeamLogoURL,
		Played:         v.Played,
		Won:            v.Won,
		Draw:           v.Draw,
		Lost:           v.Lost,
		GoalsFor:       v.GoalsFor,
		GoalsAgainst:   v.GoalsAgainst,
		GoalDifference: v.GoalDifference(),
		Points:         v.Points,
	}
}

func teamToDTO(v team.Team) teamRefDTO {
	return teamRefDTO{ID: v.ID, Name: v.Name, LogoURL: v.LogoURL}
}

func teamDetailsToDTO(v team.Details, now time.Time) teamDetailsDTO {
	players := make([]playerDTO, 0, len(v.Profile.Players))
	for _, p := range v.Profile.Players {
		players = append(players, playerDTO{ID: p.ID, Name: p.Name, Number: p.Number, Position: p.Position, Age: p.Age})
	}
	coaches := make([]coachDTO, 0, len(v.Profile.Coaches))
	for _, c := range v.Profile.Coaches {
		coaches = append(coaches, coachDTO{Name: c.Name, Country: c.Country, Age: c.Age})
	}
	fixtures := make([]fixtureDTO, 0, len(v.Fixtures))
	for _, item := range v.Fixtures {
		fixtures = append(fixtures, fixtureToDTO(item, now))
	}

	return teamDetailsDTO{
		Team:     teamToDTO(v.Profile.Team),
		Players:  players,
		Coaches:  coaches,
		Fixtures: fixtures,
	}
}

func sessionToDTO(v user.Session) sessionDTO {
	return sessionDTO{
		Token: v.Token,
		User: userDTO{
			ID:        v.UserID,
			Username:  v.Username,
			Email:     v.Email,
			Favorites: favoriteIDs(v.Favorites),
		},
		AvatarRef: v.AvatarRef,
		CreatedAt: v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func favoriteIDs(v user.FavoriteSet) []string {
	out := make([]string, len(v))
	copy(out, v)
	return out
}

func formatOptionalTime(v *time.Time) *string {
	if v == nil {
		return nil
	}
	formatted := v.UTC().Format(time.RFC3339)
	return &formatted
}
