package allsports

import (
	"strconv"
	"strings"

	"github.com/riskibarqy/playscout/internal/domain/fixture"
)

type envelope[T any] struct {
	Success fixture.FlexString `json:"success"`
	Result  []T                `json:"result"`
}

func (e envelope[T]) ok() bool {
	return strings.TrimSpace(e.Success.String()) == "1"
}

type teamItem struct {
	TeamKey  fixture.FlexString `json:"team_key"`
	TeamName string             `json:"team_name"`
	TeamLogo string             `json:"team_logo"`
	Players  []playerItem       `json:"players"`
	Coaches  []coachItem        `json:"coaches"`
}

type playerItem struct {
	PlayerKey    fixture.FlexString `json:"player_key"`
	PlayerName   string             `json:"player_name"`
	PlayerNumber fixture.FlexString `json:"player_number"`
	PlayerType   string             `json:"player_type"`
	PlayerAge    fixture.FlexString `json:"player_age"`
}

type coachItem struct {
	CoachName    string             `json:"coach_name"`
	CoachCountry string             `json:"coach_country"`
	CoachAge     fixture.FlexString `json:"coach_age"`
}

type standingsResult struct {
	Total []standingItem `json:"total"`
}

type standingsEnvelope struct {
	Success fixture.FlexString `json:"success"`
	Result  standingsResult    `json:"result"`
}

type standingItem struct {
	Place    fixture.FlexString `json:"standing_place"`
	TeamKey  fixture.FlexString `json:"team_key"`
	TeamName string             `json:"standing_team"`
	TeamAlt  string             `json:"team_name"`
	TeamLogo string             `json:"team_logo"`
	Played   fixture.FlexString `json:"standing_P"`
	Won      fixture.FlexString `json:"standing_W"`
	Draw     fixture.FlexString `json:"standing_D"`
	Lost     fixture.FlexString `json:"standing_L"`
	For      fixture.FlexString `json:"standing_F"`
	Against  fixture.FlexString `json:"standing_A"`
	Points   fixture.FlexString `json:"standing_PTS"`
}

func atoi(value fixture.FlexString) int {
	n, err := strconv.Atoi(strings.TrimSpace(value.String()))
	if err != nil {
		return 0
	}
	return n
}
