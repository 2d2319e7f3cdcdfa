package fixture

import (
	"bytes"
	"context"

	sonic "github.com/bytedance/sonic"
)

// ProviderFixture is a raw record from one of the supported provider schemas.
// It is resolved into a Fixture once, at the ingestion boundary.
type ProviderFixture interface {
	providerSchema() string
}

// Source fetches raw fixtures for one calendar day (YYYY-MM-DD).
type Source interface {
	Name() string
	FetchFixtures(ctx context.Context, date string) ([]ProviderFixture, error)
}

// SchemaA is the flat AllSportsAPI record: string booleans, split date/time.
type SchemaA struct {
	EventKey      FlexString    `json:"event_key"`
	EventDate     string        `json:"event_date"`
	EventTime     string        `json:"event_time"`
	HomeTeam      string        `json:"event_home_team"`
	HomeTeamKey   FlexString    `json:"home_team_key"`
	AwayTeam      string        `json:"event_away_team"`
	AwayTeamKey   FlexString    `json:"away_team_key"`
	HomeTeamLogo  string        `json:"home_team_logo"`
	AwayTeamLogo  string        `json:"away_team_logo"`
	Status        string        `json:"event_status"`
	Live          FlexString    `json:"event_live"`
	FinalResult   string        `json:"event_final_result"`
	Minute        FlexString    `json:"event_minute"`
	LeagueKey     FlexString    `json:"league_key"`
	LeagueName    string        `json:"league_name"`
	LeagueCountry string        `json:"league_country"`
	CountryName   string        `json:"country_name"`
	LeagueRound   string        `json:"league_round"`
	Goalscorer    []SchemaAGoal `json:"goalscorer"`
	Goalscorers   []SchemaAGoal `json:"goalscorers"`
	Cards         []SchemaACard `json:"cards"`
}

type SchemaAGoal struct {
	Time       string `json:"time"`
	HomeScorer string `json:"home_scorer"`
	AwayScorer string `json:"away_scorer"`
	Player     string `json:"player"`
	Score      string `json:"score"`
}

type SchemaACard struct {
	Time      string `json:"time"`
	HomeFault string `json:"home_fault"`
	AwayFault string `json:"away_fault"`
	Card      string `json:"card"`
}

func (SchemaA) providerSchema() string { return "allsports" }

// SchemaB is the nested api-football record with native types.
type SchemaB struct {
	Fixture SchemaBFixture `json:"fixture"`
	League  SchemaBLeague  `json:"league"`
	Teams   SchemaBTeams   `json:"teams"`
	Goals   SchemaBGoals   `json:"goals"`
	Events  []SchemaBEvent `json:"events"`
}

type SchemaBFixture struct {
	ID     FlexString    `json:"id"`
	Date   string        `json:"date"`
	Status SchemaBStatus `json:"status"`
}

type SchemaBStatus struct {
	Long    string `json:"long"`
	Short   string `json:"short"`
	Elapsed *int   `json:"elapsed"`
	Extra   *int   `json:"extra"`
}

type SchemaBLeague struct {
	ID      FlexString `json:"id"`
	Name    string     `json:"name"`
	Country string     `json:"country"`
	Round   string     `json:"round"`
}

type SchemaBTeams struct {
	Home SchemaBTeam `json:"home"`
	Away SchemaBTeam `json:"away"`
}

type SchemaBTeam struct {
	ID   FlexString `json:"id"`
	Name string     `json:"name"`
	Logo string     `json:"logo"`
}

type SchemaBGoals struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type SchemaBEvent struct {
	Time struct {
		Elapsed *int `json:"elapsed"`
		Extra   *int `json:"extra"`
	} `json:"time"`
	Team   SchemaBTeam `json:"team"`
	Player struct {
		Name string `json:"name"`
	} `json:"player"`
	Type   string `json:"type"`
	Detail string `json:"detail"`
}

func (SchemaB) providerSchema() string { return "apifootball" }

// FlexString accepts a JSON string, number or null.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = ""
		return nil
	}
	if trimmed[0] == '"' {
		var value string
		if err := sonic.Unmarshal(trimmed, &value); err != nil {
			return err
		}
		*s = FlexString(value)
		return nil
	}
	*s = FlexString(trimmed)
	return nil
}

func (s FlexString) String() string {
	return string(s)
}
