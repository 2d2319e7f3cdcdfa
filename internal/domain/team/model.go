package team

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/riskibarqy/playscout/internal/domain/fixture"
)

// youthOrReserveRegex matches youth (U20), women (W) and reserve (Sub-23) sides.
var youthOrReserveRegex = regexp.MustCompile(`(?i)\b(U\d+|W|Sub)\b`)

// Team is a club as listed by the sports data provider.
type Team struct {
	ID      string
	Name    string
	LogoURL string
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}

// IsSeniorSide reports whether the team is a first team rather than a youth,
// women or reserve squad.
func (t Team) IsSeniorSide() bool {
	return !youthOrReserveRegex.MatchString(t.Name)
}

type Player struct {
	ID       string
	Name     string
	Number   string
	Position string
	Age      string
}

type Coach struct {
	Name    string
	Country string
	Age     string
}

// Profile is a team with its squad and staff.
type Profile struct {
	Team    Team
	Players []Player
	Coaches []Coach
}

// Details is the team page: profile plus the next fixtures.
type Details struct {
	Profile  Profile
	Fixtures []fixture.Fixture
}

// FilterSearchResults keeps senior sides and drops repeated names.
func FilterSearchResults(teams []Team) []Team {
	out := make([]Team, 0, len(teams))
	seen := make(map[string]struct{}, len(teams))
	for _, item := range teams {
		if strings.TrimSpace(item.Name) == "" || !item.IsSeniorSide() {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(item.Name))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
