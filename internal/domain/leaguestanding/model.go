package leaguestanding

import "sort"

// Standing is one league table row.
type Standing struct {
	LeagueID     string
	Position     int
	TeamID       string
	TeamName     string
	TeamLogoURL  string
	Played       int
	Won          int
	Draw         int
	Lost         int
	GoalsFor     int
	GoalsAgainst int
	Points       int
}

func (s Standing) GoalDifference() int {
	return s.GoalsFor - s.GoalsAgainst
}

// SortByPosition orders rows by table position; rows without a position go last.
func SortByPosition(rows []Standing) {
	sort.SliceStable(rows, func(i, j int) bool {
		left, right := rows[i].Position, rows[j].Position
		if left <= 0 || right <= 0 {
			return left > 0 && right <= 0
		}
		return left < right
	})
}
