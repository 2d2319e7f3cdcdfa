package fixture

import (
	"strconv"
	"strings"
)

const defaultGoalPlayer = "Gol"

// ExtractSchemaAEvents lists goals first and then cards, each in provider
// order. Entries are not merged by minute.
func ExtractSchemaAEvents(goals []SchemaAGoal, cards []SchemaACard) []MatchEvent {
	out := make([]MatchEvent, 0, len(goals)+len(cards))
	for _, goal := range goals {
		side := SideAway
		if strings.TrimSpace(goal.HomeScorer) != "" {
			side = SideHome
		}
		player := firstNonEmpty(goal.HomeScorer, goal.AwayScorer, goal.Player)
		if player == "" {
			player = defaultGoalPlayer
		}
		out = append(out, MatchEvent{
			Kind:   EventGoal,
			Minute: trimmedOrNil(goal.Time),
			Side:   side,
			Player: player,
		})
	}

	for _, card := range cards {
		kind := EventRedCard
		if strings.EqualFold(strings.TrimSpace(card.Card), "yellow card") {
			kind = EventYellowCard
		}
		side := SideAway
		player := strings.TrimSpace(card.AwayFault)
		if home := strings.TrimSpace(card.HomeFault); home != "" {
			side = SideHome
			player = home
		}
		out = append(out, MatchEvent{
			Kind:   kind,
			Minute: trimmedOrNil(card.Time),
			Side:   side,
			Player: player,
		})
	}

	return out
}

// ExtractSchemaBEvents keeps goal and card entries in provider order and
// ignores substitutions and VAR entries.
func ExtractSchemaBEvents(events []SchemaBEvent, homeTeamID string) []MatchEvent {
	out := make([]MatchEvent, 0, len(events))
	for _, event := range events {
		var kind EventKind
		switch strings.ToLower(strings.TrimSpace(event.Type)) {
		case "goal":
			kind = EventGoal
		case "card":
			kind = EventRedCard
			if strings.EqualFold(strings.TrimSpace(event.Detail), "yellow card") {
				kind = EventYellowCard
			}
		default:
			continue
		}

		side := SideAway
		if homeTeamID != "" && strings.TrimSpace(event.Team.ID.String()) == homeTeamID {
			side = SideHome
		}

		player := strings.TrimSpace(event.Player.Name)
		if kind == EventGoal && player == "" {
			player = defaultGoalPlayer
		}

		out = append(out, MatchEvent{
			Kind:   kind,
			Minute: schemaBMinute(event.Time.Elapsed, event.Time.Extra),
			Side:   side,
			Player: player,
		})
	}
	return out
}

func schemaBMinute(elapsed, extra *int) *string {
	if elapsed == nil {
		return nil
	}
	value := strconv.Itoa(*elapsed)
	if extra != nil && *extra > 0 {
		value += "+" + strconv.Itoa(*extra)
	}
	return &value
}

func trimmedOrNil(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
