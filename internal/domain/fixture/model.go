package fixture

import (
	"strings"
	"time"
)

// StatusKind is the internal status vocabulary every provider maps into.
type StatusKind string

const (
	StatusNotStarted StatusKind = "NOT_STARTED"
	StatusLive       StatusKind = "LIVE"
	StatusHalfTime   StatusKind = "HALF_TIME"
	StatusFinished   StatusKind = "FINISHED"
	StatusPostponed  StatusKind = "POSTPONED"
	StatusCancelled  StatusKind = "CANCELLED"
	StatusAbandoned  StatusKind = "ABANDONED"
	StatusOther      StatusKind = "OTHER"
)

// InPlay reports whether the kind describes a match on the pitch.
func (k StatusKind) InPlay() bool {
	return k == StatusLive || k == StatusHalfTime
}

// ShowsScore reports whether a provider score may be exposed for the kind.
func (k StatusKind) ShowsScore() bool {
	return k.InPlay() || k == StatusFinished
}

type Team struct {
	ID      string
	Name    string
	LogoURL string
}

type Competition struct {
	ID      string
	Name    string
	Country string
}

// GroupKey is the "<name> (<country>)" label fixtures are clustered by.
func (c Competition) GroupKey() string {
	name := strings.TrimSpace(c.Name)
	country := strings.TrimSpace(c.Country)
	if country == "" {
		return name
	}
	return name + " (" + country + ")"
}

type Score struct {
	Home *int
	Away *int
}

func (s Score) Equal(other Score) bool {
	return equalIntPtr(s.Home, other.Home) && equalIntPtr(s.Away, other.Away)
}

type EventKind string

const (
	EventGoal       EventKind = "GOAL"
	EventYellowCard EventKind = "YELLOW_CARD"
	EventRedCard    EventKind = "RED_CARD"
)

type Side string

const (
	SideHome Side = "HOME"
	SideAway Side = "AWAY"
)

type MatchEvent struct {
	Kind   EventKind
	Minute *string
	Side   Side
	Player string
}

// Fixture is one normalized match record. Values are replaced wholesale on
// every fetch cycle and never mutated in place.
type Fixture struct {
	ID             string
	Kickoff        time.Time
	HomeTeam       Team
	AwayTeam       Team
	Competition    Competition
	Round          string
	StatusRaw      string
	StatusKind     StatusKind
	DisplayStatus  string
	LiveFlag       *bool
	IsLive         bool
	Score          Score
	MinuteRaw      string
	ElapsedMinutes *int
	Events         []MatchEvent
}

// ElapsedAt recomputes the elapsed minutes against a fresh clock reading.
// An explicit provider minute always wins over the kickoff-derived value.
func (f Fixture) ElapsedAt(now time.Time) *int {
	if !f.IsLive {
		return nil
	}
	if minute, ok := parseMinuteMarker(f.MinuteRaw); ok {
		return &minute
	}
	return elapsedSince(f.Kickoff, now)
}

// DisplayScore renders the score line shown next to a fixture.
func (f Fixture) DisplayScore() string {
	if f.Score.Home != nil && f.Score.Away != nil && (f.IsLive || f.StatusKind == StatusFinished) {
		return itoa(*f.Score.Home) + " x " + itoa(*f.Score.Away)
	}
	if f.IsLive {
		return "- x -"
	}
	return "x"
}

func elapsedSince(kickoff, now time.Time) *int {
	if kickoff.IsZero() {
		return nil
	}
	minutes := int(now.Sub(kickoff) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}
	return &minutes
}

func equalIntPtr(left, right *int) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}
	return *left == *right
}
