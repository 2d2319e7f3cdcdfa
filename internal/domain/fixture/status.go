package fixture

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

const kickoffDisplayLayout = "15:04"

var minuteTokenRegex = regexp.MustCompile(`^(\d+)(?:\+(\d+))?$`)

// StatusInput carries everything the status vocabulary depends on for one
// fixture. Minute is the provider's separate minute marker, when it has one.
type StatusInput struct {
	Raw       string
	Minute    string
	LiveFlag  *bool
	HasResult bool
	Kickoff   time.Time
	Location  *time.Location
}

type statusAlias struct {
	token   string
	kind    StatusKind
	display string
}

var terminalAliases = []statusAlias{
	{token: "finished", kind: StatusFinished, display: "Finalizado"},
	{token: "match finished", kind: StatusFinished, display: "Finalizado"},
	{token: "after extra time", kind: StatusFinished, display: "Finalizado"},
	{token: "after penalties", kind: StatusFinished, display: "Finalizado"},
	{token: "after pen.", kind: StatusFinished, display: "Finalizado"},
	{token: "ft", kind: StatusFinished, display: "Finalizado"},
	{token: "aet", kind: StatusFinished, display: "Finalizado"},
	{token: "pen", kind: StatusFinished, display: "Finalizado"},
	{token: "cancelled", kind: StatusCancelled, display: "Cancelado"},
	{token: "canceled", kind: StatusCancelled, display: "Cancelado"},
	{token: "canc", kind: StatusCancelled, display: "Cancelado"},
	{token: "postponed", kind: StatusPostponed, display: "Adiado"},
	{token: "pst", kind: StatusPostponed, display: "Adiado"},
	{token: "abandoned", kind: StatusAbandoned, display: "Interrompido"},
	{token: "abd", kind: StatusAbandoned, display: "Interrompido"},
	{token: "half time", kind: StatusHalfTime, display: "Intervalo"},
	{token: "halftime", kind: StatusHalfTime, display: "Intervalo"},
	{token: "ht", kind: StatusHalfTime, display: "Intervalo"},
}

var liveCodes = map[string]struct{}{
	"1h":          {},
	"2h":          {},
	"et":          {},
	"bt":          {},
	"p":           {},
	"live":        {},
	"in play":     {},
	"extra time":  {},
	"break time":  {},
	"penalties":   {},
	"first half":  {},
	"second half": {},
}

var notStartedTokens = map[string]struct{}{
	"":            {},
	"not started": {},
	"ns":          {},
	"tbd":         {},
	"scheduled":   {},
}

var phraseAliases = longestFirst(terminalAliases)

// NormalizeStatus maps a raw provider status into the internal kind and the
// string shown to users. It is total: unknown input falls through to Other.
func NormalizeStatus(in StatusInput) (StatusKind, string) {
	normalized := strings.ToLower(strings.Join(strings.Fields(in.Raw), " "))

	for _, alias := range terminalAliases {
		if normalized == alias.token {
			return alias.kind, alias.display
		}
	}
	if matches := minuteTokenRegex.FindStringSubmatch(normalized); matches != nil {
		return StatusLive, normalized + "'"
	}
	if _, ok := liveCodes[normalized]; ok {
		if minute := strings.TrimSpace(in.Minute); minute != "" {
			return StatusLive, minute + "'"
		}
		return StatusLive, in.Raw
	}
	if _, ok := notStartedTokens[normalized]; ok {
		return StatusNotStarted, formatKickoff(in.Kickoff, in.Location)
	}
	for _, alias := range phraseAliases {
		if len(alias.token) >= 4 && strings.Contains(normalized, alias.token) {
			return alias.kind, alias.display
		}
	}
	if in.LiveFlag != nil && !*in.LiveFlag && !in.HasResult {
		return StatusNotStarted, formatKickoff(in.Kickoff, in.Location)
	}

	return StatusOther, in.Raw
}

// ReconcileLive combines the explicit provider flag with the derived kind.
func ReconcileLive(kind StatusKind, flag *bool) bool {
	if kind == StatusFinished {
		return false
	}
	if flag != nil && *flag {
		return true
	}
	return kind.InPlay()
}

func formatKickoff(kickoff time.Time, loc *time.Location) string {
	if kickoff.IsZero() {
		return ""
	}
	if loc != nil {
		kickoff = kickoff.In(loc)
	}
	return kickoff.Format(kickoffDisplayLayout)
}

// parseMinuteMarker reads "45" or "45+2" style markers; stoppage time is added.
func parseMinuteMarker(raw string) (int, bool) {
	matches := minuteTokenRegex.FindStringSubmatch(strings.TrimSpace(raw))
	if matches == nil {
		return 0, false
	}
	base, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, false
	}
	if matches[2] == "" {
		return base, true
	}
	extra, err := strconv.Atoi(matches[2])
	if err != nil {
		return base, true
	}
	return base + extra, true
}

func longestFirst(aliases []statusAlias) []statusAlias {
	out := append([]statusAlias(nil), aliases...)
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].token) > len(out[j].token)
	})
	return out
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
