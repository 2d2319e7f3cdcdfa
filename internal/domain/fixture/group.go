package fixture

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/riskibarqy/playscout/internal/platform/textnorm"
	"golang.org/x/text/language"
)

// MinSearchLength is the shortest search term that filters the feed.
const MinSearchLength = 3

// DefaultDisambiguation pins competition names shared across countries.
var DefaultDisambiguation = map[string]string{
	"Premier League": "England",
}

type GroupOptions struct {
	Search   string
	Priority []string
	// Disambiguation maps a shared competition name to the only country kept
	// when the feed holds that name under several countries.
	Disambiguation map[string]string
	Language       language.Tag
}

// Group is one competition bucket of the rendered feed.
type Group struct {
	Key         string
	Competition Competition
	Fixtures    []Fixture
	HasLive     bool
}

// GroupAndRank clusters fixtures by competition, applies the search filter
// and orders groups live-first, then by priority, then alphabetically.
func GroupAndRank(fixtures []Fixture, opts GroupOptions) []Group {
	countriesByName := make(map[string]map[string]struct{})
	for _, item := range fixtures {
		name := strings.TrimSpace(item.Competition.Name)
		if countriesByName[name] == nil {
			countriesByName[name] = make(map[string]struct{})
		}
		countriesByName[name][strings.ToLower(strings.TrimSpace(item.Competition.Country))] = struct{}{}
	}

	term := strings.TrimSpace(opts.Search)
	searchActive := utf8.RuneCountInString(term) >= MinSearchLength
	foldedTerm := textnorm.Fold(term)

	groups := make([]*Group, 0, 16)
	byKey := make(map[string]*Group)
	for _, item := range fixtures {
		name := strings.TrimSpace(item.Competition.Name)
		if required, ok := opts.Disambiguation[name]; ok && len(countriesByName[name]) > 1 &&
			!strings.EqualFold(strings.TrimSpace(item.Competition.Country), required) {
			continue
		}
		if searchActive && !matchesTeam(item, foldedTerm) {
			continue
		}

		key := item.Competition.GroupKey()
		group, ok := byKey[key]
		if !ok {
			group = &Group{Key: key, Competition: item.Competition}
			byKey[key] = group
			groups = append(groups, group)
		}
		group.Fixtures = append(group.Fixtures, item)
		if item.IsLive {
			group.HasLive = true
		}
	}

	priority := make(map[string]int, len(opts.Priority))
	for i, name := range opts.Priority {
		folded := strings.ToLower(strings.TrimSpace(name))
		if _, exists := priority[folded]; !exists {
			priority[folded] = i
		}
	}

	collator := textnorm.NewCollator(opts.Language)
	sort.SliceStable(groups, func(i, j int) bool {
		left, right := groups[i], groups[j]
		if left.HasLive != right.HasLive {
			return left.HasLive
		}
		leftRank, leftRanked := priorityRank(priority, left.Competition)
		rightRank, rightRanked := priorityRank(priority, right.Competition)
		switch {
		case leftRanked && rightRanked:
			return leftRank < rightRank
		case leftRanked != rightRanked:
			return leftRanked
		}
		return collator.CompareString(left.Competition.Name, right.Competition.Name) < 0
	})

	out := make([]Group, 0, len(groups))
	for _, group := range groups {
		out = append(out, *group)
	}
	return out
}

// priorityRank matches "Serie A (Brazil)" before a bare "Serie A" entry.
func priorityRank(priority map[string]int, c Competition) (int, bool) {
	if rank, ok := priority[strings.ToLower(c.GroupKey())]; ok {
		return rank, true
	}
	rank, ok := priority[strings.ToLower(strings.TrimSpace(c.Name))]
	return rank, ok
}

func matchesTeam(item Fixture, foldedTerm string) bool {
	return strings.Contains(textnorm.Fold(item.HomeTeam.Name), foldedTerm) ||
		strings.Contains(textnorm.Fold(item.AwayTeam.Name), foldedTerm)
}
