package fixture

import (
	"sort"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
)

var (
	// ErrNetwork marks transport failures while fetching a feed.
	ErrNetwork = crerr.New("fixture feed network error")
	// ErrMalformedResponse marks an envelope that does not have the expected shape.
	ErrMalformedResponse = crerr.New("fixture feed malformed response")
)

const (
	schemaADateTimeLayout        = "2006-01-02T15:04-07:00"
	schemaADateTimeSecondsLayout = "2006-01-02T15:04:05-07:00"
	finalResultSeparator         = " - "
)

// NormalizeOptions configures the ingestion boundary.
type NormalizeOptions struct {
	// SchemaAOffset is the literal UTC offset ("-03:00") schema A local times are expressed in.
	SchemaAOffset string
	// Location is the presentation timezone for kickoff display strings.
	Location *time.Location
	Now      func() time.Time
}

func (o NormalizeOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Normalize resolves one provider record into a Fixture. The boolean is false
// when identity fields are missing and the record must be dropped.
func Normalize(raw ProviderFixture, opts NormalizeOptions) (Fixture, bool) {
	switch v := raw.(type) {
	case SchemaA:
		return normalizeSchemaA(v, opts)
	case *SchemaA:
		if v == nil {
			return Fixture{}, false
		}
		return normalizeSchemaA(*v, opts)
	case SchemaB:
		return normalizeSchemaB(v, opts)
	case *SchemaB:
		if v == nil {
			return Fixture{}, false
		}
		return normalizeSchemaB(*v, opts)
	default:
		return Fixture{}, false
	}
}

// NormalizeBatch drops malformed and duplicate records and orders the rest by
// kickoff ascending. Records must come from a single provider: ids are only
// unique within one provider's id space.
func NormalizeBatch(raws []ProviderFixture, opts NormalizeOptions) []Fixture {
	out := make([]Fixture, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	for _, raw := range raws {
		item, ok := Normalize(raw, opts)
		if !ok {
			continue
		}
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}

	SortByKickoff(out)
	return out
}

// QualifyIDs prefixes every id with the provider name ("allsports:1208021")
// so batches from different providers can share one feed.
func QualifyIDs(items []Fixture, provider string) {
	for i := range items {
		items[i].ID = provider + ":" + items[i].ID
	}
}

// SortByKickoff orders fixtures by kickoff, keeping input order for ties.
func SortByKickoff(items []Fixture) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Kickoff.Before(items[j].Kickoff)
	})
}

func normalizeSchemaA(raw SchemaA, opts NormalizeOptions) (Fixture, bool) {
	id := strings.TrimSpace(raw.EventKey.String())
	homeName := strings.TrimSpace(raw.HomeTeam)
	awayName := strings.TrimSpace(raw.AwayTeam)
	if id == "" || homeName == "" || awayName == "" {
		return Fixture{}, false
	}

	kickoff, ok := parseSchemaAKickoff(raw.EventDate, raw.EventTime, opts.SchemaAOffset)
	if !ok {
		return Fixture{}, false
	}

	liveFlag := parseLiveFlag(raw.Live.String())
	home, away, hasResult := ParseFinalResult(raw.FinalResult)
	minute := strings.TrimSpace(raw.Minute.String())

	kind, display := NormalizeStatus(StatusInput{
		Raw:       raw.Status,
		Minute:    minute,
		LiveFlag:  liveFlag,
		HasResult: hasResult,
		Kickoff:   kickoff,
		Location:  opts.Location,
	})

	item := Fixture{
		ID:      id,
		Kickoff: kickoff,
		HomeTeam: Team{
			ID:      strings.TrimSpace(raw.HomeTeamKey.String()),
			Name:    homeName,
			LogoURL: strings.TrimSpace(raw.HomeTeamLogo),
		},
		AwayTeam: Team{
			ID:      strings.TrimSpace(raw.AwayTeamKey.String()),
			Name:    awayName,
			LogoURL: strings.TrimSpace(raw.AwayTeamLogo),
		},
		Competition: Competition{
			ID:      strings.TrimSpace(raw.LeagueKey.String()),
			Name:    strings.TrimSpace(raw.LeagueName),
			Country: firstNonEmpty(raw.LeagueCountry, raw.CountryName),
		},
		Round:         strings.TrimSpace(raw.LeagueRound),
		StatusRaw:     raw.Status,
		StatusKind:    kind,
		DisplayStatus: display,
		LiveFlag:      liveFlag,
		IsLive:        ReconcileLive(kind, liveFlag),
		MinuteRaw:     minute,
		Events:        ExtractSchemaAEvents(append(append([]SchemaAGoal(nil), raw.Goalscorer...), raw.Goalscorers...), raw.Cards),
	}
	if kind.ShowsScore() && hasResult {
		item.Score = Score{Home: home, Away: away}
	}
	item.ElapsedMinutes = item.ElapsedAt(opts.now())

	return item, true
}

func normalizeSchemaB(raw SchemaB, opts NormalizeOptions) (Fixture, bool) {
	id := strings.TrimSpace(raw.Fixture.ID.String())
	homeName := strings.TrimSpace(raw.Teams.Home.Name)
	awayName := strings.TrimSpace(raw.Teams.Away.Name)
	if id == "" || homeName == "" || awayName == "" {
		return Fixture{}, false
	}

	kickoff, err := time.Parse(time.RFC3339, strings.TrimSpace(raw.Fixture.Date))
	if err != nil {
		return Fixture{}, false
	}

	minute := ""
	if marker := schemaBMinute(raw.Fixture.Status.Elapsed, raw.Fixture.Status.Extra); marker != nil {
		minute = *marker
	}
	statusRaw := firstNonEmpty(raw.Fixture.Status.Short, raw.Fixture.Status.Long)
	hasResult := raw.Goals.Home != nil && raw.Goals.Away != nil

	kind, display := NormalizeStatus(StatusInput{
		Raw:       statusRaw,
		Minute:    minute,
		HasResult: hasResult,
		Kickoff:   kickoff,
		Location:  opts.Location,
	})

	homeID := strings.TrimSpace(raw.Teams.Home.ID.String())
	item := Fixture{
		ID:      id,
		Kickoff: kickoff,
		HomeTeam: Team{
			ID:      homeID,
			Name:    homeName,
			LogoURL: strings.TrimSpace(raw.Teams.Home.Logo),
		},
		AwayTeam: Team{
			ID:      strings.TrimSpace(raw.Teams.Away.ID.String()),
			Name:    awayName,
			LogoURL: strings.TrimSpace(raw.Teams.Away.Logo),
		},
		Competition: Competition{
			ID:      strings.TrimSpace(raw.League.ID.String()),
			Name:    strings.TrimSpace(raw.League.Name),
			Country: strings.TrimSpace(raw.League.Country),
		},
		Round:         strings.TrimSpace(raw.League.Round),
		StatusRaw:     statusRaw,
		StatusKind:    kind,
		DisplayStatus: display,
		IsLive:        ReconcileLive(kind, nil),
		MinuteRaw:     minute,
		Events:        ExtractSchemaBEvents(raw.Events, homeID),
	}
	if kind.ShowsScore() {
		item.Score = Score{Home: copyInt(raw.Goals.Home), Away: copyInt(raw.Goals.Away)}
	}
	item.ElapsedMinutes = item.ElapsedAt(opts.now())

	return item, true
}

// ParseFinalResult splits an "H - A" result string. Anything else yields nil
// scores and false.
func ParseFinalResult(raw string) (*int, *int, bool) {
	parts := strings.Split(strings.TrimSpace(raw), finalResultSeparator)
	if len(parts) != 2 {
		return nil, nil, false
	}
	home, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, nil, false
	}
	away, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, nil, false
	}
	return &home, &away, true
}

func parseSchemaAKickoff(date, clock, offset string) (time.Time, bool) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" || clock == "" {
		return time.Time{}, false
	}
	offset = strings.TrimSpace(offset)
	if offset == "" || strings.EqualFold(offset, "Z") {
		offset = "+00:00"
	}

	value := date + "T" + clock + offset
	if parsed, err := time.Parse(schemaADateTimeLayout, value); err == nil {
		return parsed, true
	}
	if parsed, err := time.Parse(schemaADateTimeSecondsLayout, value); err == nil {
		return parsed, true
	}
	return time.Time{}, false
}

func parseLiveFlag(raw string) *bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true":
		v := true
		return &v
	case "0", "false":
		v := false
		return &v
	default:
		return nil
	}
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
