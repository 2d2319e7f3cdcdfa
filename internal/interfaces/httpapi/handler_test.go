package httpapi

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/playscout/internal/domain/fixture"
	"github.com/riskibarqy/playscout/internal/domain/leaguestanding"
	"github.com/riskibarqy/playscout/internal/domain/news"
	"github.com/riskibarqy/playscout/internal/domain/team"
	"github.com/riskibarqy/playscout/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/playscout/internal/platform/logging"
	"github.com/riskibarqy/playscout/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFixtureSource struct {
	raws []fixture.ProviderFixture
	err  error
}

func (s stubFixtureSource) Name() string { return "stub" }

func (s stubFixtureSource) FetchFixtures(context.Context, string) ([]fixture.ProviderFixture, error) {
	return s.raws, s.err
}

type stubNewsProvider struct{}

func (stubNewsProvider) Search(context.Context, news.Query) ([]news.Article, error) {
	return []news.Article{
		{Title: "Clássico decide o campeonato", Description: "Jogo no domingo", URL: "https://example.com/1", SourceName: "Lance"},
		{Title: "Bolsa sobe", Description: "Mercado", URL: "https://example.com/2", SourceName: "Valor"},
	}, nil
}

type stubStandings struct{}

func (stubStandings) FetchStandings(_ context.Context, leagueID string) ([]leaguestanding.Standing, error) {
	return []leaguestanding.Standing{
		{LeagueID: leagueID, Position: 2, TeamID: "2", TeamName: "Palmeiras", GoalsFor: 10, GoalsAgainst: 4, Points: 20},
		{LeagueID: leagueID, Position: 1, TeamID: "1", TeamName: "Botafogo", Points: 22},
	}, nil
}

type stubTeams struct{}

func (stubTeams) SearchTeams(context.Context, string) ([]team.Team, error) {
	return []team.Team{{ID: "1", Name: "Flamengo"}, {ID: "2", Name: "Flamengo U20"}}, nil
}

func (stubTeams) GetTeam(_ context.Context, teamID string) (team.Profile, bool, error) {
	if teamID == "404" {
		return team.Profile{}, false, nil
	}
	return team.Profile{Team: team.Team{ID: teamID, Name: "Team " + teamID}}, true, nil
}

func (stubTeams) FetchTeamFixtures(context.Context, string) ([]fixture.ProviderFixture, error) {
	return nil, nil
}

func testFixtures() []fixture.ProviderFixture {
	return []fixture.ProviderFixture{
		fixture.SchemaA{
			EventKey: "100", EventDate: "2024-05-01", EventTime: "16:00",
			HomeTeam: "Flamengo", AwayTeam: "Vasco", Status: "Finished", Live: "0",
			FinalResult: "2 - 1", LeagueName: "Serie A", LeagueCountry: "Brazil",
		},
		fixture.SchemaA{
			EventKey: "101", EventDate: "2024-05-01", EventTime: "18:00",
			HomeTeam: "Arsenal", AwayTeam: "Chelsea", Status: "", Live: "0",
			LeagueName: "Premier League", LeagueCountry: "England",
		},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := logging.NewNop()
	feed := usecase.NewFeedService(usecase.FeedServiceConfig{
		Sources:       []fixture.Source{stubFixtureSource{raws: testFixtures()}},
		SchemaAOffset: "-03:00",
		Logger:        logger,
	})
	teams := usecase.NewTeamService(stubTeams{}, fixture.NormalizeOptions{SchemaAOffset: "-03:00"}, time.Minute)
	accounts := usecase.NewAccountService(usecase.AccountServiceConfig{
		Users:    memory.NewUserRepository(),
		Sessions: memory.NewSessionStore(time.Hour),
		Teams:    teams,
		Logger:   logger,
	})

	handler := NewHandler(HandlerConfig{
		Feed:     feed,
		News:     usecase.NewNewsService(usecase.NewsServiceConfig{Provider: stubNewsProvider{}, Logger: logger}),
		Leagues:  usecase.NewLeagueService(memory.NewLeagueRepository(memory.SeedLeagues()), stubStandings{}, time.Minute),
		Teams:    teams,
		Accounts: accounts,
		Stream: usecase.FeedPollerConfig{
			Interval:      50 * time.Millisecond,
			ClockInterval: time.Hour,
		},
		AllowedOrigins: []string{"*"},
		Logger:         logger,
	})
	return NewRouter(handler, accounts, logger, true, []string{"*"})
}

func decodeData(t *testing.T, body envelope, target any) {
	t.Helper()

	raw, err := sonic.Marshal(body.Data)
	require.NoError(t, err)
	require.NoError(t, sonic.Unmarshal(raw, target))
}

func doRequest(t *testing.T, router http.Handler, method, path, token, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var out envelope
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec, out
}

func TestHandler_ListFixtures_GroupsFeed(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec, body := doRequest(t, router, http.MethodGet, "/v1/fixtures?date=2024-05-01", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var feed feedDTO
	decodeData(t, body, &feed)
	assert.Equal(t, "2024-05-01", feed.Date)
	require.Len(t, feed.Groups, 2)

	var finished *fixtureDTO
	for _, group := range feed.Groups {
		for i := range group.Fixtures {
			if group.Fixtures[i].ID == "100" {
				finished = &group.Fixtures[i]
			}
		}
	}
	require.NotNil(t, finished)
	assert.Equal(t, "2 x 1", finished.DisplayScore)
	assert.Equal(t, string(fixture.StatusFinished), finished.StatusKind)

	rec, _ = doRequest(t, router, http.MethodGet, "/v1/fixtures?date=01-05-2024", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_ListFixtures_SearchFilters(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec, body := doRequest(t, router, http.MethodGet, "/v1/fixtures?date=2024-05-01&q=flam", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var feed feedDTO
	decodeData(t, body, &feed)
	require.Len(t, feed.Groups, 1)
	assert.Equal(t, "Flamengo", feed.Groups[0].Fixtures[0].HomeTeam.Name)
}

func TestHandler_PublicCatalogRoutes(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec, body := doRequest(t, router, http.MethodGet, "/v1/news", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var articles []newsArticleDTO
	decodeData(t, body, &articles)
	require.Len(t, articles, 1)

	rec, body = doRequest(t, router, http.MethodGet, "/v1/leagues", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var leagues []leagueDTO
	decodeData(t, body, &leagues)
	require.Len(t, leagues, 5)

	rec, body = doRequest(t, router, http.MethodGet, "/v1/leagues/99/standings", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var standings []standingDTO
	decodeData(t, body, &standings)
	require.Len(t, standings, 2)
	assert.Equal(t, "Botafogo", standings[0].TeamName)
	assert.Equal(t, 6, standings[1].GoalDifference)

	rec, _ = doRequest(t, router, http.MethodGet, "/v1/leagues/1/standings", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body = doRequest(t, router, http.MethodGet, "/v1/teams?name=flamengo", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var teams []teamRefDTO
	decodeData(t, body, &teams)
	require.Len(t, teams, 1)

	rec, _ = doRequest(t, router, http.MethodGet, "/v1/teams/404", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_AccountFlow(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec, body := doRequest(t, router, http.MethodPost, "/v1/auth/register", "",
		`{"username":"fan","email":"fan@gmail.com","password":"secret","confirmPassword":"secret"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var registered sessionDTO
	decodeData(t, body, &registered)
	require.NotEmpty(t, registered.Token)
	assert.Empty(t, registered.User.Favorites)

	rec, _ = doRequest(t, router, http.MethodPost, "/v1/auth/register", "",
		`{"username":"fan","email":"fan@gmail.com","password":"secret","confirmPassword":"secret"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = doRequest(t, router, http.MethodPost, "/v1/auth/login", "", `{"email":"fan@gmail.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, body = doRequest(t, router, http.MethodPost, "/v1/auth/login", "", `{"email":"fan@gmail.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var session sessionDTO
	decodeData(t, body, &session)
	token := session.Token

	rec, body = doRequest(t, router, http.MethodPut, "/v1/me/favorites/7", token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var favorites favoritesDTO
	decodeData(t, body, &favorites)
	assert.Equal(t, []string{"7"}, favorites.Favorites)

	rec, body = doRequest(t, router, http.MethodGet, "/v1/me/favorites", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var teams []teamRefDTO
	decodeData(t, body, &teams)
	require.Len(t, teams, 1)
	assert.Equal(t, "Team 7", teams[0].Name)

	rec, body = doRequest(t, router, http.MethodPatch, "/v1/me", token, `{"username":"torcedor"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile sessionDTO
	decodeData(t, body, &profile)
	assert.Equal(t, "torcedor", profile.User.Username)
	assert.Equal(t, []string{"7"}, profile.User.Favorites)

	rec, _ = doRequest(t, router, http.MethodPost, "/v1/auth/logout", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = doRequest(t, router, http.MethodGet, "/v1/me", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_RequireAuth(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec, body := doRequest(t, router, http.MethodGet, "/v1/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "UNAUTHENTICATED", body.Error.Status)

	rec, _ = doRequest(t, router, http.MethodGet, "/v1/me", "unknown-token", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_DecodeRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec, body := doRequest(t, router, http.MethodPost, "/v1/auth/login", "", `{"email":"a@gmail.com","password":"x","extra":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, body.Error)
	assert.True(t, strings.Contains(body.Error.Message, "invalid JSON payload"))
}
