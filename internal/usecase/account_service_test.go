package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/playscout/internal/domain/team"
	"github.com/riskibarqy/playscout/internal/domain/user"
	usermock "github.com/riskibarqy/playscout/internal/mocks/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixedGenerator struct {
	value string
}

func (g fixedGenerator) NewID() (string, error) { return g.value, nil }

type fakeFavoriteTeams struct {
	requested []string
}

func (f *fakeFavoriteTeams) GetTeams(_ context.Context, ids []string) ([]team.Team, error) {
	f.requested = append([]string(nil), ids...)
	out := make([]team.Team, 0, len(ids))
	for _, teamID := range ids {
		out = append(out, team.Team{ID: teamID, Name: "team-" + teamID})
	}
	return out, nil
}

var accountTestNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestAccountService(t *testing.T) (*AccountService, *usermock.Repository, *usermock.SessionStore, *fakeFavoriteTeams) {
	t.Helper()

	users := usermock.NewRepository(t)
	sessions := usermock.NewSessionStore(t)
	teams := &fakeFavoriteTeams{}
	service := NewAccountService(AccountServiceConfig{
		Users:      users,
		Sessions:   sessions,
		Teams:      teams,
		SessionIDs: fixedGenerator{value: "sess-1"},
		UserTokens: fixedGenerator{value: "tok-1"},
		Now:        func() time.Time { return accountTestNow },
	})
	return service, users, sessions, teams
}

func TestAccountService_Register_CreatesUserAndSession(t *testing.T) {
	t.Parallel()

	service, users, sessions, _ := newTestAccountService(t)
	ctx := context.Background()

	users.On("FindByEmail", mock.Anything, "fan@gmail.com").Return(user.User{}, false, nil).Once()
	users.
		On("Create", mock.Anything, mock.MatchedBy(func(u user.User) bool {
			return u.Username == "fan" && u.Email == "fan@gmail.com" && u.Token == "tok-1" && u.Favorites != nil
		})).
		Return(user.User{ID: "7", Username: "fan", Email: "fan@gmail.com", Favorites: user.FavoriteSet{}}, nil).
		Once()
	sessions.
		On("SaveSession", mock.Anything, "sess-1", mock.MatchedBy(func(s user.Session) bool {
			return s.UserID == "7" && s.CreatedAt.Equal(accountTestNow)
		})).
		Return(nil).
		Once()

	got, err := service.Register(ctx, RegisterInput{
		Username:        " fan ",
		Email:           "Fan@Gmail.com",
		Password:        "secret",
		ConfirmPassword: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "sess-1", got.Token)
	assert.Equal(t, "7", got.UserID)
}

func TestAccountService_Register_RejectsInvalidInput(t *testing.T) {
	t.Parallel()

	service, _, _, _ := newTestAccountService(t)
	ctx := context.Background()

	cases := map[string]RegisterInput{
		"missing fields":    {Email: "fan@gmail.com"},
		"unsupported email": {Username: "fan", Email: "fan@example.com", Password: "a", ConfirmPassword: "a"},
		"password mismatch": {Username: "fan", Email: "fan@gmail.com", Password: "a", ConfirmPassword: "b"},
	}
	for name, input := range cases {
		_, err := service.Register(ctx, input)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got=%v", name, err)
		}
	}
}

func TestAccountService_Register_EmailTaken(t *testing.T) {
	t.Parallel()

	service, users, _, _ := newTestAccountService(t)
	users.On("FindByEmail", mock.Anything, "fan@gmail.com").Return(user.User{ID: "1"}, true, nil).Once()

	_, err := service.Register(context.Background(), RegisterInput{
		Username: "fan", Email: "fan@gmail.com", Password: "a", ConfirmPassword: "a",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAccountService_Login(t *testing.T) {
	t.Parallel()

	service, users, sessions, _ := newTestAccountService(t)
	ctx := context.Background()
	stored := user.User{ID: "7", Username: "fan", Email: "fan@gmail.com", Password: "secret"}

	users.On("FindByEmail", mock.Anything, "fan@gmail.com").Return(stored, true, nil).Twice()
	sessions.On("SaveSession", mock.Anything, "sess-1", mock.Anything).Return(nil).Once()

	_, err := service.Login(ctx, LoginInput{Email: "fan@gmail.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	got, err := service.Login(ctx, LoginInput{Email: "fan@gmail.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "fan", got.Username)
}

func TestAccountService_Authenticate(t *testing.T) {
	t.Parallel()

	service, _, sessions, _ := newTestAccountService(t)
	ctx := context.Background()

	sessions.On("LoadSession", mock.Anything, "sess-1").Return(user.Session{Token: "sess-1", UserID: "7", Email: "fan@gmail.com"}, true, nil).Once()
	sessions.On("LoadSession", mock.Anything, "gone").Return(user.Session{}, false, nil).Once()
	sessions.On("LoadSession", mock.Anything, "broken").Return(user.Session{}, false, errors.New("redis down")).Once()

	principal, err := service.Authenticate(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, user.Principal{UserID: "7", Email: "fan@gmail.com", Token: "sess-1"}, principal)

	_, err = service.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = service.Authenticate(ctx, "gone")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = service.Authenticate(ctx, "broken")
	assert.ErrorIs(t, err, ErrDependencyUnavailable)
}

func TestAccountService_ToggleFavorite_PersistsAndKeepsAvatar(t *testing.T) {
	t.Parallel()

	service, users, sessions, _ := newTestAccountService(t)
	ctx := context.Background()
	principal := user.Principal{UserID: "7", Email: "fan@gmail.com", Token: "sess-1"}
	current := user.Session{Token: "sess-1", UserID: "7", AvatarRef: "photo-1", CreatedAt: accountTestNow}

	sessions.On("LoadSession", mock.Anything, "sess-1").Return(current, true, nil).Once()
	users.On("GetByID", mock.Anything, "7").Return(user.User{ID: "7", Favorites: user.NewFavoriteSet("1", "2")}, true, nil).Once()
	users.
		On("Update", mock.Anything, "7", mock.MatchedBy(func(p user.Patch) bool {
			return p.Favorites != nil && assert.ObjectsAreEqual(user.FavoriteSet{"2"}, *p.Favorites)
		})).
		Return(user.User{ID: "7", Favorites: user.NewFavoriteSet("2")}, nil).
		Once()
	sessions.
		On("SaveSession", mock.Anything, "sess-1", mock.MatchedBy(func(s user.Session) bool {
			return s.AvatarRef == "photo-1" && s.CreatedAt.Equal(accountTestNow)
		})).
		Return(nil).
		Once()

	got, err := service.ToggleFavorite(ctx, principal, "1")
	require.NoError(t, err)
	assert.Equal(t, user.FavoriteSet{"2"}, got)

	_, err = service.ToggleFavorite(ctx, principal, " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAccountService_FavoriteTeams(t *testing.T) {
	t.Parallel()

	service, _, sessions, teams := newTestAccountService(t)
	ctx := context.Background()
	principal := user.Principal{UserID: "7", Token: "sess-1"}

	sessions.On("LoadSession", mock.Anything, "sess-1").Return(user.Session{Token: "sess-1", Favorites: user.NewFavoriteSet("5", "3")}, true, nil).Once()

	got, err := service.FavoriteTeams(ctx, principal)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"5", "3"}, teams.requested)
}

func TestAccountService_UpdateProfile_EmailConflict(t *testing.T) {
	t.Parallel()

	service, users, _, _ := newTestAccountService(t)
	principal := user.Principal{UserID: "7", Email: "fan@gmail.com", Token: "sess-1"}
	email := "other@gmail.com"

	users.On("FindByEmail", mock.Anything, email).Return(user.User{ID: "8"}, true, nil).Once()

	_, err := service.UpdateProfile(context.Background(), principal, ProfileUpdate{Email: &email})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAccountService_SetAvatar(t *testing.T) {
	t.Parallel()

	service, _, sessions, _ := newTestAccountService(t)
	principal := user.Principal{UserID: "7", Token: "sess-1"}

	sessions.On("LoadSession", mock.Anything, "sess-1").Return(user.Session{Token: "sess-1", UserID: "7"}, true, nil).Once()
	sessions.
		On("SaveSession", mock.Anything, "sess-1", mock.MatchedBy(func(s user.Session) bool { return s.AvatarRef == "blob:42" })).
		Return(nil).
		Once()

	got, err := service.SetAvatar(context.Background(), principal, " blob:42 ")
	require.NoError(t, err)
	assert.Equal(t, "blob:42", got.AvatarRef)
}
