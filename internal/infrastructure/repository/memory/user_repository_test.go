package memory

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/playscout/internal/domain/user"
	"github.com/riskibarqy/playscout/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateFindUpdate(t *testing.T) {
	t.Parallel()

	repo := NewUserRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, user.User{Username: "fan", Email: "Fan@Gmail.com", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "1", created.ID)
	assert.NotNil(t, created.Favorites)

	found, ok, err := repo.FindByEmail(ctx, "fan@gmail.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, created.ID, found.ID)

	favorites := user.NewFavoriteSet("10")
	updated, err := repo.Update(ctx, created.ID, user.Patch{Favorites: &favorites})
	require.NoError(t, err)
	assert.Equal(t, user.FavoriteSet{"10"}, updated.Favorites)

	favorites[0] = "mutated"
	stored, _, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, user.FavoriteSet{"10"}, stored.Favorites)

	_, err = repo.Update(ctx, "404", user.Patch{})
	assert.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestLeagueRepository_SeedOrder(t *testing.T) {
	t.Parallel()

	repo := NewLeagueRepository(SeedLeagues())
	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 5)
	assert.Equal(t, LeagueIDBrasileiraoSerieA, items[0].ID)

	_, ok, err := repo.GetByID(context.Background(), LeagueIDBundesliga)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSessionStore_Expires(t *testing.T) {
	t.Parallel()

	store := NewSessionStore(20 * time.Millisecond)
	ctx := context.Background()
	require.NoError(t, store.SaveSession(ctx, "tok", user.Session{Token: "tok", UserID: "1"}))

	_, ok, err := store.LoadSession(ctx, "tok")
	require.NoError(t, err)
	require.True(t, ok)

	require.Eventually(t, func() bool {
		_, ok, _ := store.LoadSession(ctx, "tok")
		return !ok
	}, time.Second, 5*time.Millisecond)
}
