package postgres

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/riskibarqy/playscout/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserTableModel_ToDomain(t *testing.T) {
	t.Parallel()

	cases := map[string]user.FavoriteSet{
		``:           {},
		`[]`:         {},
		`["1","2"]`:  {"1", "2"},
		`"legacy-9"`: {"legacy-9"},
	}
	for raw, want := range cases {
		got, err := userTableModel{ID: 7, Email: "fan@gmail.com", Favorites: raw}.toDomain()
		require.NoError(t, err, raw)
		assert.Equal(t, "7", got.ID)
		assert.Equal(t, want, got.Favorites, raw)
	}

	_, err := userTableModel{ID: 1, Favorites: `{broken`}.toDomain()
	assert.Error(t, err)
}

func TestEncodeFavorites(t *testing.T) {
	t.Parallel()

	raw, err := encodeFavorites(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)

	raw, err = encodeFavorites(user.NewFavoriteSet("3", "4"))
	require.NoError(t, err)
	assert.JSONEq(t, `["3","4"]`, raw)
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	if !isUniqueViolation(&pq.Error{Code: "23505"}) {
		t.Fatalf("expected unique violation to match")
	}
	if isUniqueViolation(errors.New("pq: relation users does not exist")) {
		t.Fatalf("expected plain error to be ignored")
	}
}
