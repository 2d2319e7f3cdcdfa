package user

import (
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteSet_DecodesLegacyShapes(t *testing.T) {
	t.Parallel()

	cases := map[string]FavoriteSet{
		`""`:                {},
		`null`:              {},
		`"1234"`:            {"1234"},
		`1234`:              {"1234"},
		`["1", 2, "1", ""]`: {"1", "2"},
	}

	for raw, want := range cases {
		var got FavoriteSet
		require.NoError(t, sonic.Unmarshal([]byte(raw), &got), raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestFavoriteSet_EncodesAsArray(t *testing.T) {
	t.Parallel()

	var empty FavoriteSet
	raw, err := sonic.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))

	raw, err = sonic.Marshal(struct {
		Favorito FavoriteSet `json:"favorito"`
	}{Favorito: NewFavoriteSet("10", "20")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"favorito":["10","20"]}`, string(raw))
}

func TestFavoriteSet_Toggle(t *testing.T) {
	t.Parallel()

	set := NewFavoriteSet("1")
	set = set.Toggle("2")
	assert.Equal(t, FavoriteSet{"1", "2"}, set)
	set = set.Toggle("1")
	assert.Equal(t, FavoriteSet{"2"}, set)
	assert.False(t, set.Contains("1"))
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateEmail("Torcedor@Gmail.com"))
	assert.NoError(t, ValidateEmail("fan@live.com"))
	assert.ErrorIs(t, ValidateEmail("fan@example.com"), ErrUnsupportedEmail)
	assert.ErrorIs(t, ValidateEmail("fan @gmail.com"), ErrUnsupportedEmail)
}
