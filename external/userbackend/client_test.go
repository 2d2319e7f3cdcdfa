package userbackend

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/riskibarqy/playscout/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUsers mimics json-server: ids are assigned on POST, PATCH merges fields.
type fakeUsers struct {
	mu    sync.Mutex
	users map[string]string
	body  string
}

func (f *fakeUsers) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, _ := io.ReadAll(r.Body)
	f.body = string(raw)

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/users":
		if r.URL.Query().Get("email") == "ana@gmail.com" {
			_, _ = w.Write([]byte(`[{"id":1,"username":"ana","email":"ana@gmail.com","password":"x","token":"t","favorito":"96"}]`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":1,"username":"ana","email":"ana@gmail.com","password":"x","token":"t","favorito":"96"},
			{"id":"2","username":"bia","email":"bia@hotmail.com","password":"y","token":"u","favorito":["96","97"]}]`))
	case r.Method == http.MethodGet && r.URL.Path == "/users/404":
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{}`))
	case r.Method == http.MethodPost && r.URL.Path == "/users":
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":3,"username":"caio","email":"caio@yahoo.com","password":"z","token":"v","favorito":[]}`))
	case r.Method == http.MethodPatch && r.URL.Path == "/users/1":
		_, _ = w.Write([]byte(`{"id":1,"username":"ana","email":"ana@gmail.com","password":"x","token":"t","favorito":["96","152"]}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func TestList_DecodesLegacyFavorites(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(&fakeUsers{})
	defer srv.Close()

	users, err := NewClient(ClientConfig{HTTPClient: srv.Client(), BaseURL: srv.URL}).List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "1", users[0].ID)
	assert.Equal(t, user.FavoriteSet{"96"}, users[0].Favorites)
	assert.Equal(t, user.FavoriteSet{"96", "97"}, users[1].Favorites)
}

func TestFindByEmail(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(&fakeUsers{})
	defer srv.Close()

	client := NewClient(ClientConfig{HTTPClient: srv.Client(), BaseURL: srv.URL})
	found, ok, err := client.FindByEmail(context.Background(), " ANA@gmail.com ")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ana", found.Username)
}

func TestGetByID_Missing(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(&fakeUsers{})
	defer srv.Close()

	_, ok, err := NewClient(ClientConfig{HTTPClient: srv.Client(), BaseURL: srv.URL}).GetByID(context.Background(), "404")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateAndUpdate_WriteArrayFavorites(t *testing.T) {
	t.Parallel()

	fake := &fakeUsers{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	client := NewClient(ClientConfig{HTTPClient: srv.Client(), BaseURL: srv.URL})
	created, err := client.Create(context.Background(), user.User{Username: "caio", Email: "caio@yahoo.com", Password: "z", Token: "v"})
	require.NoError(t, err)
	assert.Equal(t, "3", created.ID)
	fake.mu.Lock()
	assert.Contains(t, fake.body, `"favorito":[]`)
	assert.NotContains(t, fake.body, `"id"`)
	fake.mu.Unlock()

	favorites := user.NewFavoriteSet("96", "152")
	updated, err := client.Update(context.Background(), "1", user.Patch{Favorites: &favorites})
	require.NoError(t, err)
	assert.Equal(t, favorites, updated.Favorites)
	fake.mu.Lock()
	assert.True(t, strings.Contains(fake.body, `"favorito":["96","152"]`), fake.body)
	assert.NotContains(t, fake.body, `"username"`)
	fake.mu.Unlock()
}
