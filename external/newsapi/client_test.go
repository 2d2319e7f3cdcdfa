package newsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riskibarqy/playscout/internal/domain/news"
	"github.com/riskibarqy/playscout/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_MapsArticles(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/everything" || q.Get("q") != "futebol" || q.Get("language") != "pt" || q.Get("pageSize") != "20" || q.Get("apiKey") != "n" {
			t.Errorf("unexpected request: %s", r.URL.String())
		}
		_, _ = w.Write([]byte(`{"status":"ok","articles":[
			{"source":{"name":"Lance"},"title":"Flamengo vence","description":"Gol no fim do jogo","url":"https://x/1","urlToImage":"https://x/1.png","publishedAt":"2024-05-01T20:00:00Z"},
			{"source":{"name":"ESPN"},"title":"Sem data","description":"Partida adiada","publishedAt":""}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{HTTPClient: srv.Client(), BaseURL: srv.URL, APIKey: "n"})
	articles, err := client.Search(context.Background(), news.Query{Text: "futebol", Language: "pt", SortBy: "publishedAt", PageSize: 20})
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "Lance", articles[0].SourceName)
	require.NotNil(t, articles[0].PublishedAt)
	assert.Nil(t, articles[1].PublishedAt)
}

func TestSearch_ErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid"}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{HTTPClient: srv.Client(), BaseURL: srv.URL, APIKey: "n"})
	_, err := client.Search(context.Background(), news.Query{Text: "futebol"})
	require.ErrorIs(t, err, usecase.ErrDependencyUnavailable)
}
