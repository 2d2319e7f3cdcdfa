package httpapi

import "net/http"

const streamPath = "/v1/fixtures/stream"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/fixtures", handler.ListFixtures)
	mux.HandleFunc("GET "+streamPath, handler.StreamFixtures)
	mux.HandleFunc("GET /v1/news", handler.ListNews)
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/standings", handler.ListLeagueStandings)
	mux.HandleFunc("GET /v1/teams", handler.SearchTeams)
	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeamDetails)
	mux.HandleFunc("POST /v1/auth/register", handler.Register)
	mux.HandleFunc("POST /v1/auth/login", handler.Login)
}

func registerAccountRoutes(mux *http.ServeMux, handler *Handler, authenticator Authenticator) {
	mux.Handle("POST /v1/auth/logout", RequireAuth(authenticator, http.HandlerFunc(handler.Logout)))
	mux.Handle("GET /v1/me", RequireAuth(authenticator, http.HandlerFunc(handler.GetProfile)))
	mux.Handle("PATCH /v1/me", RequireAuth(authenticator, http.HandlerFunc(handler.UpdateProfile)))
	mux.Handle("PUT /v1/me/avatar", RequireAuth(authenticator, http.HandlerFunc(handler.SetAvatar)))
	mux.Handle("GET /v1/me/favorites", RequireAuth(authenticator, http.HandlerFunc(handler.ListFavorites)))
	mux.Handle("PUT /v1/me/favorites/{teamID}", RequireAuth(authenticator, http.HandlerFunc(handler.ToggleFavorite)))
	mux.Handle("DELETE /v1/me/favorites/{teamID}", RequireAuth(authenticator, http.HandlerFunc(handler.RemoveFavorite)))
}
