package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeam)
	mux.HandleFunc("GET /v1/teams/{teamID}/players", handler.ListTeamPlayers)
	mux.HandleFunc("GET /v1/games", handler.ListGamesByDate)
	mux.HandleFunc("GET /v1/games/{gameID}", handler.GetGame)
	mux.HandleFunc("GET /v1/games/{gameID}/plays", handler.ListGamePlays)
	mux.HandleFunc("GET /v1/games/{gameID}/anomalies", handler.ListGameAnomalies)
	mux.HandleFunc("GET /v1/anomalies", handler.ListRecentAnomalies)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/sync-schedule", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunScheduleSyncJob)))
	mux.Handle("POST /v1/internal/jobs/sync-live", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunLiveCycleJob)))
	mux.Handle("POST /v1/internal/jobs/sync-game", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunGameSyncJob)))
	mux.Handle("POST /v1/internal/jobs/sync-rosters", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRosterSyncJob)))
}
