package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/roster", handler.ListMatchRoster)
	mux.HandleFunc("GET /v1/matches/{matchID}/predictions", handler.ListMatchPredictions)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/generate-predictions", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunGeneratePredictionsJob)))
	mux.Handle("POST /v1/internal/jobs/refresh-predictions", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRefreshPredictionsJob)))
	mux.Handle("POST /v1/internal/jobs/sync-schedule", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncScheduleJob)))
	mux.Handle("POST /v1/internal/jobs/sync-gamelogs", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncGamelogsJob)))
}
