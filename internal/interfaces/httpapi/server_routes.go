package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerDivisionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/organizations/{organization}/divisions", handler.ListDivisions)
	mux.HandleFunc("POST /v1/organizations/{organization}/divisions", handler.CreateDivision)
	mux.HandleFunc("GET /v1/organizations/{organization}/divisions/{divisionID}", handler.GetStandings)
	mux.HandleFunc("PUT /v1/organizations/{organization}/divisions/{divisionID}", handler.UpdateDivision)
	mux.HandleFunc("DELETE /v1/organizations/{organization}/divisions/{divisionID}", handler.DeleteDivision)
	mux.HandleFunc("POST /v1/organizations/{organization}/divisions/{divisionID}/schedule", handler.UploadSchedule)
	mux.HandleFunc("GET /v1/organizations/{organization}/divisions/{divisionID}/games/{gameID}", handler.GetGames)
	mux.HandleFunc("PUT /v1/organizations/{organization}/divisions/{divisionID}/scores", handler.SaveScores)
}
