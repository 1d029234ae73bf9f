package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerSquadRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/pool", handler.ListPool)
	mux.HandleFunc("GET /v1/squad", handler.GetSquad)
	mux.HandleFunc("POST /v1/squad/players", handler.AddPlayerToSquad)
	mux.HandleFunc("DELETE /v1/squad/players/{playerID}", handler.RemovePlayerFromSquad)
	mux.HandleFunc("POST /v1/squad/reset", handler.ResetSquad)
}
