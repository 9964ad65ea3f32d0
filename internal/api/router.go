package api

import (
	"net/http"

	"maritime-route-service/internal/api/handlers"
	"maritime-route-service/internal/coordinator"
	"maritime-route-service/internal/graphbuild"
	"maritime-route-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay unaware
// of concrete adapters). Method-prefixed patterns mean ServeMux itself
// rejects a wrong-method request with 405 before a handler ever runs, so
// handlers don't re-check r.Method.
func NewRouter(repo ports.PortRepository, graph *graphbuild.Handle, coord *coordinator.Coordinator) http.Handler {
	mux := http.NewServeMux()

	healthHandler := &handlers.HealthHandler{Graph: graph}
	routeHandler := &handlers.RouteHandler{Coordinator: coord}
	portHandler := &handlers.PortHandler{Repo: repo}

	mux.HandleFunc("GET /health", healthHandler.Health)

	mux.HandleFunc("POST /routes/calculate", routeHandler.Calculate)
	mux.HandleFunc("POST /routes/validate", routeHandler.Validate)

	mux.HandleFunc("GET /ports/search", portHandler.Search)
	mux.HandleFunc("GET /ports/nearby", portHandler.Nearby)
	mux.HandleFunc("GET /ports/{code}", portHandler.Get)

	return loggingMiddleware(mux)
}
