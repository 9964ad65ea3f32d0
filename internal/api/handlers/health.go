package handlers

import (
	"net/http"

	"maritime-route-service/internal/api/dto"
	"maritime-route-service/internal/graphbuild"
)

// HealthHandler reports liveness plus the currently active catalog
// generation, per SPEC_FULL.md's health-check addition.
type HealthHandler struct {
	Graph *graphbuild.Handle
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	res := dto.HealthResponse{Status: "ok"}
	if snap := h.Graph.Snapshot(); snap != nil {
		builtAt := snap.BuiltAt
		res.CatalogGeneration = snap.Generation
		res.CatalogBuiltAt = &builtAt
		res.CatalogNodeCount = snap.Stats.NodeCount
	} else {
		res.Status = "degraded"
	}

	writeJSON(w, r, http.StatusOK, res)
}
