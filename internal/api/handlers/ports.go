package handlers

import (
	"net/http"
	"strconv"

	"maritime-route-service/internal/api/dto"
	"maritime-route-service/internal/apperr"
	"maritime-route-service/internal/domain"
	"maritime-route-service/internal/ports"
)

// PortHandler exposes the read-only port repository endpoints of
// spec.md §4.2: text search and single-port lookup.
type PortHandler struct {
	Repo ports.PortRepository
}

func toPortResponse(p domain.Port) dto.PortResponse {
	return dto.PortResponse{
		Code: p.Code, Name: p.Name, Country: p.Country,
		LatDeg: p.LatDeg, LonDeg: p.LonDeg,
		Type: string(p.Type), Status: string(p.Status),
		MaxLengthM: p.MaxLengthM, MaxBeamM: p.MaxBeamM, MaxDraftM: p.MaxDraftM,
		BerthCount: p.BerthCount, CongestionFactor: p.CongestionFactor,
		AvgPortStayHours: p.AvgPortStayHours, Services: p.Services,
		SuezConnected: p.SuezConnected, PanamaConnected: p.PanamaConnected,
	}
}

// Search handles GET /ports/search?q=...&limit=...&country=....
func (h *PortHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("q")

	limit := 20
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	opts := domain.SearchOptions{
		Limit:           limit,
		Country:         q.Get("country"),
		IncludeInactive: q.Get("include_inactive") == "true",
	}

	hits, err := h.Repo.Search(r.Context(), query, opts)
	if err != nil {
		writeAppErr(w, r, "", err)
		return
	}

	res := dto.SearchPortsResponse{Results: make([]dto.SearchHitResponse, 0, len(hits))}
	for _, hit := range hits {
		res.Results = append(res.Results, dto.SearchHitResponse{
			Port:                toPortResponse(hit.Port),
			RelevanceScore:      hit.RelevanceScore,
			DistanceFromQueryNM: hit.DistanceFromQueryNM,
			Notes:               hit.Notes,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Get handles GET /ports/{code}.
func (h *PortHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if !domain.ValidUNLOCODE(code) {
		writeError(w, r, http.StatusBadRequest, string(apperr.KindValidation), "code must match ^[A-Z]{5}$")
		return
	}

	port, err := h.Repo.Get(r.Context(), code)
	if err != nil {
		writeAppErr(w, r, "", err)
		return
	}

	writeJSON(w, r, http.StatusOK, toPortResponse(port))
}

// Nearby handles GET /ports/nearby?lat=...&lon=...&radius_nm=...&limit=...
func (h *PortHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, err1 := strconv.ParseFloat(q.Get("lat"), 64)
	lon, err2 := strconv.ParseFloat(q.Get("lon"), 64)
	if err1 != nil || err2 != nil {
		writeError(w, r, http.StatusBadRequest, string(apperr.KindValidation), "lat and lon are required numeric query parameters")
		return
	}
	radiusNM := 500.0
	if v := q.Get("radius_nm"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			radiusNM = f
		}
	}
	limit := 20
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	found, err := h.Repo.Nearby(r.Context(), lat, lon, radiusNM, limit)
	if err != nil {
		writeAppErr(w, r, "", err)
		return
	}

	res := dto.NearbyPortsResponse{Results: make([]dto.PortResponse, 0, len(found))}
	for _, p := range found {
		res.Results = append(res.Results, toPortResponse(p))
	}

	writeJSON(w, r, http.StatusOK, res)
}
