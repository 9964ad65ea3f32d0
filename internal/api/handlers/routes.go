package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"

	"maritime-route-service/internal/api/dto"
	"maritime-route-service/internal/coordinator"
	"maritime-route-service/internal/domain"
)

// RouteHandler exposes the route calculation and validation endpoints
// spec.md §6 names, delegating everything past request decoding to the
// coordinator.
type RouteHandler struct {
	Coordinator *coordinator.Coordinator
}

func decodeCalculateRequest(w http.ResponseWriter, r *http.Request) (dto.CalculateRequest, bool) {
	var req dto.CalculateRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return dto.CalculateRequest{}, false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "body must contain only one JSON object")
		return dto.CalculateRequest{}, false
	}

	return req, true
}

func toDomainRequest(req dto.CalculateRequest) domain.RouteRequest {
	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	out := domain.RouteRequest{
		RequestID:       requestID,
		OriginCode:      req.OriginCode,
		DestinationCode: req.DestinationCode,
		Vessel: domain.VesselConstraints{
			Type:              domain.VesselType(req.Vessel.Type),
			LengthM:           req.Vessel.LengthM,
			BeamM:             req.Vessel.BeamM,
			DraftM:            req.Vessel.DraftM,
			DeadweightTonnage: req.Vessel.DeadweightTonnage,
			GrossTonnage:      req.Vessel.GrossTonnage,
			CruiseSpeedKn:     req.Vessel.CruiseSpeedKn,
			MaxSpeedKn:        req.Vessel.MaxSpeedKn,
			MaxRangeNM:        req.Vessel.MaxRangeNM,
			FuelType:          domain.FuelType(req.Vessel.FuelType),
			SuezCompatible:    req.Vessel.SuezCompatible,
			PanamaCompatible:  req.Vessel.PanamaCompatible,
		},
		Criterion:          domain.OptimizationCriterion(req.Criterion),
		MaxAlternatives:    req.MaxAlternatives,
		MaxConnectingPorts: req.MaxConnectingPorts,
		TimeoutSeconds:     req.TimeoutSeconds,
	}
	if req.DepartAt != nil {
		out.DepartAt = *req.DepartAt
	}
	if out.TimeoutSeconds == 0 {
		out.TimeoutSeconds = 30
	}
	return out
}

func toSegmentResponse(seg domain.RouteSegment) dto.SegmentResponse {
	waypoints := make([]dto.WaypointResponse, 0, len(seg.Waypoints))
	for _, p := range seg.Waypoints {
		waypoints = append(waypoints, dto.WaypointResponse{LatDeg: p.LatDeg, LonDeg: p.LonDeg})
	}
	return dto.SegmentResponse{
		From: seg.From, To: seg.To,
		Waypoints:     waypoints,
		DistanceNM:    seg.DistanceNM,
		TransitTimeH:  seg.TransitTimeH,
		FuelTons:      seg.FuelTons,
		FuelCostUSD:   seg.FuelCostUSD,
		PortFeesUSD:   seg.PortFeesUSD,
		CanalFeesUSD:  seg.CanalFeesUSD,
		WeatherRisk:   seg.WeatherRisk,
		PiracyRisk:    seg.PiracyRisk,
		PoliticalRisk: seg.PoliticalRisk,
	}
}

func toDetailedRouteResponse(r *domain.DetailedRoute) dto.DetailedRouteResponse {
	if r == nil {
		return dto.DetailedRouteResponse{}
	}
	segs := make([]dto.SegmentResponse, 0, len(r.Segments))
	for _, s := range r.Segments {
		segs = append(segs, toSegmentResponse(s))
	}
	return dto.DetailedRouteResponse{
		Segments:                 segs,
		TotalDistanceNM:          r.TotalDistanceNM,
		TotalTimeHours:           r.TotalTimeHours,
		TotalFuelTons:            r.TotalFuelTons,
		TotalFuelCostUSD:         r.TotalFuelCostUSD,
		TotalPortFeesUSD:         r.TotalPortFeesUSD,
		TotalCanalFeesUSD:        r.TotalCanalFeesUSD,
		TotalCostUSD:             r.TotalCostUSD,
		EfficiencyScore:          r.EfficiencyScore,
		ReliabilityScore:         r.ReliabilityScore,
		EnvironmentalImpactScore: r.EnvironmentalImpactScore,
		OverallOptimizationScore: r.OverallOptimizationScore,
		OverallRiskScore:         r.OverallRiskScore,
		IntermediatePorts:        r.IntermediatePorts,
	}
}

func toRouteResponse(resp *domain.RouteResponse) dto.RouteResponse {
	alternatives := make([]dto.DetailedRouteResponse, 0, len(resp.Alternatives))
	for i := range resp.Alternatives {
		alternatives = append(alternatives, toDetailedRouteResponse(&resp.Alternatives[i]))
	}
	var primary *dto.DetailedRouteResponse
	if resp.PrimaryRoute != nil {
		p := toDetailedRouteResponse(resp.PrimaryRoute)
		primary = &p
	}
	return dto.RouteResponse{
		RequestID:           resp.RequestID,
		CalculatedAt:        resp.CalculatedAt,
		CalculationTimeMS:   resp.CalculationTimeMS,
		PrimaryRoute:        primary,
		Alternatives:        alternatives,
		Algorithm:           resp.Algorithm,
		CriteriaUsed:        string(resp.CriteriaUsed),
		CandidatesEvaluated: resp.CandidatesEvaluated,
		CacheHit:            resp.CacheHit,
		Diagnostics:         resp.Diagnostics,
	}
}

// Calculate handles POST /routes/calculate: spec.md §4.8's full pipeline.
func (h *RouteHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCalculateRequest(w, r)
	if !ok {
		return
	}
	domReq := toDomainRequest(req)

	resp, err := h.Coordinator.Compute(r.Context(), domReq)
	if err != nil {
		writeAppErr(w, r, domReq.RequestID, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toRouteResponse(resp))
}

// Validate handles POST /routes/validate: step 1 of §4.8 only.
func (h *RouteHandler) Validate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCalculateRequest(w, r)
	if !ok {
		return
	}
	domReq := toDomainRequest(req)

	if err := h.Coordinator.Validate(r.Context(), domReq); err != nil {
		writeAppErr(w, r, domReq.RequestID, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ValidateResponse{Valid: true})
}
