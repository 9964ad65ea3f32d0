package dto

import "time"

// CalculateRequest is the request body for POST /routes/calculate and
// POST /routes/validate.
type CalculateRequest struct {
	RequestID string `json:"request_id,omitempty"`

	OriginCode      string        `json:"origin_code"`
	DestinationCode string        `json:"destination_code"`
	Vessel          VesselRequest `json:"vessel"`
	Criterion       string        `json:"criterion"`

	MaxAlternatives    int `json:"max_alternatives,omitempty"`
	MaxConnectingPorts int `json:"max_connecting_ports,omitempty"`

	DepartAt *time.Time `json:"depart_at,omitempty"`

	TimeoutSeconds int `json:"timeout_seconds,omitempty"`
}

// WaypointResponse is one interpolated point along a segment's great
// circle.
type WaypointResponse struct {
	LatDeg float64 `json:"lat_deg"`
	LonDeg float64 `json:"lon_deg"`
}

type SegmentResponse struct {
	From string `json:"from"`
	To   string `json:"to"`

	Waypoints []WaypointResponse `json:"waypoints"`

	DistanceNM    float64 `json:"distance_nm"`
	TransitTimeH  float64 `json:"transit_time_h"`
	FuelTons      float64 `json:"fuel_tons"`
	FuelCostUSD   float64 `json:"fuel_cost_usd"`
	PortFeesUSD   float64 `json:"port_fees_usd"`
	CanalFeesUSD  float64 `json:"canal_fees_usd"`
	WeatherRisk   float64 `json:"weather_risk"`
	PiracyRisk    float64 `json:"piracy_risk"`
	PoliticalRisk float64 `json:"political_risk"`
}

type DetailedRouteResponse struct {
	Segments []SegmentResponse `json:"segments"`

	TotalDistanceNM   float64 `json:"total_distance_nm"`
	TotalTimeHours    float64 `json:"total_time_hours"`
	TotalFuelTons     float64 `json:"total_fuel_tons"`
	TotalFuelCostUSD  float64 `json:"total_fuel_cost_usd"`
	TotalPortFeesUSD  float64 `json:"total_port_fees_usd"`
	TotalCanalFeesUSD float64 `json:"total_canal_fees_usd"`
	TotalCostUSD      float64 `json:"total_cost_usd"`

	EfficiencyScore          float64 `json:"efficiency_score"`
	ReliabilityScore         float64 `json:"reliability_score"`
	EnvironmentalImpactScore float64 `json:"environmental_impact_score"`
	OverallOptimizationScore float64 `json:"overall_optimization_score"`
	OverallRiskScore         float64 `json:"overall_risk_score"`

	IntermediatePorts []string `json:"intermediate_ports"`
}

type RouteResponse struct {
	RequestID string `json:"request_id"`

	CalculatedAt      time.Time `json:"calculated_at"`
	CalculationTimeMS int64     `json:"calculation_time_ms"`

	PrimaryRoute *DetailedRouteResponse   `json:"primary_route"`
	Alternatives []DetailedRouteResponse  `json:"alternatives,omitempty"`

	Algorithm           string `json:"algorithm"`
	CriteriaUsed        string `json:"criteria_used"`
	CandidatesEvaluated int    `json:"candidates_evaluated"`

	CacheHit bool `json:"cache_hit"`

	Diagnostics []string `json:"diagnostics,omitempty"`
}

// ValidateResponse is the body of a successful POST /routes/validate.
type ValidateResponse struct {
	Valid bool `json:"valid"`
}

// ErrorResponse is spec.md §6's fixed error envelope.
type ErrorResponse struct {
	Error     string         `json:"error"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}
