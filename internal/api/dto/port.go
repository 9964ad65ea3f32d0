package dto

type PortResponse struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Country string `json:"country"`

	LatDeg float64 `json:"lat_deg"`
	LonDeg float64 `json:"lon_deg"`

	Type   string `json:"type"`
	Status string `json:"status"`

	MaxLengthM *float64 `json:"max_length_m,omitempty"`
	MaxBeamM   *float64 `json:"max_beam_m,omitempty"`
	MaxDraftM  *float64 `json:"max_draft_m,omitempty"`

	BerthCount       int      `json:"berth_count"`
	CongestionFactor float64  `json:"congestion_factor"`
	AvgPortStayHours float64  `json:"avg_port_stay_hours"`
	Services         []string `json:"services,omitempty"`

	SuezConnected   bool `json:"suez_connected"`
	PanamaConnected bool `json:"panama_connected"`
}

type SearchHitResponse struct {
	Port                PortResponse `json:"port"`
	RelevanceScore      float64      `json:"relevance_score"`
	DistanceFromQueryNM *float64     `json:"distance_from_query_nm,omitempty"`
	Notes               []string     `json:"notes,omitempty"`
}

type SearchPortsResponse struct {
	Results []SearchHitResponse `json:"results"`
}

type NearbyPortsResponse struct {
	Results []PortResponse `json:"results"`
}
