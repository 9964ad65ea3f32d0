// Package costmodel implements spec.md §4.5's edge cost model: a
// deterministic (edge, vessel, criterion) -> scalar-cost-plus-breakdown
// function, backed by table-driven fuel/fee constants rather than the
// hardcoded values the original Python service used.
package costmodel

import (
	"encoding/json"
	"os"

	"maritime-route-service/internal/domain"
)

// Tables holds every tunable constant spec.md §4.5 and its Open
// Questions section leaves as "table-driven from configuration."
// Defaults below translate original_source/app/utils/
// maritime_calculations.py's constants into spec.md §4.5's simpler
// formula shapes (see DESIGN.md).
type Tables struct {
	BaseFuelRatePerVesselType map[domain.VesselType]float64 `json:"base_fuel_rate_per_vessel_type"`
	FuelPricePerTon           map[domain.FuelType]float64   `json:"fuel_price_per_ton"`

	PortFeePerDWTUSD float64 `json:"port_fee_per_dwt_usd"`
	PortFeeFlatUSD   float64 `json:"port_fee_flat_usd"`
	DefaultDWT       float64 `json:"default_dwt"`

	SuezFeePerGTUSD        float64 `json:"suez_fee_per_gt_usd"`
	PanamaFeePerNetTonUSD  float64 `json:"panama_fee_per_net_ton_usd"`
	DefaultGrossTonnage    float64 `json:"default_gross_tonnage"`

	CanalSpeedCapKn float64 `json:"canal_speed_cap_kn"`

	FacilityFeeDiscount map[string]float64 `json:"facility_fee_discount"`
}

// DefaultTables returns spec.md §4.5's fixed base_rate table
// ({container:150, tanker:80, bulk:45, general_cargo:25, default:50})
// plus reasonable fuel-price/port-fee/canal-fee constants for the
// fields the distillation left as open questions.
func DefaultTables() Tables {
	return Tables{
		BaseFuelRatePerVesselType: map[domain.VesselType]float64{
			domain.VesselContainer:    150,
			domain.VesselTanker:       80,
			domain.VesselBulk:         45,
			domain.VesselGeneralCargo: 25,
			domain.VesselOther:        50,
		},
		FuelPricePerTon: map[domain.FuelType]float64{
			domain.FuelVLSFO: 620,
			domain.FuelMGO:   780,
			domain.FuelLNG:   540,
			domain.FuelHFO:   430,
		},
		PortFeePerDWTUSD: 0.85,
		PortFeeFlatUSD:   4500,
		DefaultDWT:       30000,

		SuezFeePerGTUSD:       8.2,
		PanamaFeePerNetTonUSD: 6.1,
		DefaultGrossTonnage:   45000,

		CanalSpeedCapKn: 8,

		FacilityFeeDiscount: map[string]float64{
			"bunkering": 0.05,
		},
	}
}

// baseFuelRate returns the configured rate, falling back to the
// "default" table entry for unrecognized vessel types.
func (t Tables) baseFuelRate(vt domain.VesselType) float64 {
	if r, ok := t.BaseFuelRatePerVesselType[vt]; ok {
		return r
	}
	return t.BaseFuelRatePerVesselType[domain.VesselOther]
}

func (t Tables) fuelPrice(ft domain.FuelType) float64 {
	return t.FuelPricePerTon[ft]
}

// LoadTables reads a costmodel.json seed file, falling back to
// DefaultTables when path is empty or the file does not exist —
// table-driven configuration is an enhancement, not a hard requirement.
func LoadTables(path string) (Tables, error) {
	defaults := DefaultTables()
	if path == "" {
		return defaults, nil
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return defaults, nil
	}
	if err != nil {
		return Tables{}, err
	}

	t := defaults
	if err := json.Unmarshal(raw, &t); err != nil {
		return Tables{}, err
	}
	return t, nil
}
