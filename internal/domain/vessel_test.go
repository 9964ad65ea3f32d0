package domain

import "testing"

func validVessel() VesselConstraints {
	return VesselConstraints{
		Type:          VesselContainer,
		LengthM:       300,
		BeamM:         45,
		DraftM:        14,
		CruiseSpeedKn: 18,
		MaxSpeedKn:    22,
		FuelType:      FuelVLSFO,
		SuezCompatible: true,
	}
}

func TestVesselValidateOK(t *testing.T) {
	if err := validVessel().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVesselValidateBeamExceedsLength(t *testing.T) {
	v := validVessel()
	v.BeamM = v.LengthM + 1
	if err := v.Validate(); err == nil {
		t.Fatal("expected error when beam > length")
	}
}

func TestVesselValidateSpeedOrdering(t *testing.T) {
	v := validVessel()
	v.MaxSpeedKn = v.CruiseSpeedKn - 1
	if err := v.Validate(); err == nil {
		t.Fatal("expected error when max_speed < cruise_speed")
	}
}

func TestVesselValidateSpeedRange(t *testing.T) {
	v := validVessel()
	v.CruiseSpeedKn = 0
	if err := v.Validate(); err == nil {
		t.Fatal("expected error for cruise_speed_kn out of [1, 40]")
	}
}

func TestVesselValidateUnknownFuel(t *testing.T) {
	v := validVessel()
	v.FuelType = "diesel"
	if err := v.Validate(); err == nil {
		t.Fatal("expected error for unrecognized fuel type")
	}
}

func TestVesselDeadweightOr(t *testing.T) {
	v := validVessel()
	if got := v.DeadweightOr(30000); got != 30000 {
		t.Fatalf("DeadweightOr fallback = %v, want 30000", got)
	}

	dwt := 90000.0
	v.DeadweightTonnage = &dwt
	if got := v.DeadweightOr(30000); got != 90000 {
		t.Fatalf("DeadweightOr with value = %v, want 90000", got)
	}
}
