package coordinator

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"maritime-route-service/internal/domain"
)

// Fingerprint computes spec.md §3's canonical request fingerprint: a
// hex-encoded hash over the fields that determine the response, with
// continuous inputs rounded to fixed buckets so near-duplicate requests
// collapse onto the same cache entry and in-flight computation.
//
// Two requests that differ only in RequestID or fields finer than the
// documented rounding produce identical fingerprints.
func Fingerprint(req domain.RouteRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "origin=%s|dest=%s|", req.OriginCode, req.DestinationCode)
	fmt.Fprintf(&b, "length=%s|beam=%s|draft=%s|", roundTo(req.Vessel.LengthM, 0.5), roundTo(req.Vessel.BeamM, 0.5), roundTo(req.Vessel.DraftM, 0.5))
	fmt.Fprintf(&b, "cruise=%s|maxspeed=%s|", roundTo(req.Vessel.CruiseSpeedKn, 0.5), roundTo(req.Vessel.MaxSpeedKn, 0.5))
	fmt.Fprintf(&b, "fuel=%s|suez=%v|panama=%v|type=%s|", req.Vessel.FuelType, req.Vessel.SuezCompatible, req.Vessel.PanamaCompatible, req.Vessel.Type)
	fmt.Fprintf(&b, "criterion=%s|maxalt=%d|maxports=%d|", req.Criterion, req.MaxAlternatives, req.MaxConnectingPorts)
	fmt.Fprintf(&b, "depart_hour=%d", departureHourBucket(req))

	return fmt.Sprintf("%016x", xxhash.Sum64String(b.String()))
}

// roundTo rounds v to the nearest multiple of step, formatted with
// enough precision to be exact for the 0.5-sized buckets spec.md uses.
func roundTo(v, step float64) string {
	rounded := math.Round(v/step) * step
	return fmt.Sprintf("%.2f", rounded)
}

// departureHourBucket returns req.DepartAt truncated to the hour, as whole
// hours since the Unix epoch, so requests within the same clock hour fingerprint
// identically. A zero DepartAt (unspecified, meaning "now") buckets to 0.
func departureHourBucket(req domain.RouteRequest) int64 {
	if req.DepartAt.IsZero() {
		return 0
	}
	return req.DepartAt.UTC().Truncate(time.Hour).Unix() / 3600
}
