package ports

import "context"

// RouteEvent is one fire-and-forget observability record for a completed
// (or failed) compute-phase execution.
type RouteEvent struct {
	RequestID       string
	Fingerprint     string
	CacheHit        bool
	DurationMS      int64
	PathsEvaluated  int
	AlternativesLen int
	Algorithm       string
	Criterion       string
	Err             string

	DijkstraCalls int
	AStarCalls    int
}

// AnalyticsSink receives RouteEvents. Implementations must not block the
// caller meaningfully; a slow or unavailable sink degrades to dropped
// events, never to a failed request.
type AnalyticsSink interface {
	Emit(ctx context.Context, ev RouteEvent)
}
