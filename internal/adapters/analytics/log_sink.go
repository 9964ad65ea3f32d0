// Package analytics provides a fire-and-forget AnalyticsSink, following
// the teacher's platform/obs timing-log idiom rather than introducing a
// metrics/tracing library the pack never exercises for this concern.
package analytics

import (
	"context"
	"log"

	"maritime-route-service/internal/ports"
)

// LogSink emits route events as a single log line each, off a bounded
// buffered channel drained by one background goroutine. A full buffer
// drops the event rather than blocking the coordinator — analytics must
// never be on the request's hard path.
type LogSink struct {
	events chan ports.RouteEvent
}

// NewLogSink starts the background drain goroutine and returns a ready
// sink. Call Close to stop it during shutdown.
func NewLogSink(bufferSize int) *LogSink {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	s := &LogSink{events: make(chan ports.RouteEvent, bufferSize)}
	go s.run()
	return s
}

func (s *LogSink) run() {
	for ev := range s.events {
		if ev.Err != "" {
			log.Printf(
				"req_id=%s fingerprint=%s cache_hit=%v dur=%dms paths=%d alts=%d algo=%s criterion=%s dijkstra=%d astar=%d err=%v",
				ev.RequestID, ev.Fingerprint, ev.CacheHit, ev.DurationMS, ev.PathsEvaluated,
				ev.AlternativesLen, ev.Algorithm, ev.Criterion, ev.DijkstraCalls, ev.AStarCalls, ev.Err,
			)
			continue
		}
		log.Printf(
			"req_id=%s fingerprint=%s cache_hit=%v dur=%dms paths=%d alts=%d algo=%s criterion=%s dijkstra=%d astar=%d",
			ev.RequestID, ev.Fingerprint, ev.CacheHit, ev.DurationMS, ev.PathsEvaluated,
			ev.AlternativesLen, ev.Algorithm, ev.Criterion, ev.DijkstraCalls, ev.AStarCalls,
		)
	}
}

// Emit enqueues ev for asynchronous logging. Never blocks: a full buffer
// drops the event.
func (s *LogSink) Emit(_ context.Context, ev ports.RouteEvent) {
	select {
	case s.events <- ev:
	default:
		log.Printf("analytics sink buffer full, dropping event req_id=%s", ev.RequestID)
	}
}

// Close stops the drain goroutine after flushing any queued events.
func (s *LogSink) Close() {
	close(s.events)
}
