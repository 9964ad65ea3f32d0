package graphbuild

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/atomic"
	"golang.org/x/sync/singleflight"

	"maritime-route-service/internal/domain"
	"maritime-route-service/internal/ports"
)

// Snapshot is a single immutable graph generation plus the metadata a
// caller (the /health handler, primarily) reports about it.
type Snapshot struct {
	Graph        *domain.PortGraph
	Generation   int64
	BuiltAt      time.Time
	Stats        Stats
}

// Handle is the copy-on-write catalog/graph handle of spec.md §5's
// shared resource 1: readers take a Snapshot at request start and hold
// it for the full request, while a rebuild constructs a wholly new
// PortGraph and atomically swaps the pointer in. Rebuilds are
// single-flighted so concurrent catalog-version bumps collapse into one
// build.
type Handle struct {
	current  atomic.Pointer[Snapshot]
	repo     ports.PortRepository
	zones    *ZoneTable
	params   Params
	building singleflight.Group
}

func NewHandle(repo ports.PortRepository, zones *ZoneTable, params Params) *Handle {
	return &Handle{repo: repo, zones: zones, params: params}
}

// Snapshot returns the currently active graph snapshot. It is nil until
// the first successful Rebuild.
func (h *Handle) Snapshot() *Snapshot {
	return h.current.Load()
}

// Rebuild loads the full catalog from the repository, constructs a new
// graph, and swaps it in as the current snapshot. Concurrent callers
// collapse into a single underlying build via singleflight, and all
// receive the result of that one build.
func (h *Handle) Rebuild(ctx context.Context) (*Snapshot, error) {
	result, err, _ := h.building.Do("rebuild", func() (any, error) {
		catalog, err := h.repo.All(ctx)
		if err != nil {
			return nil, fmt.Errorf("rebuild graph: load catalog: %w", err)
		}

		prev := h.current.Load()
		var generation int64
		if prev != nil {
			generation = prev.Generation + 1
		}

		graph, stats, err := Build(ctx, catalog, h.zones, h.params, generation)
		if err != nil {
			return nil, err
		}

		snap := &Snapshot{Graph: graph, Generation: generation, BuiltAt: time.Now(), Stats: stats}
		h.current.Store(snap)
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Snapshot), nil
}
