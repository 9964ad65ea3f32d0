// Package coordinator implements spec.md §4.8: the deduplicating,
// bounded-concurrency request coordinator that sits in front of the
// pathfinder. It validates, fingerprints, checks the cache, collapses
// concurrent identical requests via single-flight, bounds simultaneous
// compute-phase executions with a semaphore, and emits fire-and-forget
// analytics — composed explicitly in NewCoordinator rather than through
// a service locator.
package coordinator

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/semaphore"

	"maritime-route-service/internal/apperr"
	"maritime-route-service/internal/assembler"
	"maritime-route-service/internal/costmodel"
	"maritime-route-service/internal/domain"
	"maritime-route-service/internal/graphbuild"
	"maritime-route-service/internal/pathfinder"
	"maritime-route-service/internal/platform/obs"
	"maritime-route-service/internal/ports"
)

// Config holds the tunables spec.md §6 exposes as configuration.
type Config struct {
	ComputeSlots        int64         // default 64
	SemaphoreWaitLimit  time.Duration // default 2s
	MaxRequestTimeout   time.Duration // default 30s
	RepositoryTimeout   time.Duration // default 200ms
	CacheTimeout        time.Duration // default 50ms
	RouteCacheTTL       time.Duration // default 30min
	ValidationCacheTTL  time.Duration // default 5min
	PortLookupCacheTTL  time.Duration // default 24h
}

func (c Config) normalize() Config {
	if c.ComputeSlots <= 0 {
		c.ComputeSlots = 64
	}
	if c.SemaphoreWaitLimit <= 0 {
		c.SemaphoreWaitLimit = 2 * time.Second
	}
	if c.MaxRequestTimeout <= 0 {
		c.MaxRequestTimeout = 30 * time.Second
	}
	if c.RepositoryTimeout <= 0 {
		c.RepositoryTimeout = 200 * time.Millisecond
	}
	if c.CacheTimeout <= 0 {
		c.CacheTimeout = 50 * time.Millisecond
	}
	if c.RouteCacheTTL <= 0 {
		c.RouteCacheTTL = 30 * time.Minute
	}
	if c.ValidationCacheTTL <= 0 {
		c.ValidationCacheTTL = 5 * time.Minute
	}
	if c.PortLookupCacheTTL <= 0 {
		c.PortLookupCacheTTL = 24 * time.Hour
	}
	return c
}

// Coordinator owns every dependency the compute path needs: the port
// catalog/graph handle, the cost model, the cache, and the analytics
// sink. There is no service locator — everything is wired once at
// construction.
type Coordinator struct {
	repo      ports.PortRepository
	graph     *graphbuild.Handle
	model     *costmodel.Model
	cache     ports.RouteCache
	analytics ports.AnalyticsSink

	cfg Config

	sem      *semaphore.Weighted
	inflight *shardedFlight
}

func NewCoordinator(repo ports.PortRepository, graph *graphbuild.Handle, model *costmodel.Model, cache ports.RouteCache, analytics ports.AnalyticsSink, cfg Config) *Coordinator {
	cfg = cfg.normalize()
	return &Coordinator{
		repo:      repo,
		graph:     graph,
		model:     model,
		cache:     cache,
		analytics: analytics,
		cfg:       cfg,
		sem:       semaphore.NewWeighted(cfg.ComputeSlots),
		inflight:  newShardedFlight(),
	}
}

// Validate runs step 1 of spec.md §4.8 alone, for POST /routes/validate:
// well-formed UN/LOCODEs, vessel dimensions in range, a recognized
// criterion, and both ports resolving to active/restricted catalog
// entries.
func (c *Coordinator) Validate(ctx context.Context, req domain.RouteRequest) error {
	if !domain.ValidUNLOCODE(req.OriginCode) {
		return apperr.New(apperr.KindValidation, "origin_code must match ^[A-Z]{5}$").WithDetail("origin_code", req.OriginCode)
	}
	if !domain.ValidUNLOCODE(req.DestinationCode) {
		return apperr.New(apperr.KindValidation, "destination_code must match ^[A-Z]{5}$").WithDetail("destination_code", req.DestinationCode)
	}
	if req.OriginCode == req.DestinationCode {
		return apperr.New(apperr.KindValidation, "origin and destination must differ").WithDetail("code", req.OriginCode)
	}
	if err := req.Vessel.Validate(); err != nil {
		return apperr.Wrap(apperr.KindValidation, "invalid vessel constraints", err)
	}
	if !domain.RecognizedCriterion(req.Criterion) {
		return apperr.New(apperr.KindValidation, "unrecognized optimization criterion").WithDetail("criterion", string(req.Criterion))
	}

	fingerprint := Fingerprint(req)
	if ok, hit := c.lookupValidationCache(ctx, fingerprint); hit {
		if ok {
			return nil
		}
		return apperr.New(apperr.KindPortNotFound, "request failed a previously cached validation")
	}

	repoCtx, cancel := context.WithTimeout(ctx, c.cfg.RepositoryTimeout)
	defer cancel()

	err := c.requirePortOperable(repoCtx, req.OriginCode)
	if err == nil {
		err = c.requirePortOperable(repoCtx, req.DestinationCode)
	}
	// Only port-operability outcomes are stable enough to cache; a
	// transient backend failure must never poison the cache for
	// ValidationCacheTTL.
	if err == nil || apperr.Is(err, apperr.KindPortNotFound) {
		c.storeValidationCache(ctx, fingerprint, err == nil)
	}
	return err
}

func (c *Coordinator) lookupValidationCache(ctx context.Context, fingerprint string) (ok, hit bool) {
	cacheCtx, cancel := context.WithTimeout(ctx, c.cfg.CacheTimeout)
	defer cancel()

	ok, hit, err := c.cache.GetValidation(cacheCtx, fingerprint)
	if err != nil {
		// Cache failures degrade to a miss; never fail validation.
		return false, false
	}
	return ok, hit
}

func (c *Coordinator) storeValidationCache(ctx context.Context, fingerprint string, ok bool) {
	cacheCtx, cancel := context.WithTimeout(ctx, c.cfg.CacheTimeout)
	defer cancel()

	if err := c.cache.PutValidation(cacheCtx, fingerprint, ok, c.cfg.ValidationCacheTTL); err != nil {
		log.Printf("op=cache.PutValidation err=%v", err)
	}
}

func (c *Coordinator) requirePortOperable(ctx context.Context, code string) error {
	port, err := c.repo.Get(ctx, code)
	if err != nil {
		if apperr.Is(err, apperr.KindPortNotFound) {
			return err
		}
		return apperr.Wrap(apperr.KindBackendUnavailable, "port repository lookup failed", err)
	}
	if !port.Operable() {
		return apperr.New(apperr.KindPortNotFound, "port is not operable").WithDetail("code", code).WithDetail("status", string(port.Status))
	}
	return nil
}

// Compute runs the full spec.md §4.8 pipeline for one request.
func (c *Coordinator) Compute(ctx context.Context, req domain.RouteRequest) (*domain.RouteResponse, error) {
	deadline := c.cfg.MaxRequestTimeout
	if req.TimeoutSeconds == 0 {
		return nil, apperr.New(apperr.KindDeadlineExceeded, "request timeout_seconds must be > 0")
	}
	if requested := time.Duration(req.TimeoutSeconds) * time.Second; requested > 0 && requested < deadline {
		deadline = requested
	}
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	start := time.Now()

	if err := c.Validate(ctx, req); err != nil {
		return nil, err
	}

	fingerprint := Fingerprint(req)

	if resp, hit := c.lookupCache(ctx, fingerprint); hit {
		c.analytics.Emit(ctx, ports.RouteEvent{
			RequestID: req.RequestID, Fingerprint: fingerprint, CacheHit: true,
			DurationMS: time.Since(start).Milliseconds(), Criterion: string(req.Criterion),
		})
		resp.RequestID = req.RequestID
		return resp, nil
	}

	resp, err := c.singleFlightCompute(ctx, req, fingerprint)

	ev := ports.RouteEvent{
		RequestID: req.RequestID, Fingerprint: fingerprint,
		DurationMS: time.Since(start).Milliseconds(), Criterion: string(req.Criterion),
	}
	if err != nil {
		ev.Err = err.Error()
		c.analytics.Emit(ctx, ev)
		return nil, err
	}

	ev.PathsEvaluated = resp.CandidatesEvaluated
	ev.AlternativesLen = len(resp.Alternatives)
	ev.Algorithm = resp.Algorithm
	c.analytics.Emit(ctx, ev)

	resp.RequestID = req.RequestID
	return resp, nil
}

func (c *Coordinator) lookupCache(ctx context.Context, fingerprint string) (*domain.RouteResponse, bool) {
	cacheCtx, cancel := context.WithTimeout(ctx, c.cfg.CacheTimeout)
	defer cancel()

	resp, hit, err := c.cache.GetRoute(cacheCtx, fingerprint)
	if err != nil {
		// Cache failures degrade to a miss; never fail the request.
		return nil, false
	}
	return resp, hit
}

// singleFlightCompute attaches to (or starts) the one computation for
// fingerprint, waiting on ctx so a cancelled or timed-out caller returns
// promptly without disturbing the computation for any other attached
// caller.
func (c *Coordinator) singleFlightCompute(ctx context.Context, req domain.RouteRequest, fingerprint string) (*domain.RouteResponse, error) {
	group := c.inflight.groupFor(fingerprint)

	resultCh := group.DoChan(fingerprint, func() (any, error) {
		return c.doCompute(req)
	})

	select {
	case res := <-resultCh:
		if res.Err != nil {
			return nil, res.Err
		}
		resp := res.Val.(*domain.RouteResponse)
		respCopy := *resp
		if len(resp.Alternatives) > 0 {
			respCopy.Alternatives = append([]domain.DetailedRoute(nil), resp.Alternatives...)
		}
		return &respCopy, nil
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return nil, apperr.New(apperr.KindDeadlineExceeded, "request deadline exceeded while waiting for computation")
		}
		return nil, apperr.Wrap(apperr.KindCancelled, "request cancelled while waiting for computation", ctx.Err())
	}
}

// doCompute runs the actual pathfinding + assembly + cache-store, shared
// by every caller attached to the same fingerprint. It uses an
// independent, generously-bounded context rather than any one caller's
// ctx, because the computation must keep running for the benefit of
// every attached caller even if the first one gives up.
func (c *Coordinator) doCompute(req domain.RouteRequest) (v any, err error) {
	computeStart := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.MaxRequestTimeout)
	defer cancel()
	defer obs.Time(ctx, "coordinator.compute")(&err)

	semCtx, semCancel := context.WithTimeout(ctx, c.cfg.SemaphoreWaitLimit)
	defer semCancel()
	if err := c.sem.Acquire(semCtx, 1); err != nil {
		return nil, apperr.Wrap(apperr.KindOverloaded, "no compute slot available", err)
	}
	defer c.sem.Release(1)

	snapshot := c.graph.Snapshot()
	if snapshot == nil {
		return nil, apperr.New(apperr.KindBackendUnavailable, "port graph has not been built yet")
	}

	algorithm := "dijkstra"
	if req.Criterion == domain.CriterionFastest || req.Criterion == domain.CriterionBalanced {
		algorithm = "astar"
	}

	paths, candidatesEvaluated, err := pathfinder.FindPaths(ctx, snapshot.Graph, req.Vessel, c.model, req.Criterion, req.OriginCode, req.DestinationCode, pathfinder.Options{
		MaxAlternatives:     req.MaxAlternatives,
		MaxConnectingPorts:  req.MaxConnectingPorts,
		CancelCheckInterval: 4096,
	})
	if apperr.Is(err, apperr.KindNoRouteFound) {
		return &domain.RouteResponse{
			CalculatedAt:        time.Now(),
			CalculationTimeMS:   time.Since(computeStart).Milliseconds(),
			PrimaryRoute:        nil,
			CriteriaUsed:        req.Criterion,
			CandidatesEvaluated: candidatesEvaluated,
			CacheHit:            false,
			Diagnostics:         []string{err.Error()},
		}, nil
	}
	if err != nil {
		return nil, err
	}

	routes := make([]*domain.DetailedRoute, 0, len(paths))
	for _, p := range paths {
		route, err := assembler.Assemble(p, snapshot.Graph, req.Vessel, c.model, req.Criterion)
		if err != nil {
			return nil, fmt.Errorf("assemble route: %w", err)
		}
		routes = append(routes, route)
	}

	resp := &domain.RouteResponse{
		CalculatedAt:        time.Now(),
		CalculationTimeMS:   time.Since(computeStart).Milliseconds(),
		PrimaryRoute:        routes[0],
		Algorithm:           algorithm,
		CriteriaUsed:        req.Criterion,
		CandidatesEvaluated: candidatesEvaluated,
		CacheHit:            false,
	}
	for _, r := range routes[1:] {
		resp.Alternatives = append(resp.Alternatives, *r)
	}

	cacheCtx, cacheCancel := context.WithTimeout(ctx, c.cfg.CacheTimeout)
	defer cacheCancel()
	fingerprint := Fingerprint(req)
	if putErr := c.cache.PutRoute(cacheCtx, fingerprint, *resp, c.cfg.RouteCacheTTL); putErr != nil {
		// Cache-store failures are swallowed and logged, never surfaced
		// to the caller: a fresh computation is always a valid fallback.
		log.Printf("req_id=%s op=cache.PutRoute err=%v", req.RequestID, putErr)
	}

	return resp, nil
}
