package repositories

import (
	"context"
	"time"

	"maritime-route-service/internal/domain"
	"maritime-route-service/internal/platform/obs"
	"maritime-route-service/internal/ports"
)

// CachedPortRepository wraps a PortRepository with a Get-by-code cache,
// following the teacher's ORSDistanceProvider idiom of holding a cache
// alongside the thing it's caching and checking it inline rather than
// through a generic middleware layer. Only Get is cached: Search and
// Nearby are ranked, parameter-heavy queries whose result sets don't
// collapse to a single stable key the way a "port lookup" does.
type CachedPortRepository struct {
	ports.PortRepository
	cache ports.RouteCache
	ttl   time.Duration
}

func NewCachedPortRepository(inner ports.PortRepository, cache ports.RouteCache, ttl time.Duration) *CachedPortRepository {
	return &CachedPortRepository{PortRepository: inner, cache: cache, ttl: ttl}
}

func (r *CachedPortRepository) Get(ctx context.Context, code string) (_ domain.Port, err error) {
	defer obs.Time(ctx, "repo.cachedGet")(&err)

	if cached, hit, cacheErr := r.cache.GetPort(ctx, code); cacheErr == nil && hit {
		return *cached, nil
	}

	port, err := r.PortRepository.Get(ctx, code)
	if err != nil {
		return domain.Port{}, err
	}

	if putErr := r.cache.PutPort(ctx, code, port, r.ttl); putErr != nil {
		// Cache-store failures are swallowed: a repository hit is a valid
		// result on its own, caching it is best-effort.
		_ = putErr
	}
	return port, nil
}
