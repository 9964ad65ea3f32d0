package cache

import (
	"context"
	"time"

	"maritime-route-service/internal/domain"
)

// NoopRouteCache always misses. It backs the coordinator when no Redis
// instance is reachable at startup, so a cache outage degrades service
// (every request recomputes) instead of preventing it from starting.
type NoopRouteCache struct{}

func NewNoopRouteCache() *NoopRouteCache { return &NoopRouteCache{} }

func (NoopRouteCache) GetRoute(context.Context, string) (*domain.RouteResponse, bool, error) {
	return nil, false, nil
}

func (NoopRouteCache) PutRoute(context.Context, string, domain.RouteResponse, time.Duration) error {
	return nil
}

func (NoopRouteCache) GetValidation(context.Context, string) (bool, bool, error) {
	return false, false, nil
}

func (NoopRouteCache) PutValidation(context.Context, string, bool, time.Duration) error {
	return nil
}

func (NoopRouteCache) GetPort(context.Context, string) (*domain.Port, bool, error) {
	return nil, false, nil
}

func (NoopRouteCache) PutPort(context.Context, string, domain.Port, time.Duration) error {
	return nil
}
