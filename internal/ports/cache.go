package ports

import (
	"context"
	"time"

	"maritime-route-service/internal/domain"
)

// RouteCache is the external key-value cache contract. Callers must
// tolerate a cache miss (nil, false, nil) exactly like a real backend
// outage degraded to miss — see apperr.KindBackendUnavailable's
// propagation policy.
type RouteCache interface {
	GetRoute(ctx context.Context, fingerprint string) (*domain.RouteResponse, bool, error)
	PutRoute(ctx context.Context, fingerprint string, resp domain.RouteResponse, ttl time.Duration) error

	GetValidation(ctx context.Context, fingerprint string) (bool, bool, error)
	PutValidation(ctx context.Context, fingerprint string, ok bool, ttl time.Duration) error

	GetPort(ctx context.Context, code string) (*domain.Port, bool, error)
	PutPort(ctx context.Context, code string, port domain.Port, ttl time.Duration) error
}
