package repositories

import (
	"context"
	"testing"
	"time"

	"maritime-route-service/internal/domain"
	"maritime-route-service/internal/ports"
)

// countingRepo wraps a PortRepository and counts Get calls, to prove the
// cache is actually short-circuiting the inner repository on a hit.
type countingRepo struct {
	ports.PortRepository
	getCalls int
}

func (r *countingRepo) Get(ctx context.Context, code string) (domain.Port, error) {
	r.getCalls++
	return r.PortRepository.Get(ctx, code)
}

// fakePortCache is a minimal in-memory ports.RouteCache double covering
// only the port methods this test exercises.
type fakePortCache struct {
	ports map[string]domain.Port
}

func newFakePortCache() *fakePortCache {
	return &fakePortCache{ports: map[string]domain.Port{}}
}

func (c *fakePortCache) GetRoute(context.Context, string) (*domain.RouteResponse, bool, error) {
	return nil, false, nil
}
func (c *fakePortCache) PutRoute(context.Context, string, domain.RouteResponse, time.Duration) error {
	return nil
}
func (c *fakePortCache) GetValidation(context.Context, string) (bool, bool, error) {
	return false, false, nil
}
func (c *fakePortCache) PutValidation(context.Context, string, bool, time.Duration) error {
	return nil
}
func (c *fakePortCache) GetPort(_ context.Context, code string) (*domain.Port, bool, error) {
	p, ok := c.ports[code]
	if !ok {
		return nil, false, nil
	}
	return &p, true, nil
}
func (c *fakePortCache) PutPort(_ context.Context, code string, port domain.Port, _ time.Duration) error {
	c.ports[code] = port
	return nil
}

func TestCachedPortRepositoryGetHitsCacheOnSecondCall(t *testing.T) {
	inner := &countingRepo{PortRepository: NewMemoryPortRepository(samplePorts())}
	cache := newFakePortCache()
	repo := NewCachedPortRepository(inner, cache, time.Hour)
	ctx := context.Background()

	first, err := repo.Get(ctx, "SGSIN")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.getCalls != 1 {
		t.Fatalf("expected 1 inner call after a miss, got %d", inner.getCalls)
	}

	second, err := repo.Get(ctx, "SGSIN")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.getCalls != 1 {
		t.Fatalf("expected the second Get to be served from cache, inner calls = %d", inner.getCalls)
	}
	if second.Code != first.Code {
		t.Fatalf("cached port mismatch: %+v vs %+v", first, second)
	}
}

func TestCachedPortRepositoryGetPropagatesNotFound(t *testing.T) {
	inner := &countingRepo{PortRepository: NewMemoryPortRepository(samplePorts())}
	repo := NewCachedPortRepository(inner, newFakePortCache(), time.Hour)

	if _, err := repo.Get(context.Background(), "ZZZZZ"); err == nil {
		t.Fatal("expected an error for an unknown port")
	}
}
