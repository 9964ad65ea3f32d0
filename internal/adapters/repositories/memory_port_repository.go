// Package repositories provides PortRepository implementations, mirroring
// the teacher's adapters/repositories package: thin adapters, one file per
// backend, business logic (ranking, feasibility) kept out of the SQL/HTTP
// layer and shared where it can be (see search.go).
package repositories

import (
	"context"
	"strings"

	"maritime-route-service/internal/apperr"
	"maritime-route-service/internal/domain"
	"maritime-route-service/internal/spatial"
)

// MemoryPortRepository serves a fixed, in-memory port catalog. It is the
// repository used by cmd/server when no external database is configured,
// and by tests that need a PortRepository without a database.
type MemoryPortRepository struct {
	idx *spatial.Index
}

func NewMemoryPortRepository(ports []domain.Port) *MemoryPortRepository {
	return &MemoryPortRepository{idx: spatial.Build(ports)}
}

func (r *MemoryPortRepository) Get(_ context.Context, code string) (domain.Port, error) {
	p, ok := r.idx.ByCode(strings.ToUpper(code))
	if !ok {
		return domain.Port{}, apperr.New(apperr.KindPortNotFound, "no such port").WithDetail("code", code)
	}
	return p, nil
}

func (r *MemoryPortRepository) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.SearchHit, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return nil, apperr.New(apperr.KindValidation, "search query must be at least 2 characters")
	}

	candidates := r.idx.All()
	filtered := candidates[:0:0]
	for _, p := range candidates {
		if !opts.IncludeInactive && !p.Operable() {
			continue
		}
		if opts.Country != "" && !strings.EqualFold(p.Country, opts.Country) {
			continue
		}
		if opts.VesselTypeCompatible != nil && string(p.Type) != string(*opts.VesselTypeCompatible) {
			continue
		}
		filtered = append(filtered, p)
	}

	return RankPorts(query, filtered, opts), nil
}

func (r *MemoryPortRepository) Nearby(_ context.Context, latDeg, lonDeg, radiusNM float64, limit int) ([]domain.Port, error) {
	return r.idx.Nearby(latDeg, lonDeg, radiusNM, limit), nil
}

func (r *MemoryPortRepository) All(_ context.Context) ([]domain.Port, error) {
	return r.idx.All(), nil
}
