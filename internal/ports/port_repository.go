package ports

import (
	"context"

	"maritime-route-service/internal/domain"
)

// PortRepository is a boundary for retrieving Port entities from a
// catalog. Implementations hold no business logic — they are thin
// adapters over an in-memory index, a SQL database, or a remote HTTP
// catalog service.
type PortRepository interface {
	// Get returns the port with the given UN/LOCODE. Fails with
	// apperr.KindPortNotFound if absent.
	Get(ctx context.Context, code string) (domain.Port, error)

	// Search ranks ports against query: exact code match, then name
	// prefix, then substring, then trigram similarity. Fails with
	// apperr.KindValidation if len(query) < 2.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchHit, error)

	// Nearby returns ports within radiusNM of (lat, lon), nearest first.
	Nearby(ctx context.Context, latDeg, lonDeg, radiusNM float64, limit int) ([]domain.Port, error)

	// All returns the full active catalog, used by the graph builder.
	// Not part of spec.md's narrow §4.2 contract, but required to
	// materialize the graph without a bespoke bulk-export method per
	// backend.
	All(ctx context.Context) ([]domain.Port, error)
}
