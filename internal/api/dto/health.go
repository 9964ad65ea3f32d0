package dto

import "time"

type HealthResponse struct {
	Status string `json:"status"`

	CatalogGeneration int64      `json:"catalog_generation"`
	CatalogBuiltAt    *time.Time `json:"catalog_built_at,omitempty"`
	CatalogNodeCount  int        `json:"catalog_node_count"`
}
