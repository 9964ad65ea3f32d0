// Package config loads service settings from the environment, following
// the same fallback-driven style the teacher repo uses in its command
// entry points rather than a binding framework.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Get returns the environment variable named key, or fallback when unset
// or empty. Kept as a package-level helper because cmd/dbtool addresses
// it directly for one-off lookups that don't warrant a full Settings load.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getDuration(key string, fallbackSeconds int) time.Duration {
	return time.Duration(getInt(key, fallbackSeconds)) * time.Second
}

// Settings holds every configuration key enumerated by the external
// interface contract, each defaulted per that table.
type Settings struct {
	Port string

	DBDriver    string // "sqlite", "postgres", or "remote"
	DBPath      string // sqlite file path
	DatabaseURL string // postgres DSN
	RemoteCatalogURL string // base URL for DB_DRIVER=remote

	RedisURL string

	PortSeedPath      string
	ZoneSeedPath      string
	CostModelSeedPath string

	MaxConcurrentCalculations     int
	DefaultRequestTimeout         time.Duration
	RouteCacheTTL                 time.Duration
	PortLookupCacheTTL            time.Duration
	ValidationCacheTTL            time.Duration
	GraphKNearest                 int
	GraphHubCount                 int
	GraphKNNRadiusNM              float64
	GraphHubRadiusNM              float64
	PathfinderAltCostRatio        float64
	PathfinderCancelCheckInterval int
	MaxAlternativeRoutes          int
	MaxAlternativeRoutesHardCap   int
	MaxConnectingPorts            int
	MaxConnectingPortsHardCap     int

	OverloadedWait time.Duration

	InFlightShards int

	LuaCostScriptDir string
}

// Load reads Settings from the process environment, applying the
// defaults spec.md's configuration table names.
func Load() Settings {
	return Settings{
		Port: Get("PORT", "8080"),

		DBDriver:         strings.ToLower(Get("DB_DRIVER", "sqlite")),
		DBPath:           Get("DB_PATH", "data/app.db"),
		DatabaseURL:      Get("DATABASE_URL", ""),
		RemoteCatalogURL: Get("REMOTE_CATALOG_URL", ""),

		RedisURL: Get("REDIS_URL", "redis://localhost:6379/0"),

		PortSeedPath:      Get("PORT_SEED_PATH", "data/seeds/ports.json"),
		ZoneSeedPath:      Get("ZONE_SEED_PATH", "data/seeds/zones.json"),
		CostModelSeedPath: Get("COSTMODEL_SEED_PATH", "data/seeds/costmodel.json"),

		MaxConcurrentCalculations:     getInt("MAX_CONCURRENT_CALCULATIONS", 64),
		DefaultRequestTimeout:         getDuration("DEFAULT_REQUEST_TIMEOUT_S", 30),
		RouteCacheTTL:                 getDuration("ROUTE_CACHE_TTL_S", 1800),
		PortLookupCacheTTL:            getDuration("PORT_LOOKUP_CACHE_TTL_S", 24*3600),
		ValidationCacheTTL:            getDuration("VALIDATION_CACHE_TTL_S", 300),
		GraphKNearest:                 getInt("GRAPH_K_NEAREST", 8),
		GraphHubCount:                 getInt("GRAPH_HUB_COUNT", 40),
		GraphKNNRadiusNM:              getFloat("GRAPH_KNN_RADIUS_NM", 1500),
		GraphHubRadiusNM:              getFloat("GRAPH_HUB_RADIUS_NM", 6000),
		PathfinderAltCostRatio:        getFloat("PATHFINDER_ALT_COST_RATIO", 1.5),
		PathfinderCancelCheckInterval: getInt("PATHFINDER_CANCEL_CHECK_INTERVAL", 4096),
		MaxAlternativeRoutes:          getInt("MAX_ALTERNATIVE_ROUTES", 3),
		MaxAlternativeRoutesHardCap:   10,
		MaxConnectingPorts:            getInt("MAX_CONNECTING_PORTS", 2),
		MaxConnectingPortsHardCap:     8,

		OverloadedWait: getDuration("OVERLOADED_WAIT_S", 2),

		InFlightShards: getInt("INFLIGHT_SHARDS", 16),

		LuaCostScriptDir: Get("LUA_COST_SCRIPT_DIR", ""),
	}
}
