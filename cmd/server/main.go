package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"maritime-route-service/internal/adapters/analytics"
	"maritime-route-service/internal/adapters/cache"
	"maritime-route-service/internal/adapters/repositories"
	"maritime-route-service/internal/api"
	"maritime-route-service/internal/config"
	"maritime-route-service/internal/coordinator"
	"maritime-route-service/internal/costmodel"
	"maritime-route-service/internal/graphbuild"
	"maritime-route-service/internal/platform/db"
	"maritime-route-service/internal/ports"
)

// main is the application composition root. It wires the configured
// port catalog backend, the graph builder, the cost model, the cache,
// and the request coordinator behind the HTTP router, then serves.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := config.Load()

	repo, closeRepo, err := openRepository(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeRepo()

	routeCache := openCache(cfg.RedisURL)
	repo = repositories.NewCachedPortRepository(repo, routeCache, cfg.PortLookupCacheTTL)

	zones := loadZones(cfg.ZoneSeedPath)

	graphParams := graphbuild.Params{
		KNearest:    cfg.GraphKNearest,
		KNNRadiusNM: cfg.GraphKNNRadiusNM,
		HubCount:    cfg.GraphHubCount,
		HubRadiusNM: cfg.GraphHubRadiusNM,
	}
	graphHandle := graphbuild.NewHandle(repo, zones, graphParams)

	buildCtx, buildCancel := context.WithTimeout(context.Background(), 30*time.Second)
	snap, err := graphHandle.Rebuild(buildCtx)
	buildCancel()
	if err != nil {
		log.Fatalf("initial graph build failed: %v", err)
	}
	log.Printf("graph built generation=%d nodes=%d edges=%d hubs=%d duration=%s",
		snap.Generation, snap.Stats.NodeCount, snap.Stats.EdgesCreated, snap.Stats.HubCount, snap.Stats.BuildDuration)

	tables, err := costmodel.LoadTables(cfg.CostModelSeedPath)
	if err != nil {
		log.Printf("cost model seed load failed, falling back to defaults: %v", err)
		tables = costmodel.DefaultTables()
	}

	var scripts map[string]*costmodel.ScriptedCriterion
	if cfg.LuaCostScriptDir != "" {
		scripts, err = costmodel.LoadScriptedCriteria(cfg.LuaCostScriptDir)
		if err != nil {
			log.Printf("scripted criteria load failed, continuing without them: %v", err)
		}
	}
	model := costmodel.New(tables, scripts)

	analyticsSink := analytics.NewLogSink(256)
	defer analyticsSink.Close()

	coord := coordinator.NewCoordinator(repo, graphHandle, model, routeCache, analyticsSink, coordinator.Config{
		ComputeSlots:       int64(cfg.MaxConcurrentCalculations),
		SemaphoreWaitLimit: cfg.OverloadedWait,
		MaxRequestTimeout:  cfg.DefaultRequestTimeout,
		RouteCacheTTL:      cfg.RouteCacheTTL,
		ValidationCacheTTL: cfg.ValidationCacheTTL,
		PortLookupCacheTTL: cfg.PortLookupCacheTTL,
	})

	router := api.NewRouter(repo, graphHandle, coord)

	log.Printf("Server listening addr=:%s", cfg.Port)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// openRepository selects the PortRepository backend named by
// cfg.DBDriver, returning a cleanup func to release its resources.
func openRepository(cfg config.Settings) (ports.PortRepository, func(), error) {
	switch cfg.DBDriver {
	case "memory":
		catalog, err := repositories.LoadPortSeedFile(cfg.PortSeedPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open repository: %w", err)
		}
		return repositories.NewMemoryPortRepository(catalog), func() {}, nil

	case "remote":
		if cfg.RemoteCatalogURL == "" {
			return nil, nil, fmt.Errorf("open repository: REMOTE_CATALOG_URL is required for db_driver=remote")
		}
		return repositories.NewRemotePortRepository(cfg.RemoteCatalogURL, &http.Client{Timeout: 10 * time.Second}), func() {}, nil

	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, nil, fmt.Errorf("open repository: DATABASE_URL is required for db_driver=postgres")
		}
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open repository: %w", err)
		}
		if err := repositories.InitPostgresPortSchema(conn); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("open repository: %w", err)
		}
		if err := repositories.SeedPostgresPortsFromJSON(conn, cfg.PortSeedPath); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("open repository: %w", err)
		}
		return repositories.NewPostgresPortRepository(conn), func() { conn.Close() }, nil

	default: // "sqlite"
		conn, err := openSQLite(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open repository: %w", err)
		}
		if err := repositories.InitPortSchema(conn); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("open repository: %w", err)
		}
		if err := repositories.SeedPortsFromJSON(conn, cfg.PortSeedPath); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("open repository: %w", err)
		}
		return repositories.NewSQLitePortRepository(conn), func() { conn.Close() }, nil
	}
}

func openSQLite(dbPath string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %q: %w", dbPath, err)
	}
	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("verify sqlite connection to %q: %w", dbPath, err)
	}
	return conn, nil
}

func loadZones(path string) *graphbuild.ZoneTable {
	zones, err := graphbuild.LoadZoneTable(path)
	if err != nil {
		log.Printf("zone table load failed, continuing with an empty table: %v", err)
		return graphbuild.EmptyZoneTable()
	}
	return zones
}

// openCache connects to Redis; a connection failure degrades to an
// in-memory no-op cache rather than a fatal startup error, since the
// cache is an external, outage-tolerant collaborator per spec.md §6.
func openCache(redisURL string) ports.RouteCache {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("redis url parse failed, route cache disabled: %v", err)
		return cache.NewNoopRouteCache()
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("redis ping failed, route cache disabled: %v", err)
		return cache.NewNoopRouteCache()
	}
	return cache.NewRedisRouteCache(client)
}
