package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"maritime-route-service/internal/apperr"
	"maritime-route-service/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := InitPortSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return db
}

func writeSeedFile(t *testing.T, rows []portRow) string {
	t.Helper()
	raw, err := json.Marshal(rows)
	if err != nil {
		t.Fatalf("marshal seed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "ports.json")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write seed file: %v", err)
	}
	return path
}

func sampleSeedRows() []portRow {
	return []portRow{
		{Code: "SGSIN", Name: "Singapore", Country: "SG", Lat: 1.29, Lon: 103.85, Type: "container", Status: "active", BerthCount: 60, CongestionFactor: 1.2},
		{Code: "NLRTM", Name: "Rotterdam", Country: "NL", Lat: 51.95, Lon: 4.14, Type: "container", Status: "active", BerthCount: 45, CongestionFactor: 1.0},
	}
}

func TestSQLitePortRepositorySeedAndGet(t *testing.T) {
	db := openTestDB(t)
	path := writeSeedFile(t, sampleSeedRows())

	if err := SeedPortsFromJSON(db, path); err != nil {
		t.Fatalf("seed: %v", err)
	}

	repo := NewSQLitePortRepository(db)
	ctx := context.Background()

	p, err := repo.Get(ctx, "SGSIN")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Name != "Singapore" || p.BerthCount != 60 {
		t.Fatalf("unexpected port: %+v", p)
	}

	_, err = repo.Get(ctx, "ZZZZZ")
	if !apperr.Is(err, apperr.KindPortNotFound) {
		t.Fatalf("expected KindPortNotFound, got %v", err)
	}
}

func TestSQLitePortRepositorySearchAndNearby(t *testing.T) {
	db := openTestDB(t)
	path := writeSeedFile(t, sampleSeedRows())
	if err := SeedPortsFromJSON(db, path); err != nil {
		t.Fatalf("seed: %v", err)
	}

	repo := NewSQLitePortRepository(db)
	ctx := context.Background()

	hits, err := repo.Search(ctx, "rotter", domain.SearchOptions{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 || hits[0].Port.Code != "NLRTM" {
		t.Fatalf("expected Rotterdam match, got %+v", hits)
	}

	near, err := repo.Nearby(ctx, 1.3, 103.8, 100, 5)
	if err != nil {
		t.Fatalf("nearby: %v", err)
	}
	if len(near) != 1 || near[0].Code != "SGSIN" {
		t.Fatalf("expected Singapore in radius, got %+v", near)
	}
}

func TestSQLitePortRepositoryAll(t *testing.T) {
	db := openTestDB(t)
	path := writeSeedFile(t, sampleSeedRows())
	if err := SeedPortsFromJSON(db, path); err != nil {
		t.Fatalf("seed: %v", err)
	}

	repo := NewSQLitePortRepository(db)
	all, err := repo.All(context.Background())
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 ports, got %d", len(all))
	}
}
