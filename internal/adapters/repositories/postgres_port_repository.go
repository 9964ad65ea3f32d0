package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"maritime-route-service/internal/apperr"
	"maritime-route-service/internal/domain"
	"maritime-route-service/internal/geodesy"
)

// InitPostgresPortSchema creates the ports table against a Postgres
// database opened via internal/platform/db.Open. Kept distinct from
// InitPortSchema: the teacher's own dbtool called the SQLite schema
// against Postgres despite the placeholder styles differing, which we
// do not repeat here.
func InitPostgresPortSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init postgres port schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init postgres port schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS ports (
			code TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			country TEXT NOT NULL,
			lat DOUBLE PRECISION NOT NULL,
			lon DOUBLE PRECISION NOT NULL,
			type TEXT NOT NULL,
			status TEXT NOT NULL,
			max_length_m DOUBLE PRECISION,
			max_beam_m DOUBLE PRECISION,
			max_draft_m DOUBLE PRECISION,
			berth_count INTEGER NOT NULL DEFAULT 0,
			congestion_factor DOUBLE PRECISION NOT NULL DEFAULT 1.0,
			avg_port_stay_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
			services JSONB NOT NULL DEFAULT '[]',
			facilities JSONB NOT NULL DEFAULT '[]',
			suez_connected BOOLEAN NOT NULL DEFAULT FALSE,
			panama_connected BOOLEAN NOT NULL DEFAULT FALSE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_ports_lat_lon ON ports(lat, lon);`,
		`CREATE INDEX IF NOT EXISTS idx_ports_country ON ports(country);`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init postgres port schema: exec statement #%d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

// SeedPostgresPortsFromJSON mirrors SeedPortsFromJSON but targets
// Postgres's $N placeholders and ON CONFLICT upsert syntax.
func SeedPostgresPortsFromJSON(db *sql.DB, jsonPath string) error {
	ports, err := LoadPortSeedFile(jsonPath)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed postgres ports: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT INTO ports (
			code, name, country, lat, lon, type, status,
			max_length_m, max_beam_m, max_draft_m,
			berth_count, congestion_factor, avg_port_stay_hours,
			services, facilities, suez_connected, panama_connected
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name, country = EXCLUDED.country,
			lat = EXCLUDED.lat, lon = EXCLUDED.lon,
			type = EXCLUDED.type, status = EXCLUDED.status,
			max_length_m = EXCLUDED.max_length_m, max_beam_m = EXCLUDED.max_beam_m,
			max_draft_m = EXCLUDED.max_draft_m, berth_count = EXCLUDED.berth_count,
			congestion_factor = EXCLUDED.congestion_factor,
			avg_port_stay_hours = EXCLUDED.avg_port_stay_hours,
			services = EXCLUDED.services, facilities = EXCLUDED.facilities,
			suez_connected = EXCLUDED.suez_connected, panama_connected = EXCLUDED.panama_connected;
	`)
	if err != nil {
		return fmt.Errorf("seed postgres ports: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range ports {
		services, _ := json.Marshal(p.Services)
		facilities, _ := json.Marshal(p.Facilities)
		if _, err := stmt.Exec(
			p.Code, p.Name, p.Country, p.LatDeg, p.LonDeg, string(p.Type), string(p.Status),
			p.MaxLengthM, p.MaxBeamM, p.MaxDraftM,
			p.BerthCount, p.CongestionFactor, p.AvgPortStayHours,
			string(services), string(facilities), p.SuezConnected, p.PanamaConnected,
		); err != nil {
			return fmt.Errorf("seed postgres ports: insert code=%s: %w", p.Code, err)
		}
	}

	return tx.Commit()
}

// PostgresPortRepository implements ports.PortRepository over pgx/database-sql,
// grounded on internal/platform/db.Open's connection setup.
type PostgresPortRepository struct{ DB *sql.DB }

func NewPostgresPortRepository(db *sql.DB) *PostgresPortRepository {
	return &PostgresPortRepository{DB: db}
}

func (r *PostgresPortRepository) Get(ctx context.Context, code string) (domain.Port, error) {
	row := r.DB.QueryRowContext(ctx, portSelectColumns+` WHERE code = $1`, strings.ToUpper(code))
	p, err := scanPortRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Port{}, apperr.New(apperr.KindPortNotFound, "no such port").WithDetail("code", code)
	}
	if err != nil {
		return domain.Port{}, fmt.Errorf("get port %s: %w", code, err)
	}
	return p, nil
}

func (r *PostgresPortRepository) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchHit, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return nil, apperr.New(apperr.KindValidation, "search query must be at least 2 characters")
	}

	sqlQuery := portSelectColumns
	var args []any
	var clauses []string
	if !opts.IncludeInactive {
		clauses = append(clauses, `status IN ('active', 'restricted')`)
	}
	if opts.Country != "" {
		args = append(args, opts.Country)
		clauses = append(clauses, fmt.Sprintf(`country = $%d`, len(args)))
	}
	if len(clauses) > 0 {
		sqlQuery += " WHERE " + strings.Join(clauses, " AND ")
	}

	rows, err := r.DB.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("search ports: query: %w", err)
	}
	defer rows.Close()

	var candidates []domain.Port
	for rows.Next() {
		p, err := scanPortRow(rows)
		if err != nil {
			return nil, fmt.Errorf("search ports: scan: %w", err)
		}
		if opts.VesselTypeCompatible != nil && string(p.Type) != string(*opts.VesselTypeCompatible) {
			continue
		}
		candidates = append(candidates, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search ports: row iteration: %w", err)
	}

	return RankPorts(query, candidates, opts), nil
}

func (r *PostgresPortRepository) Nearby(ctx context.Context, latDeg, lonDeg, radiusNM float64, limit int) ([]domain.Port, error) {
	latSpan := radiusNM/60 + 1
	rows, err := r.DB.QueryContext(ctx,
		portSelectColumns+` WHERE lat BETWEEN $1 AND $2 AND lon BETWEEN $3 AND $4`,
		latDeg-latSpan, latDeg+latSpan, lonDeg-latSpan*2, lonDeg+latSpan*2,
	)
	if err != nil {
		return nil, fmt.Errorf("nearby ports: query: %w", err)
	}
	defer rows.Close()

	center := geodesy.Point{LatDeg: latDeg, LonDeg: lonDeg}
	type hit struct {
		port domain.Port
		dist float64
	}
	var hits []hit
	for rows.Next() {
		p, err := scanPortRow(rows)
		if err != nil {
			return nil, fmt.Errorf("nearby ports: scan: %w", err)
		}
		d := geodesy.DistanceNM(center, p.Position())
		if d <= radiusNM {
			hits = append(hits, hit{port: p, dist: d})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].port.Code < hits[j].port.Code
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	out := make([]domain.Port, len(hits))
	for i, h := range hits {
		out[i] = h.port
	}
	return out, nil
}

func (r *PostgresPortRepository) All(ctx context.Context) ([]domain.Port, error) {
	rows, err := r.DB.QueryContext(ctx, portSelectColumns)
	if err != nil {
		return nil, fmt.Errorf("list ports: query: %w", err)
	}
	defer rows.Close()

	var out []domain.Port
	for rows.Next() {
		p, err := scanPortRow(rows)
		if err != nil {
			return nil, fmt.Errorf("list ports: scan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// LoadPortSeedFile reads and validates a port catalog seed file, shared
// by the Postgres seeder and the in-memory repository's startup load.
func LoadPortSeedFile(jsonPath string) ([]domain.Port, error) {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("load port seed: read %q: %w", jsonPath, err)
	}

	var rows []portRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("load port seed: parse json: %w", err)
	}

	ports := make([]domain.Port, 0, len(rows))
	for i, r := range rows {
		p := r.toDomain()
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("load port seed: item at index %d: %w", i, err)
		}
		ports = append(ports, p)
	}
	return ports, nil
}
