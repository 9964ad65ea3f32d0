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

// InitPortSchema creates the ports table and its supporting indexes,
// mirroring the teacher's InitSchema (sqlite_init.go): a single
// transaction, CREATE TABLE/INDEX IF NOT EXISTS, no migrations framework.
func InitPortSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init port schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init port schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS ports (
			code TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			country TEXT NOT NULL,
			lat REAL NOT NULL,
			lon REAL NOT NULL,
			type TEXT NOT NULL,
			status TEXT NOT NULL,
			max_length_m REAL,
			max_beam_m REAL,
			max_draft_m REAL,
			berth_count INTEGER NOT NULL DEFAULT 0,
			congestion_factor REAL NOT NULL DEFAULT 1.0,
			avg_port_stay_hours REAL NOT NULL DEFAULT 0,
			services TEXT NOT NULL DEFAULT '[]',
			facilities TEXT NOT NULL DEFAULT '[]',
			suez_connected INTEGER NOT NULL DEFAULT 0,
			panama_connected INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_ports_lat_lon ON ports(lat, lon);`,
		`CREATE INDEX IF NOT EXISTS idx_ports_country ON ports(country);`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init port schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init port schema: commit tx: %w", err)
	}
	return nil
}

// portRow is the JSON seed shape for a single port, matching data/seeds/ports.json.
type portRow struct {
	Code             string   `json:"code"`
	Name             string   `json:"name"`
	Country          string   `json:"country"`
	Lat              float64  `json:"lat"`
	Lon              float64  `json:"lon"`
	Type             string   `json:"type"`
	Status           string   `json:"status"`
	MaxLengthM       *float64 `json:"max_length_m"`
	MaxBeamM         *float64 `json:"max_beam_m"`
	MaxDraftM        *float64 `json:"max_draft_m"`
	BerthCount       int      `json:"berth_count"`
	CongestionFactor float64  `json:"congestion_factor"`
	AvgPortStayHours float64  `json:"avg_port_stay_hours"`
	Services         []string `json:"services"`
	Facilities       []string `json:"facilities"`
	SuezConnected    bool     `json:"suez_connected"`
	PanamaConnected  bool     `json:"panama_connected"`
}

func (r portRow) toDomain() domain.Port {
	return domain.Port{
		Code: r.Code, Name: r.Name, Country: r.Country,
		LatDeg: r.Lat, LonDeg: r.Lon,
		Type: domain.PortType(r.Type), Status: domain.PortStatus(r.Status),
		MaxLengthM: r.MaxLengthM, MaxBeamM: r.MaxBeamM, MaxDraftM: r.MaxDraftM,
		BerthCount: r.BerthCount, CongestionFactor: r.CongestionFactor,
		AvgPortStayHours: r.AvgPortStayHours,
		Services:         r.Services, Facilities: r.Facilities,
		SuezConnected: r.SuezConnected, PanamaConnected: r.PanamaConnected,
	}
}

// SeedPortsFromJSON loads jsonPath and upserts every row into the ports
// table, following the teacher's SeedFromJSON shape (validate all, then
// insert all in one transaction).
func SeedPortsFromJSON(db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed ports: read %q: %w", jsonPath, err)
	}

	var rows []portRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return fmt.Errorf("seed ports: parse json: %w", err)
	}

	ports := make([]domain.Port, 0, len(rows))
	for i, r := range rows {
		p := r.toDomain()
		if err := p.Validate(); err != nil {
			return fmt.Errorf("seed ports: item at index %d: %w", i, err)
		}
		ports = append(ports, p)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed ports: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO ports (
			code, name, country, lat, lon, type, status,
			max_length_m, max_beam_m, max_draft_m,
			berth_count, congestion_factor, avg_port_stay_hours,
			services, facilities, suez_connected, panama_connected
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("seed ports: prepare insert: %w", err)
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
			return fmt.Errorf("seed ports: insert code=%s: %w", p.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed ports: commit tx: %w", err)
	}
	return nil
}

// SQLitePortRepository implements ports.PortRepository over the ports
// table, coarse-filtering in SQL and ranking/scoring in Go via RankPorts
// (the ranking rule is business logic, kept out of the SQL layer).
type SQLitePortRepository struct{ DB *sql.DB }

func NewSQLitePortRepository(db *sql.DB) *SQLitePortRepository {
	return &SQLitePortRepository{DB: db}
}

func (s *SQLitePortRepository) Get(_ context.Context, code string) (domain.Port, error) {
	row := s.DB.QueryRow(portSelectColumns+` WHERE code = ?`, strings.ToUpper(code))
	p, err := scanPortRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Port{}, apperr.New(apperr.KindPortNotFound, "no such port").WithDetail("code", code)
	}
	if err != nil {
		return domain.Port{}, fmt.Errorf("get port %s: %w", code, err)
	}
	return p, nil
}

func (s *SQLitePortRepository) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.SearchHit, error) {
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
		clauses = append(clauses, `country = ?`)
		args = append(args, opts.Country)
	}
	if len(clauses) > 0 {
		sqlQuery += " WHERE " + strings.Join(clauses, " AND ")
	}

	rows, err := s.DB.Query(sqlQuery, args...)
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

func (s *SQLitePortRepository) Nearby(_ context.Context, latDeg, lonDeg, radiusNM float64, limit int) ([]domain.Port, error) {
	latSpan := radiusNM/60 + 1
	rows, err := s.DB.Query(
		portSelectColumns+` WHERE lat BETWEEN ? AND ? AND lon BETWEEN ? AND ?`,
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
		return nil, fmt.Errorf("nearby ports: row iteration: %w", err)
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

func (s *SQLitePortRepository) All(_ context.Context) ([]domain.Port, error) {
	rows, err := s.DB.Query(portSelectColumns)
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

const portSelectColumns = `
SELECT code, name, country, lat, lon, type, status,
       max_length_m, max_beam_m, max_draft_m,
       berth_count, congestion_factor, avg_port_stay_hours,
       services, facilities, suez_connected, panama_connected
FROM ports`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPortRow(row rowScanner) (domain.Port, error) {
	var p domain.Port
	var typ, status, services, facilities string
	var maxLength, maxBeam, maxDraft sql.NullFloat64
	if err := row.Scan(
		&p.Code, &p.Name, &p.Country, &p.LatDeg, &p.LonDeg, &typ, &status,
		&maxLength, &maxBeam, &maxDraft,
		&p.BerthCount, &p.CongestionFactor, &p.AvgPortStayHours,
		&services, &facilities, &p.SuezConnected, &p.PanamaConnected,
	); err != nil {
		return domain.Port{}, err
	}
	p.Type = domain.PortType(typ)
	p.Status = domain.PortStatus(status)
	if maxLength.Valid {
		p.MaxLengthM = &maxLength.Float64
	}
	if maxBeam.Valid {
		p.MaxBeamM = &maxBeam.Float64
	}
	if maxDraft.Valid {
		p.MaxDraftM = &maxDraft.Float64
	}
	_ = json.Unmarshal([]byte(services), &p.Services)
	_ = json.Unmarshal([]byte(facilities), &p.Facilities)
	return p, nil
}
