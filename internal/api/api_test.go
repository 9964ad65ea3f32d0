package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"maritime-route-service/internal/adapters/analytics"
	"maritime-route-service/internal/adapters/cache"
	"maritime-route-service/internal/adapters/repositories"
	"maritime-route-service/internal/api/dto"
	"maritime-route-service/internal/coordinator"
	"maritime-route-service/internal/costmodel"
	"maritime-route-service/internal/domain"
	"maritime-route-service/internal/graphbuild"
)

func testCatalog() []domain.Port {
	shallow := 5.0
	return []domain.Port{
		{Code: "AAAAA", Name: "Alpha", Country: "XX", LatDeg: 0, LonDeg: 0, Type: domain.PortTypeContainer, Status: domain.PortStatusActive, CongestionFactor: 1.0},
		{Code: "BBBBB", Name: "Bravo", Country: "XX", LatDeg: 0, LonDeg: 5, Type: domain.PortTypeContainer, Status: domain.PortStatusActive, CongestionFactor: 1.0},
		// CCCCC is structurally connected (so the graph builds) but its
		// draft limit makes every edge touching it infeasible for the
		// 10m-draft test vessel, exercising the no-route-found path.
		{Code: "CCCCC", Name: "Charlie", Country: "XX", LatDeg: 0, LonDeg: 2, Type: domain.PortTypeContainer, Status: domain.PortStatusActive, CongestionFactor: 1.0, MaxDraftM: &shallow},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	repo := repositories.NewMemoryPortRepository(testCatalog())
	graph := graphbuild.NewHandle(repo, graphbuild.EmptyZoneTable(), graphbuild.Params{KNearest: 8, KNNRadiusNM: 2000, HubCount: 10, HubRadiusNM: 20000})
	if _, err := graph.Rebuild(context.Background()); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	model := costmodel.New(costmodel.DefaultTables(), nil)
	sink := analytics.NewLogSink(16)
	t.Cleanup(sink.Close)
	coord := coordinator.NewCoordinator(repo, graph, model, cache.NewNoopRouteCache(), sink, coordinator.Config{})
	return NewRouter(repo, graph, coord)
}

func calcBody() dto.CalculateRequest {
	return dto.CalculateRequest{
		OriginCode: "AAAAA", DestinationCode: "BBBBB",
		Vessel: dto.VesselRequest{
			Type: "container", LengthM: 200, BeamM: 30, DraftM: 10,
			CruiseSpeedKn: 16, MaxSpeedKn: 20, FuelType: "vlsfo",
			SuezCompatible: true, PanamaCompatible: true,
		},
		Criterion:      "fastest",
		TimeoutSeconds: 5,
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var res dto.HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Status != "ok" || res.CatalogNodeCount != 3 {
		t.Fatalf("unexpected health response: %+v", res)
	}
}

func TestCalculateEndpointHappyPath(t *testing.T) {
	router := newTestRouter(t)
	body, _ := json.Marshal(calcBody())
	req := httptest.NewRequest(http.MethodPost, "/routes/calculate", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res dto.RouteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.PrimaryRoute == nil {
		t.Fatal("expected a primary route")
	}
	if res.CacheHit {
		t.Fatal("expected a fresh computation on first call")
	}
}

func TestCalculateEndpointUnknownPortReturns404(t *testing.T) {
	router := newTestRouter(t)
	body := calcBody()
	body.DestinationCode = "ZZZZZ"
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/routes/calculate", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
	var res dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Error != "PORT_NOT_FOUND" {
		t.Fatalf("unexpected error kind: %+v", res)
	}
}

func TestCalculateEndpointRejectsUnknownFields(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/routes/calculate", bytes.NewReader([]byte(`{"origin_code":"AAAAA","bogus_field":1}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestValidateEndpoint(t *testing.T) {
	router := newTestRouter(t)
	body, _ := json.Marshal(calcBody())
	req := httptest.NewRequest(http.MethodPost, "/routes/validate", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res dto.ValidateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.Valid {
		t.Fatal("expected valid=true")
	}
}

func TestPortGetEndpoint(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/ports/AAAAA", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res dto.PortResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Code != "AAAAA" {
		t.Fatalf("unexpected port: %+v", res)
	}
}

func TestPortGetEndpointMalformedCode(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/ports/xx", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPortSearchEndpoint(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/ports/search?q=Alpha", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res dto.SearchPortsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Results) == 0 || res.Results[0].Port.Code != "AAAAA" {
		t.Fatalf("expected Alpha to be the top hit, got %+v", res.Results)
	}
}

func TestCalculateEndpointNoRouteFoundReturns200(t *testing.T) {
	router := newTestRouter(t)
	body := calcBody()
	body.DestinationCode = "CCCCC"
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/routes/calculate", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res dto.RouteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.PrimaryRoute != nil {
		t.Fatal("expected a nil primary route when no feasible path exists")
	}
	if len(res.Diagnostics) == 0 {
		t.Fatal("expected a populated diagnostic list")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodDelete, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
