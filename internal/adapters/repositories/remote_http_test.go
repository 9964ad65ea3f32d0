package repositories

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"maritime-route-service/internal/apperr"
	"maritime-route-service/internal/domain"
)

func TestRemotePortRepositoryGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ports/SGSIN":
			json.NewEncoder(w).Encode(remotePort{Code: "SGSIN", Name: "Singapore", Type: "container", Status: "active"})
		case "/ports/ZZZZZ":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("not found"))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	repo := NewRemotePortRepository(srv.URL, srv.Client())
	ctx := context.Background()

	p, err := repo.Get(ctx, "sgsin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Singapore" {
		t.Fatalf("unexpected port: %+v", p)
	}

	_, err = repo.Get(ctx, "ZZZZZ")
	if !apperr.Is(err, apperr.KindPortNotFound) {
		t.Fatalf("expected KindPortNotFound, got %v", err)
	}
}

func TestRemotePortRepositoryRetriesOn503(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode([]remotePort{{Code: "NLRTM", Name: "Rotterdam", Type: "container", Status: "active"}})
	}))
	defer srv.Close()

	repo := NewRemotePortRepository(srv.URL, srv.Client())
	ports, err := repo.All(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ports) != 1 || ports[0].Code != "NLRTM" {
		t.Fatalf("unexpected ports: %+v", ports)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestRemotePortRepositorySearchValidatesQueryLength(t *testing.T) {
	repo := NewRemotePortRepository("http://example.invalid", nil)
	_, err := repo.Search(context.Background(), "a", domain.SearchOptions{})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
