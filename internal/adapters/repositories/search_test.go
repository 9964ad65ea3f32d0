package repositories

import (
	"testing"

	"maritime-route-service/internal/domain"
)

func TestRankPortsOrdering(t *testing.T) {
	candidates := []domain.Port{
		{Code: "NLRTM", Name: "Rotterdam", BerthCount: 45},
		{Code: "AAAAA", Name: "Rotterdam Annex", BerthCount: 10},
		{Code: "BBBBB", Name: "Port of Rotterdamish", BerthCount: 5},
	}

	hits := RankPorts("rotterdam", candidates, domain.SearchOptions{})
	if len(hits) < 2 {
		t.Fatalf("expected at least 2 matches, got %d", len(hits))
	}
	if hits[0].Port.Code != "NLRTM" {
		t.Fatalf("expected exact-name prefix match to rank first, got %s", hits[0].Port.Code)
	}
}

func TestRankPortsTieBreakByBerthCountThenName(t *testing.T) {
	candidates := []domain.Port{
		{Code: "ZZZZZ", Name: "Zed Port", BerthCount: 5},
		{Code: "AAAAA", Name: "Ay Port", BerthCount: 5},
		{Code: "BBBBB", Name: "Big Port", BerthCount: 20},
	}
	hits := RankPorts("port", candidates, domain.SearchOptions{})
	if len(hits) != 3 {
		t.Fatalf("expected 3 substring matches, got %d", len(hits))
	}
	if hits[0].Port.Code != "BBBBB" {
		t.Fatalf("expected higher berth count first, got %s", hits[0].Port.Code)
	}
	if hits[1].Port.Code != "AAAAA" || hits[2].Port.Code != "ZZZZZ" {
		t.Fatalf("expected alphabetic tie-break among equal berth counts, got %s then %s", hits[1].Port.Code, hits[2].Port.Code)
	}
}

func TestRankPortsRespectsLimit(t *testing.T) {
	var candidates []domain.Port
	for i := 0; i < 150; i++ {
		candidates = append(candidates, domain.Port{Code: "AAAAA", Name: "Portland"})
	}
	hits := RankPorts("port", candidates, domain.SearchOptions{Limit: 200})
	if len(hits) != 100 {
		t.Fatalf("expected hard cap of 100 results, got %d", len(hits))
	}
}

func TestTrigramSimilarityFallback(t *testing.T) {
	candidates := []domain.Port{{Code: "DEHAM", Name: "Hamburg"}}
	hits := RankPorts("hamurg", candidates, domain.SearchOptions{})
	if len(hits) != 1 {
		t.Fatalf("expected trigram fallback to match a near-typo query, got %d hits", len(hits))
	}
}

func TestScorePortNoMatch(t *testing.T) {
	_, matched := scorePort("xyzxyz", domain.Port{Code: "DEHAM", Name: "Hamburg"})
	if matched {
		t.Fatal("expected no match for an unrelated query")
	}
}
