package repositories

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"maritime-route-service/internal/domain"
)

// portCollator provides locale-aware, accent-insensitive comparison for
// the alphabetic tie-break of spec.md §4.2's ranking rule. A single
// package-level collator is safe for concurrent use.
var portCollator = collate.New(language.English, collate.IgnoreCase, collate.IgnoreDiacritics)

// normalizeQuery folds a search query to NFC and lowercases it so that
// visually-identical queries with different Unicode representations
// (e.g. combining vs. precomposed accents) rank identically.
func normalizeQuery(q string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(q)))
}

const (
	scoreExactCode      = 100.0
	scoreNamePrefix     = 80.0
	scoreNameSubstring  = 60.0
	scoreTrigramBase    = 40.0
	minTrigramSimilarity = 0.15
)

// trigramSimilarity returns a Dice-coefficient similarity in [0, 1]
// between two normalized strings' character trigram sets.
func trigramSimilarity(a, b string) float64 {
	ta := trigrams(a)
	tb := trigrams(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	shared := 0
	for tri := range ta {
		if _, ok := tb[tri]; ok {
			shared++
		}
	}
	return 2 * float64(shared) / float64(len(ta)+len(tb))
}

func trigrams(s string) map[string]struct{} {
	padded := "  " + s + " "
	runes := []rune(padded)
	set := make(map[string]struct{}, len(runes))
	for i := 0; i+3 <= len(runes); i++ {
		set[string(runes[i:i+3])] = struct{}{}
	}
	return set
}

// RankPorts scores candidates against query per spec.md §4.2's rule and
// returns them ordered by descending relevance, then descending berth
// count, then alphabetic name (locale-aware, case/diacritic-insensitive).
// candidates should already be filtered by opts.Country/status/vessel
// compatibility; RankPorts only scores and orders.
func RankPorts(query string, candidates []domain.Port, opts domain.SearchOptions) []domain.SearchHit {
	nq := normalizeQuery(query)

	hits := make([]domain.SearchHit, 0, len(candidates))
	for _, p := range candidates {
		score, matched := scorePort(nq, p)
		if !matched {
			continue
		}

		hit := domain.SearchHit{Port: p, RelevanceScore: score}
		if opts.Vessel != nil {
			hit.Notes = compatibilityNotes(*opts.Vessel, p)
		}
		hits = append(hits, hit)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].RelevanceScore != hits[j].RelevanceScore {
			return hits[i].RelevanceScore > hits[j].RelevanceScore
		}
		if hits[i].Port.BerthCount != hits[j].Port.BerthCount {
			return hits[i].Port.BerthCount > hits[j].Port.BerthCount
		}
		return portCollator.CompareString(hits[i].Port.Name, hits[j].Port.Name) < 0
	})

	limit := opts.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if len(hits) > limit {
		hits = hits[:limit]
	}

	return hits
}

func scorePort(nq string, p domain.Port) (float64, bool) {
	code := strings.ToLower(p.Code)
	name := normalizeQuery(p.Name)

	if code == nq {
		return scoreExactCode, true
	}
	if strings.HasPrefix(name, nq) {
		return scoreNamePrefix, true
	}
	if strings.Contains(name, nq) {
		return scoreNameSubstring, true
	}

	sim := trigramSimilarity(nq, name)
	if sim >= minTrigramSimilarity {
		return scoreTrigramBase * sim, true
	}

	return 0, false
}

func compatibilityNotes(v domain.VesselConstraints, p domain.Port) []string {
	var notes []string
	if p.MaxDraftM != nil && v.DraftM > *p.MaxDraftM {
		notes = append(notes, "draft exceeds port maximum")
	}
	if p.MaxLengthM != nil && v.LengthM > *p.MaxLengthM {
		notes = append(notes, "length exceeds port maximum")
	}
	if p.MaxBeamM != nil && v.BeamM > *p.MaxBeamM {
		notes = append(notes, "beam exceeds port maximum")
	}
	return notes
}
