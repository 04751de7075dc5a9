package search

import (
	"sort"

	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"

	"github.com/address-offers/app/models"
	"github.com/address-offers/internal/normalizer"
)

// Suggestion scoring follows the Jaro-Winkler / Levenshtein pairing: similarity first,
// edit distance to break near-ties, then settlement weight.
const (
	jwBoostThreshold = 0.7
	jwPrefixSize     = 4
)

type scored struct {
	st   models.Settlement
	jw   float64
	dist int
}

// RankSuggestions orders candidates by similarity of their normalized name to query
// and truncates to limit (0 means no limit).
func RankSuggestions(query string, candidates []models.Settlement, limit int) []models.Settlement {
	q := normalizer.Normalize(query)
	list := make([]scored, 0, len(candidates))
	for _, st := range candidates {
		name := st.NormalizedName
		if name == "" {
			name = normalizer.Normalize(st.Name)
		}
		list = append(list, scored{
			st:   st,
			jw:   smetrics.JaroWinkler(q, name, jwBoostThreshold, jwPrefixSize),
			dist: levenshtein.ComputeDistance(q, name),
		})
	}

	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.jw != b.jw {
			return a.jw > b.jw
		}
		if a.dist != b.dist {
			return a.dist < b.dist
		}
		if a.st.Weight != b.st.Weight {
			return a.st.Weight > b.st.Weight
		}
		return a.st.Code < b.st.Code
	})

	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	out := make([]models.Settlement, len(list))
	for i, s := range list {
		out[i] = s.st
	}
	return out
}
