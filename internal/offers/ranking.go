package offers

import (
	"sort"

	"github.com/address-offers/app/models"
	"github.com/address-offers/internal/coverage"
)

// Result is the ordered offer list of one address
type Result struct {
	Offers           []models.Offer `json:"offers"`
	HasCableCoverage bool           `json:"has_cable_coverage"`
}

// Rank sorts offers in place: featured, local, cable before mobile (only when cableTier),
// priority descending, newest first, then offer id.
func Rank(offers []models.Offer, cableTier bool) {
	sort.SliceStable(offers, func(i, j int) bool {
		a, b := offers[i], offers[j]
		if a.Featured != b.Featured {
			return a.Featured
		}
		if a.Local != b.Local {
			return a.Local
		}
		if cableTier && a.IsCable() != b.IsCable() {
			return a.IsCable()
		}
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// Interleave regroups ranked offers by operator, keeping each operator's relative order,
// and emits them round-robin. Operators take turns in order of their first appearance.
func Interleave(ranked []models.Offer) []models.Offer {
	var order []string
	queues := make(map[string][]models.Offer)
	for _, o := range ranked {
		if _, ok := queues[o.OperatorID]; !ok {
			order = append(order, o.OperatorID)
		}
		queues[o.OperatorID] = append(queues[o.OperatorID], o)
	}

	out := make([]models.Offer, 0, len(ranked))
	for len(out) < len(ranked) {
		for _, id := range order {
			q := queues[id]
			if len(q) == 0 {
				continue
			}
			out = append(out, q[0])
			queues[id] = q[1:]
		}
	}
	return out
}

// Match filters the catalog for an address and orders the survivors.
func Match(catalog *Catalog, cov coverage.Coverage, settlementName string) Result {
	eligible := make([]models.Offer, 0, catalog.Len())
	hasCable := false
	for _, e := range catalog.entries {
		if !e.eligible(cov, settlementName) {
			continue
		}
		if e.offer.IsCable() {
			hasCable = true
		}
		eligible = append(eligible, e.offer)
	}

	Rank(eligible, hasCable)
	return Result{
		Offers:           Interleave(eligible),
		HasCableCoverage: hasCable,
	}
}
