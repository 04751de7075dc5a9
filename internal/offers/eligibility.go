// Package offers filters the active-offer catalog down to what can be sold at a resolved
// address and orders the result.
package offers

import (
	"github.com/address-offers/app/models"
	"github.com/address-offers/internal/coverage"
	"github.com/address-offers/internal/normalizer"
)

// SettlementSet holds settlement match keys (district suffix stripped, case-folded)
type SettlementSet map[string]struct{}

// NewSettlementSet builds a set from display names.
func NewSettlementSet(names []string) SettlementSet {
	set := make(SettlementSet, len(names))
	for _, n := range names {
		if k := normalizer.SettlementMatchKey(n); k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}

// Contains reports whether the settlement, by display name, is in the set.
func (s SettlementSet) Contains(settlementName string) bool {
	_, ok := s[normalizer.SettlementMatchKey(settlementName)]
	return ok
}

// entry is a catalog offer with its local-eligibility set resolved once
type entry struct {
	offer models.Offer
	local SettlementSet
}

// Catalog is a snapshot of the active-offer catalog prepared for matching
type Catalog struct {
	entries []entry
}

// NewCatalog prepares offers for matching.
func NewCatalog(offers []models.Offer) *Catalog {
	c := &Catalog{entries: make([]entry, 0, len(offers))}
	for _, o := range offers {
		e := entry{offer: o}
		if o.Local {
			e.local = NewSettlementSet(o.LocalSettlements)
		}
		c.entries = append(c.entries, e)
	}
	return c
}

// Len returns the number of offers in the catalog.
func (c *Catalog) Len() int { return len(c.entries) }

// eligible applies the three gates: active, cable needs coverage, local needs the settlement.
func (e entry) eligible(cov coverage.Coverage, settlementName string) bool {
	o := e.offer
	if !o.Active {
		return false
	}
	if o.IsCable() && !cov.Has(o.OperatorID) {
		return false
	}
	if o.Local && !e.local.Contains(settlementName) {
		return false
	}
	return true
}

// Eligible reports whether a single offer can be sold at an address with coverage cov in
// the named settlement.
func Eligible(o models.Offer, cov coverage.Coverage, settlementName string) bool {
	e := entry{offer: o}
	if o.Local {
		e.local = NewSettlementSet(o.LocalSettlements)
	}
	return e.eligible(cov, settlementName)
}
