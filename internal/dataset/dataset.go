// Package dataset holds a full snapshot of the registry, coverage and offer data,
// loaded from an .xlsx workbook with one sheet per record kind.
package dataset

import (
	"strings"

	"github.com/address-offers/app/models"
	"github.com/address-offers/internal/normalizer"
)

// Dataset is an in-memory snapshot of every collection
type Dataset struct {
	Settlements []models.Settlement
	Streets     []models.Street
	Buildings   []models.BuildingNumber
	Operators   []models.Operator
	Offers      []models.Offer
	Coverage    []models.CoverageRecord
	Antennas    []models.AntennaDistance
}

// Prepare fills the derived fields (normalized names, numeric projections, slugs,
// sentinel street ids). Loaders call it; callers building datasets by hand should too.
func (d *Dataset) Prepare() {
	for i := range d.Settlements {
		s := &d.Settlements[i]
		s.NormalizedName = normalizer.Normalize(s.Name)
	}
	for i := range d.Streets {
		s := &d.Streets[i]
		s.StreetID = streetIDOrSentinel(s.StreetID)
		s.NormalizedName = normalizer.Normalize(s.Name)
	}
	for i := range d.Buildings {
		b := &d.Buildings[i]
		b.StreetID = streetIDOrSentinel(b.StreetID)
		b.Number = strings.TrimSpace(b.Number)
		b.NumberSort = models.NumberSortValue(b.Number)
	}
	for i := range d.Operators {
		op := &d.Operators[i]
		if op.Slug == "" {
			op.Slug = normalizer.Slug(op.Name)
		}
	}
	for i := range d.Coverage {
		c := &d.Coverage[i]
		c.StreetID = streetIDOrSentinel(c.StreetID)
		if c.Provenance == "" {
			c.Provenance = models.ProvenanceImported
		}
	}
	for i := range d.Antennas {
		a := &d.Antennas[i]
		a.StreetID = streetIDOrSentinel(a.StreetID)
	}
}

// OperatorsByID indexes operators by id.
func (d *Dataset) OperatorsByID() map[string]models.Operator {
	out := make(map[string]models.Operator, len(d.Operators))
	for _, op := range d.Operators {
		out[op.ID] = op
	}
	return out
}

func streetIDOrSentinel(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.NoStreetID
	}
	return id
}

type coverageKey struct {
	operatorID string
	key        models.AddressKey
}

// ReconcileCoverage collapses duplicate (operator, address key) records into one,
// keeping the most recently updated. Order of first appearance is preserved.
func (d *Dataset) ReconcileCoverage() []models.CoverageRecord {
	pos := make(map[coverageKey]int, len(d.Coverage))
	out := make([]models.CoverageRecord, 0, len(d.Coverage))
	for _, rec := range d.Coverage {
		k := coverageKey{operatorID: rec.OperatorID, key: rec.Key()}
		i, seen := pos[k]
		if !seen {
			pos[k] = len(out)
			out = append(out, rec)
			continue
		}
		if !rec.UpdatedAt.Before(out[i].UpdatedAt) {
			out[i] = rec
		}
	}
	return out
}
