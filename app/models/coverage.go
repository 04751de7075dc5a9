package models

import "time"

// Provenance constants
const (
	ProvenanceManual   = "manual"
	ProvenanceImported = "imported"
)

// CoverageRecord says that an operator has infrastructure at an address.
// A capacity of zero means the record is present but inert.
type CoverageRecord struct {
	OperatorID     string    `bson:"operator_id" json:"operator_id"`
	SettlementCode string    `bson:"settlement_code" json:"settlement_code"`
	StreetID       string    `bson:"street_id" json:"street_id"`
	Number         string    `bson:"number" json:"number"`
	Capacity       int       `bson:"capacity" json:"capacity"`
	Provenance     string    `bson:"provenance" json:"provenance"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

// Key returns the address key the record is attached to.
func (c CoverageRecord) Key() AddressKey {
	return AddressKey{SettlementCode: c.SettlementCode, StreetID: c.StreetID, Number: c.Number}
}

// IsUsable reports whether the record represents serviceable infrastructure.
func (c CoverageRecord) IsUsable() bool {
	return c.Capacity > 0
}

// IsValidProvenance reports whether the provenance tag is known
func (c CoverageRecord) IsValidProvenance() bool {
	return c.Provenance == ProvenanceManual || c.Provenance == ProvenanceImported
}
