// Package store defines the read-only record store consumed by the locality index,
// the coverage resolver and the offer engine.
package store

import (
	"context"

	"github.com/address-offers/app/models"
)

// SettlementQuery selects settlements whose normalized name contains Contains,
// ordered by weight descending then name ascending.
type SettlementQuery struct {
	Contains string
	Limit    int
}

// StreetQuery selects streets of one settlement whose normalized name contains Contains,
// in store order (first occurrence first).
type StreetQuery struct {
	SettlementCode string
	Contains       string
	Limit          int
}

// BuildingQuery selects building numbers of one street (or of a streetless settlement
// when StreetID is models.NoStreetID). Prefix is matched case-insensitively against the
// raw number; empty selects all. Ordered by numeric projection then number.
type BuildingQuery struct {
	SettlementCode string
	StreetID       string
	Prefix         string
	Limit          int
}

// LocalityReader serves the three cascading lookups
type LocalityReader interface {
	FindSettlements(ctx context.Context, q SettlementQuery) ([]models.Settlement, error)
	GetSettlement(ctx context.Context, code string) (*models.Settlement, bool, error)
	FindStreets(ctx context.Context, q StreetQuery) ([]models.Street, error)
	HasNamedStreets(ctx context.Context, settlementCode string) (bool, error)
	FindBuildingNumbers(ctx context.Context, q BuildingQuery) ([]models.BuildingNumber, error)
	// HasBuilding reports whether the exact address key is in the registry.
	HasBuilding(ctx context.Context, key models.AddressKey) (bool, error)
}

// CoverageReader serves exact address-key coverage lookups
type CoverageReader interface {
	FindCoverage(ctx context.Context, key models.AddressKey) ([]models.CoverageRecord, error)
}

// OfferReader serves the active-offer catalog
type OfferReader interface {
	// FindActiveOffers returns active offers of active operators with Operator populated.
	FindActiveOffers(ctx context.Context) ([]models.Offer, error)
}

// SignalReader serves antenna distance measurements
type SignalReader interface {
	FindAntennaDistances(ctx context.Context, key models.AddressKey) ([]models.AntennaDistance, error)
}

// Reader is the full read surface of the store
type Reader interface {
	LocalityReader
	CoverageReader
	OfferReader
	SignalReader
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
