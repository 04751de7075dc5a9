package models

import (
	"fmt"
	"strconv"
	"strings"
)

// AddressKey identifies a physical building. Every coverage and eligibility
// decision is keyed by this triple, never by free text.
type AddressKey struct {
	SettlementCode string `bson:"settlement_code" json:"settlement_code"`
	StreetID       string `bson:"street_id" json:"street_id"`
	Number         string `bson:"number" json:"number"`
}

// NewAddressKey builds a key, substituting the sentinel street id for streetless settlements.
func NewAddressKey(settlementCode, streetID, number string) AddressKey {
	streetID = strings.TrimSpace(streetID)
	if streetID == "" {
		streetID = NoStreetID
	}
	return AddressKey{
		SettlementCode: strings.TrimSpace(settlementCode),
		StreetID:       streetID,
		Number:         strings.TrimSpace(number),
	}
}

// IsComplete reports whether all three parts are present.
func (k AddressKey) IsComplete() bool {
	return k.SettlementCode != "" && k.StreetID != "" && k.Number != ""
}

// IsStreetless reports whether the key belongs to a settlement without named streets.
func (k AddressKey) IsStreetless() bool {
	return k.StreetID == NoStreetID
}

func (k AddressKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.SettlementCode, k.StreetID, k.Number)
}

// BuildingNumber is one addressable number within a street (or a streetless settlement)
type BuildingNumber struct {
	SettlementCode string `bson:"settlement_code" json:"settlement_code"`
	StreetID       string `bson:"street_id" json:"street_id"`
	Number         string `bson:"number" json:"number"` // raw, may carry letters ("12A")
	NumberSort     int    `bson:"number_sort" json:"number_sort"`
}

// Key returns the address key of the building.
func (b BuildingNumber) Key() AddressKey {
	return AddressKey{SettlementCode: b.SettlementCode, StreetID: b.StreetID, Number: b.Number}
}

// NumberSortValue projects a raw building number onto its leading digit run ("12A" -> 12).
// Numbers without leading digits project to 0.
func NumberSortValue(number string) int {
	number = strings.TrimSpace(number)
	end := 0
	for end < len(number) && number[end] >= '0' && number[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	v, err := strconv.Atoi(number[:end])
	if err != nil {
		return 0
	}
	return v
}
