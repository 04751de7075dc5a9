package locality

import (
	"errors"
	"strings"

	"github.com/address-offers/app/models"
)

// Stage is the next selection a cascade is waiting for
type Stage int

const (
	StageSettlement Stage = iota
	StageStreet
	StageNumber
	StageComplete
)

func (s Stage) String() string {
	switch s {
	case StageSettlement:
		return "settlement"
	case StageStreet:
		return "street"
	case StageNumber:
		return "number"
	case StageComplete:
		return "complete"
	default:
		return "unknown"
	}
}

var (
	ErrSettlementRequired = errors.New("select a settlement first")
	ErrStreetRequired     = errors.New("select a street first")
	ErrStreetless         = errors.New("settlement has no named streets")
	ErrEmptySelection     = errors.New("selection is empty")
)

// Cascade is the settlement -> street -> number selection state. Values are immutable;
// every transition returns a new state and resets whatever depended on the changed level.
type Cascade struct {
	Stage          Stage  `json:"stage"`
	SettlementCode string `json:"settlement_code,omitempty"`
	SettlementName string `json:"settlement_name,omitempty"`
	Streetless     bool   `json:"streetless"`
	StreetID       string `json:"street_id,omitempty"`
	StreetName     string `json:"street_name,omitempty"`
	Number         string `json:"number,omitempty"`
}

// SelectSettlement starts over from a settlement. A streetless settlement skips straight
// to number selection under the sentinel street id.
func (c Cascade) SelectSettlement(code, name string, hasStreets bool) (Cascade, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return c, ErrEmptySelection
	}
	next := Cascade{
		Stage:          StageStreet,
		SettlementCode: code,
		SettlementName: name,
	}
	if !hasStreets {
		next.Streetless = true
		next.StreetID = models.NoStreetID
		next.Stage = StageNumber
	}
	return next, nil
}

// SelectStreet picks a street of the selected settlement and clears the number.
func (c Cascade) SelectStreet(streetID, name string) (Cascade, error) {
	if c.Stage == StageSettlement {
		return c, ErrSettlementRequired
	}
	if c.Streetless {
		return c, ErrStreetless
	}
	streetID = strings.TrimSpace(streetID)
	if streetID == "" || streetID == models.NoStreetID {
		return c, ErrEmptySelection
	}
	next := c
	next.StreetID = streetID
	next.StreetName = name
	next.Number = ""
	next.Stage = StageNumber
	return next, nil
}

// SelectNumber completes the address.
func (c Cascade) SelectNumber(number string) (Cascade, error) {
	switch c.Stage {
	case StageSettlement:
		return c, ErrSettlementRequired
	case StageStreet:
		return c, ErrStreetRequired
	}
	number = strings.TrimSpace(number)
	if number == "" {
		return c, ErrEmptySelection
	}
	next := c
	next.Number = number
	next.Stage = StageComplete
	return next, nil
}

// Reset returns the empty cascade.
func (c Cascade) Reset() Cascade { return Cascade{} }

// AddressKey returns the resolved key once the cascade is complete.
func (c Cascade) AddressKey() (models.AddressKey, bool) {
	if c.Stage != StageComplete {
		return models.AddressKey{}, false
	}
	return models.NewAddressKey(c.SettlementCode, c.StreetID, c.Number), true
}
