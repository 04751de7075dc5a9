package models

import "strings"

// NoStreetID is the sentinel street id of every address in a streetless settlement
const NoStreetID = "00000"

// placeholderChars make up a street name that names nothing
const placeholderChars = " \t\n\v\f\r-–—."

// PlaceholderNamePattern matches the same names as IsPlaceholder does for a real street id.
// RE2 and PCRE read it the same way (\x0B, not \v, which PCRE widens), so stores can push
// the check down.
const PlaceholderNamePattern = `^[ \t\n\x0B\f\r.\-–—]*$`

// Street belongs to exactly one settlement
type Street struct {
	SettlementCode string `bson:"settlement_code" json:"settlement_code"`
	StreetID       string `bson:"street_id" json:"street_id"`
	Name           string `bson:"name" json:"name"`
	NormalizedName string `bson:"normalized_name" json:"-"`
}

// IsPlaceholder reports whether the row stands for "no named street" rather than a real street.
func (s Street) IsPlaceholder() bool {
	if s.StreetID == NoStreetID {
		return true
	}
	return strings.Trim(s.Name, placeholderChars) == ""
}
