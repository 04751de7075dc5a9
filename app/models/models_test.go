package models

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumberSortValue(t *testing.T) {
	cases := map[string]int{
		"2":     2,
		"10":    10,
		"3A":    3,
		"12/4":  12,
		" 7b ":  7,
		"A":     0,
		"":      0,
		"0012C": 12,
	}
	for in, want := range cases {
		assert.Equal(t, want, NumberSortValue(in), in)
	}
}

func TestNewAddressKey_StreetlessSentinel(t *testing.T) {
	key := NewAddressKey("0918123", "", "1")
	assert.Equal(t, NoStreetID, key.StreetID)
	assert.True(t, key.IsStreetless())
	assert.True(t, key.IsComplete())
	assert.Equal(t, "0918123/00000/1", key.String())

	assert.False(t, NewAddressKey("", "12345", "1").IsComplete())
}

func TestStreet_IsPlaceholder(t *testing.T) {
	assert.True(t, Street{StreetID: NoStreetID, Name: "Marszałkowska"}.IsPlaceholder())
	assert.True(t, Street{StreetID: "1", Name: "  "}.IsPlaceholder())
	assert.True(t, Street{StreetID: "1", Name: "-"}.IsPlaceholder())
	assert.False(t, Street{StreetID: "1", Name: "ul. Marszałkowska"}.IsPlaceholder())
}

func TestPlaceholderNamePattern_AgreesWithIsPlaceholder(t *testing.T) {
	re := regexp.MustCompile(PlaceholderNamePattern)
	names := []string{"", " ", "\t", "\n", "\r\n", "\v", "\f", "-", "–", "—", ". - .", "ul.", "3 Maja", " a ", "-x-", "\u2028"}
	for _, name := range names {
		st := Street{StreetID: "1", Name: name}
		assert.Equal(t, st.IsPlaceholder(), re.MatchString(name), "name %q", name)
	}
	assert.True(t, Street{StreetID: "1", Name: "\n"}.IsPlaceholder())
}

func TestCoverageRecord_IsUsable(t *testing.T) {
	assert.True(t, CoverageRecord{Capacity: 5}.IsUsable())
	assert.False(t, CoverageRecord{Capacity: 0}.IsUsable())
	assert.False(t, CoverageRecord{Capacity: -1}.IsUsable())
}
