package normalizer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
)

// foldTable maps every accented letter of the Polish alphabet onto its base Latin letter.
// It is a fixed one-to-one table, not a general Unicode folding.
var foldTable = map[rune]rune{
	'ą': 'a', 'ć': 'c', 'ę': 'e', 'ł': 'l', 'ń': 'n', 'ó': 'o', 'ś': 's', 'ź': 'z', 'ż': 'z',
	'Ą': 'a', 'Ć': 'c', 'Ę': 'e', 'Ł': 'l', 'Ń': 'n', 'Ó': 'o', 'Ś': 's', 'Ź': 'z', 'Ż': 'z',
}

var (
	reParenSuffix = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	reSpaces      = regexp.MustCompile(`\s+`)
	reSlugJunk    = regexp.MustCompile(`[^a-z0-9]+`)
)

// Normalize builds the comparable key used on both stored names and user queries:
// whitespace removed, lower-cased, Polish diacritics folded.
// Matching everywhere is strings.Contains(Normalize(candidate), Normalize(query)).
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		if folded, ok := foldTable[r]; ok {
			b.WriteRune(folded)
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Matches reports whether query is contained anywhere in candidate after normalization.
func Matches(candidate, query string) bool {
	return strings.Contains(Normalize(candidate), Normalize(query))
}

// SettlementMatchKey strips a parenthetical district suffix ("City (District)" -> "City")
// and case-folds the rest. Used for local-offer eligibility.
func SettlementMatchKey(name string) string {
	name = reParenSuffix.ReplaceAllString(name, "")
	name = reSpaces.ReplaceAllString(strings.TrimSpace(name), " ")
	return strings.ToLower(name)
}

// Slug builds an ASCII slug ("Orange Polska" -> "orange-polska").
func Slug(name string) string {
	s := strings.ToLower(unidecode.Unidecode(name))
	s = reSlugJunk.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
