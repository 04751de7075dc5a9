package normalizer

import (
	"regexp"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	reRomanNumeral = regexp.MustCompile(`^M{0,3}(CM|CD|D?C{0,3})(XC|XL|L?X{0,3})(IX|IV|V?I{0,3})$`)
	reDigits       = regexp.MustCompile(`^[0-9]+$`)
)

// StreetNamer canonicalizes raw registry street names for display and derives their sort keys.
// Safe for concurrent use.
type StreetNamer struct {
	types      []StreetType
	longForms  map[string]string // abbreviation -> long form
	typeOfWord map[string]int    // normalized leading word -> bucket
	acronyms   map[string]struct{}
	abbrevRe   *regexp.Regexp

	collators sync.Pool
}

// NewStreetNamer builds a namer from canonicalization rules.
func NewStreetNamer(rules *StreetRules) *StreetNamer {
	sn := &StreetNamer{
		types:      rules.Types,
		longForms:  make(map[string]string),
		typeOfWord: make(map[string]int),
		acronyms:   make(map[string]struct{}, len(rules.Acronyms)),
	}

	abbrevs := make([]string, 0)
	for i, t := range rules.Types {
		for _, a := range t.Abbreviations {
			a = strings.ToLower(strings.TrimSuffix(a, "."))
			sn.longForms[a] = t.LongForm
			sn.typeOfWord[Normalize(a)+"."] = i
			abbrevs = append(abbrevs, regexp.QuoteMeta(a))
		}
		sn.typeOfWord[Normalize(t.LongForm)] = i
		for _, w := range t.Words {
			sn.typeOfWord[Normalize(w)] = i
		}
	}
	for _, a := range rules.Acronyms {
		sn.acronyms[strings.ToUpper(a)] = struct{}{}
	}
	if len(abbrevs) > 0 {
		sn.abbrevRe = regexp.MustCompile(`(?i)^(` + strings.Join(abbrevs, "|") + `)\.\s*(.*)$`)
	}
	sn.collators.New = func() any {
		return collate.New(language.Polish)
	}
	return sn
}

// Canonicalize expands a leading dotted abbreviation ("ul. X" -> "Ulica X"), collapses
// redundant forms ("al. Aleja X" -> "Aleja X") and re-capitalizes every token.
func (sn *StreetNamer) Canonicalize(raw string) string {
	s := strings.Join(strings.Fields(raw), " ")
	if s == "" {
		return ""
	}
	if abbr, rest, ok := sn.splitAbbreviation(s); ok {
		if sn.startsWithTypeOf(rest, abbr) {
			s = rest
		} else if rest == "" {
			s = sn.longForms[abbr]
		} else {
			s = sn.longForms[abbr] + " " + rest
		}
	}
	return sn.titleCase(s)
}

// IsRedundantAbbreviation reports raw names that spell the street type twice ("ul. Ulica X").
func (sn *StreetNamer) IsRedundantAbbreviation(raw string) bool {
	s := strings.Join(strings.Fields(raw), " ")
	abbr, rest, ok := sn.splitAbbreviation(s)
	return ok && sn.startsWithTypeOf(rest, abbr)
}

// SortKey buckets a display name by its leading street-type word and orders names
// within a bucket with Polish collation on the remainder. Plain string comparison of
// two keys yields the display order; the display name itself makes the order total.
func (sn *StreetNamer) SortKey(display string) string {
	bucket := len(sn.types)
	remainder := display
	fields := strings.Fields(display)
	if len(fields) > 0 {
		if i, ok := sn.bucketOf(fields[0]); ok {
			bucket = i
			remainder = strings.Join(fields[1:], " ")
		}
	}

	col := sn.collators.Get().(*collate.Collator)
	var buf collate.Buffer
	key := col.KeyFromString(&buf, remainder)
	sn.collators.Put(col)

	var b strings.Builder
	b.Grow(len(key) + len(display) + 4)
	b.WriteByte(byte('0' + bucket/10))
	b.WriteByte(byte('0' + bucket%10))
	b.Write(key)
	b.WriteByte(0)
	b.WriteString(display)
	return b.String()
}

// Bucket returns the street-type name of a display name, or "other".
func (sn *StreetNamer) Bucket(display string) string {
	fields := strings.Fields(display)
	if len(fields) > 0 {
		if i, ok := sn.bucketOf(fields[0]); ok {
			return sn.types[i].Name
		}
	}
	return "other"
}

func (sn *StreetNamer) splitAbbreviation(s string) (abbr, rest string, ok bool) {
	if sn.abbrevRe == nil {
		return "", "", false
	}
	m := sn.abbrevRe.FindStringSubmatch(s)
	if m == nil {
		return "", "", false
	}
	return strings.ToLower(m[1]), strings.TrimSpace(m[2]), true
}

// startsWithTypeOf checks whether rest already begins with a long word of the abbreviation's type.
func (sn *StreetNamer) startsWithTypeOf(rest, abbr string) bool {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return false
	}
	want, ok := sn.typeOfWord[Normalize(abbr)+"."]
	if !ok {
		return false
	}
	got, ok := sn.typeOfWord[Normalize(fields[0])]
	return ok && got == want
}

func (sn *StreetNamer) bucketOf(word string) (int, bool) {
	key := Normalize(word)
	if i, ok := sn.typeOfWord[key]; ok {
		return i, true
	}
	return 0, false
}

func (sn *StreetNamer) titleCase(s string) string {
	// cases.Caser is stateful, one per call
	caser := cases.Title(language.Polish)
	tokens := strings.Split(s, " ")
	for i, tok := range tokens {
		tokens[i] = sn.titleToken(tok, caser)
	}
	return strings.Join(tokens, " ")
}

func (sn *StreetNamer) titleToken(tok string, caser cases.Caser) string {
	if tok == "" || reDigits.MatchString(tok) {
		return tok
	}
	upper := strings.ToUpper(tok)
	if _, ok := sn.acronyms[strings.Trim(upper, ".,")]; ok {
		return upper
	}
	if reRomanNumeral.MatchString(strings.Trim(upper, ".,")) {
		return upper
	}
	if strings.Contains(tok, "-") {
		parts := strings.Split(tok, "-")
		for i, p := range parts {
			parts[i] = sn.titleToken(p, caser)
		}
		return strings.Join(parts, "-")
	}
	caser.Reset()
	return caser.String(tok)
}
