package parser

import (
	"regexp"
	"strings"
)

var (
	postalCodeRe = regexp.MustCompile(`\b\d{2}-\d{3}\b`)
	// building number with an optional letter and second part ("12A", "12/14"), optionally
	// followed by a flat ("m. 4", "lok. 2") which is dropped
	numberRe = regexp.MustCompile(`(?i)(?:^|[\s,])(\d+\pL?(?:[/-]\d+\pL?)?)(?:\s*(?:m\.?|lok\.?)\s*\d+\pL?)?(?:$|[\s,])`)
	// street type words; a settlement name never contains them
	streetMarkerRe = regexp.MustCompile(`(?i)(?:^|\s)(ul\.?|ulica|al\.?|aleja|aleje|pl\.?|plac|os\.?|osiedle)\s`)
	spacesRe       = regexp.MustCompile(`\s+`)
)

// Components are the pieces recognized in a free-text address
type Components struct {
	PostalCode string `json:"postal_code,omitempty"`
	Number     string `json:"number,omitempty"`
	// Rest is the text left once the postal code and number are removed
	Rest string `json:"rest"`
}

// candidate is one way of reading Rest as settlement and street text
type candidate struct {
	settlement string
	street     string
}

func clean(s string) string {
	s = spacesRe.ReplaceAllString(s, " ")
	return strings.Trim(s, " ,;")
}

// Extract pulls the postal code and the last building number out of text.
func Extract(text string) Components {
	var c Components
	text = clean(text)

	if loc := postalCodeRe.FindStringIndex(text); loc != nil {
		c.PostalCode = text[loc[0]:loc[1]]
		text = clean(text[:loc[0]] + " " + text[loc[1]:])
	}

	if all := numberRe.FindAllStringSubmatchIndex(text, -1); len(all) > 0 {
		m := all[len(all)-1]
		c.Number = text[m[2]:m[3]]
		tail := text[m[1]:]
		// the trailing separator belongs to the rest
		if last := text[m[1]-1]; last == ',' || last == ' ' {
			tail = text[m[1]-1:]
		}
		text = text[:m[2]] + " | " + tail
	}
	c.Rest = text
	return c
}

// candidates lists the settlement/street readings of an extracted address,
// most likely first.
func candidates(c Components) []candidate {
	text := c.Rest
	var before, after string
	if i := strings.Index(text, "|"); i >= 0 {
		before, after = text[:i], text[i+1:]
	} else {
		before = text
	}

	// "Street 12, Settlement", "Settlement, Street 12" or "Street 12 Settlement"
	if parts := splitSegments(before + "," + after); len(parts) > 1 {
		numberSeg := clean(before)
		if j := strings.LastIndex(numberSeg, ","); j >= 0 {
			numberSeg = clean(numberSeg[j+1:])
		}
		var others []string
		for _, p := range parts {
			if p != numberSeg {
				others = append(others, p)
			}
		}
		settlement := strings.Join(others, " ")
		return []candidate{
			{settlement: settlement, street: numberSeg},
			{settlement: numberSeg + " " + settlement},
		}
	}

	text = clean(before + " " + after)
	if text == "" {
		return nil
	}

	// "Settlement ul. Street 12"
	if loc := streetMarkerRe.FindStringSubmatchIndex(text); loc != nil && loc[2] > 0 {
		return []candidate{{settlement: clean(text[:loc[2]]), street: clean(text[loc[2]:])}}
	}

	// "Settlement 12" for streetless settlements, or "Settlement Street 12" split at each word
	out := []candidate{{settlement: text}}
	words := strings.Fields(text)
	for k := 1; k < len(words) && k <= 5; k++ {
		out = append(out, candidate{
			settlement: strings.Join(words[:k], " "),
			street:     strings.Join(words[k:], " "),
		})
	}
	return out
}

func splitSegments(text string) []string {
	var out []string
	for _, p := range strings.Split(text, ",") {
		if p = clean(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// stripStreetType drops a leading street type word so "ulica Długa" and "ul. Długa" compare equal.
func stripStreetType(s string) string {
	s = clean(s)
	if loc := streetMarkerRe.FindStringSubmatchIndex(s + " "); loc != nil && loc[2] == 0 {
		return clean(s[loc[3]:])
	}
	return s
}
