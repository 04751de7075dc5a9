// Package parser resolves free-text Polish addresses ("ul. Długa 5, 00-238 Warszawa")
// to registry address keys through the locality index.
package parser

import (
	"context"
	"strings"

	"github.com/xrash/smetrics"
	"go.uber.org/zap"

	"github.com/address-offers/app/models"
	"github.com/address-offers/internal/locality"
	"github.com/address-offers/internal/normalizer"
)

// Match statuses
const (
	StatusMatched   = "matched"   // full address key
	StatusPartial   = "partial"   // settlement (and maybe street) only
	StatusUnmatched = "unmatched" // nothing recognized
)

// Result is the best reading of a free-text address
type Result struct {
	Raw        string              `json:"raw"`
	Components Components          `json:"components"`
	Status     string              `json:"status"`
	Confidence float64             `json:"confidence"`
	Settlement *models.Settlement  `json:"settlement,omitempty"`
	Street     *locality.StreetHit `json:"street,omitempty"`
	Number     string              `json:"number,omitempty"`
	Key        *models.AddressKey  `json:"address_key,omitempty"`
}

// ConfidenceParts are the inputs of CalculateConfidence
type ConfidenceParts struct {
	Score, Completeness, PathConsistency float64
}

// CalculateConfidence weighs name similarity, how many levels resolved and whether
// the number was found under the chosen street.
func CalculateConfidence(parts ConfidenceParts) float64 {
	return 0.60*parts.Score + 0.25*parts.Completeness + 0.15*parts.PathConsistency
}

// AddressParser resolves free text against the locality index
type AddressParser struct {
	index  *locality.Index
	logger *zap.Logger
}

// NewAddressParser creates an AddressParser
func NewAddressParser(index *locality.Index, logger *zap.Logger) *AddressParser {
	return &AddressParser{index: index, logger: logger}
}

// ParseAddress tries every settlement/street reading of raw and keeps the most confident.
// Only data-store failures are returned as errors.
func (ap *AddressParser) ParseAddress(ctx context.Context, raw string) (*Result, error) {
	comps := Extract(raw)
	best := &Result{Raw: raw, Components: comps, Status: StatusUnmatched}

	for _, cand := range candidates(comps) {
		res, err := ap.resolve(ctx, cand, comps.Number)
		if err != nil {
			return nil, err
		}
		if res != nil && res.Confidence > best.Confidence {
			res.Raw, res.Components = raw, comps
			best = res
		}
	}

	ap.logger.Debug("Parsed address",
		zap.String("raw", raw),
		zap.String("status", best.Status),
		zap.Float64("confidence", best.Confidence))
	return best, nil
}

// ParseAddresses parses each address independently.
func (ap *AddressParser) ParseAddresses(ctx context.Context, raws []string) ([]*Result, error) {
	out := make([]*Result, 0, len(raws))
	for _, raw := range raws {
		res, err := ap.ParseAddress(ctx, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

func similarity(a, b string) float64 {
	a, b = normalizer.Normalize(a), normalizer.Normalize(b)
	if a == b {
		return 1
	}
	return smetrics.JaroWinkler(a, b, 0.7, 4)
}

func (ap *AddressParser) resolve(ctx context.Context, cand candidate, number string) (*Result, error) {
	if cand.settlement == "" {
		return nil, nil
	}
	settlements, err := ap.index.SearchSettlements(ctx, cand.settlement)
	if err != nil || len(settlements) == 0 {
		return nil, err
	}

	settlement, settlementScore := settlements[0], -1.0
	for _, st := range settlements {
		if s := similarity(st.Name, cand.settlement); s > settlementScore {
			settlement, settlementScore = st, s
		}
	}

	res := &Result{Status: StatusPartial, Settlement: &settlement}
	levels, streetScore, consistent := 1.0, 1.0, 0.0

	hasStreets, err := ap.index.HasStreets(ctx, settlement.Code)
	if err != nil {
		return nil, err
	}

	streetID := models.NoStreetID
	if hasStreets {
		hit, score, err := ap.bestStreet(ctx, settlement.Code, cand.street)
		if err != nil {
			return nil, err
		}
		if hit == nil {
			// a number without its street cannot be placed
			res.Confidence = CalculateConfidence(ConfidenceParts{Score: settlementScore * 0.5, Completeness: levels / 3})
			return res, nil
		}
		res.Street, streetID, streetScore = hit, hit.StreetID, score
		levels++
	} else {
		levels++
		if cand.street != "" {
			// leftover text the streetless settlement cannot explain
			streetScore = 0.5
		}
	}

	if number != "" {
		found, err := ap.findNumber(ctx, settlement.Code, streetID, number)
		if err != nil {
			return nil, err
		}
		if found != "" {
			res.Number = found
			key := models.NewAddressKey(settlement.Code, streetID, found)
			res.Key = &key
			res.Status = StatusMatched
			levels++
			consistent = 1
		}
	}

	res.Confidence = CalculateConfidence(ConfidenceParts{
		Score:           (settlementScore + streetScore) / 2,
		Completeness:    levels / 3,
		PathConsistency: consistent,
	})
	return res, nil
}

func (ap *AddressParser) bestStreet(ctx context.Context, settlementCode, text string) (*locality.StreetHit, float64, error) {
	query := stripStreetType(text)
	if query == "" {
		return nil, 0, nil
	}
	hits, err := ap.index.SearchStreets(ctx, settlementCode, query)
	if err != nil || len(hits) == 0 {
		return nil, 0, err
	}

	best, bestScore := hits[0], -1.0
	for _, h := range hits {
		if s := similarity(stripStreetType(h.Name), query); s > bestScore {
			best, bestScore = h, s
		}
	}
	return &best, bestScore, nil
}

// findNumber returns the registry spelling of number, retrying without a flat suffix ("12/4" -> "12").
func (ap *AddressParser) findNumber(ctx context.Context, settlementCode, streetID, number string) (string, error) {
	tries := []string{number}
	if i := strings.IndexAny(number, "/-"); i > 0 {
		tries = append(tries, number[:i])
	}
	for _, n := range tries {
		rows, err := ap.index.SearchBuildingNumbers(ctx, settlementCode, streetID, n)
		if err != nil {
			return "", err
		}
		for _, b := range rows {
			if strings.EqualFold(b.Number, n) {
				return b.Number, nil
			}
		}
	}
	return "", nil
}
