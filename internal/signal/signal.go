// Package signal turns antenna distances into signal-quality bands for mobile-only addresses.
package signal

import (
	"math"
	"sort"

	"github.com/address-offers/app/models"
)

// Band is a discrete signal quality, 5 best
type Band struct {
	Level int    `json:"band"`
	Label string `json:"label"`
}

var thresholds = []struct {
	maxMeters float64
	band      Band
}{
	{500, Band{5, "excellent"}},
	{1000, Band{4, "very good"}},
	{2000, Band{3, "good"}},
	{3000, Band{2, "fair"}},
	{5000, Band{1, "weak"}},
}

var veryWeak = Band{0, "very weak"}

// Classify maps a distance in meters onto a band.
func Classify(distanceMeters float64) Band {
	for _, t := range thresholds {
		if distanceMeters <= t.maxMeters {
			return t.band
		}
	}
	return veryWeak
}

// OperatorBand is the band of one operator's nearest antenna
type OperatorBand struct {
	OperatorID     string  `json:"operator_id"`
	DistanceMeters float64 `json:"distance_meters"`
	Band
}

// ClassifyAll bands the nearest antenna of every operator. Negative and NaN distances are
// skipped. Results are ordered by band descending, then operator id.
func ClassifyAll(distances []models.AntennaDistance) []OperatorBand {
	nearest := make(map[string]float64)
	for _, d := range distances {
		if math.IsNaN(d.DistanceMeters) || d.DistanceMeters < 0 {
			continue
		}
		if cur, ok := nearest[d.OperatorID]; !ok || d.DistanceMeters < cur {
			nearest[d.OperatorID] = d.DistanceMeters
		}
	}

	out := make([]OperatorBand, 0, len(nearest))
	for id, m := range nearest {
		out = append(out, OperatorBand{OperatorID: id, DistanceMeters: m, Band: Classify(m)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level > out[j].Level
		}
		return out[i].OperatorID < out[j].OperatorID
	})
	return out
}
