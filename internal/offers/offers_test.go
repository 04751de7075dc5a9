package offers

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/address-offers/app/models"
	"github.com/address-offers/internal/coverage"
	"github.com/address-offers/internal/dataset"
	"github.com/address-offers/internal/store/memstore"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func offer(id, operator string, ct models.ConnectionType, priority int) models.Offer {
	return models.Offer{ID: id, OperatorID: operator, ConnectionType: ct, Priority: priority, Active: true, CreatedAt: t0}
}

func ids(offers []models.Offer) []string {
	out := make([]string, len(offers))
	for i, o := range offers {
		out[i] = o.ID
	}
	return out
}

func TestMatch_CableGatedByCoverage(t *testing.T) {
	catalog := NewCatalog([]models.Offer{
		offer("a-cable", "A", models.ConnectionCable, 5),
		offer("b-cable", "B", models.ConnectionCable, 9),
		offer("b-mobile", "B", models.ConnectionMobile, 3),
		offer("c-mobile", "C", models.ConnectionMobile, 1),
	})
	cov := coverage.Build([]models.CoverageRecord{
		{OperatorID: "A", Capacity: 5},
		{OperatorID: "B", Capacity: 0},
	})

	res := Match(catalog, cov, "Warszawa")
	assert.True(t, res.HasCableCoverage)
	assert.ElementsMatch(t, []string{"a-cable", "b-mobile", "c-mobile"}, ids(res.Offers))
	assert.Equal(t, "a-cable", res.Offers[0].ID)
}

func TestMatch_MobileOnlyAddress(t *testing.T) {
	catalog := NewCatalog([]models.Offer{
		offer("m1", "A", models.ConnectionMobile, 1),
		offer("m2", "B", models.ConnectionMobile, 2),
		offer("m3", "C", models.ConnectionMobile, 3),
		offer("cable", "A", models.ConnectionCable, 10),
	})

	res := Match(catalog, coverage.Coverage{}, "Nowa Wieś")
	assert.False(t, res.HasCableCoverage)
	assert.Equal(t, []string{"m3", "m2", "m1"}, ids(res.Offers))
}

func TestMatch_EmptyIsNotAnError(t *testing.T) {
	catalog := NewCatalog([]models.Offer{offer("cable", "A", models.ConnectionCable, 1)})
	res := Match(catalog, nil, "Warszawa")
	assert.NotNil(t, res.Offers)
	assert.Empty(t, res.Offers)
	assert.False(t, res.HasCableCoverage)
}

func TestMatch_InterleavesOperators(t *testing.T) {
	var catalog []models.Offer
	for i, p := range []int{10, 9, 8, 7, 6} {
		catalog = append(catalog, offer(fmt.Sprintf("A%d", i+1), "A", models.ConnectionMobile, p))
	}
	catalog = append(catalog, offer("B1", "B", models.ConnectionMobile, 5))

	ranked := append([]models.Offer(nil), catalog...)
	Rank(ranked, false)
	assert.Equal(t, []string{"A1", "A2", "A3", "A4", "A5", "B1"}, ids(ranked))

	res := Match(NewCatalog(catalog), nil, "Kraków")
	assert.Equal(t, []string{"A1", "B1", "A2", "A3", "A4", "A5"}, ids(res.Offers))
}

func TestRank_Precedence(t *testing.T) {
	featured := offer("featured", "A", models.ConnectionMobile, 0)
	featured.Featured = true
	local := offer("local", "A", models.ConnectionMobile, 0)
	local.Local = true
	cable := offer("cable", "A", models.ConnectionCable, 0)
	mobileHigh := offer("mobile-high", "A", models.ConnectionMobile, 50)
	newer := offer("newer", "A", models.ConnectionCable, -1)
	newer.CreatedAt = t0.Add(time.Hour)
	older := offer("older", "A", models.ConnectionCable, -1)
	tieB := offer("tie-b", "A", models.ConnectionCable, -1)
	tieA := offer("tie-a", "A", models.ConnectionCable, -1)

	list := []models.Offer{tieB, mobileHigh, older, cable, tieA, newer, local, featured}

	withTier := append([]models.Offer(nil), list...)
	Rank(withTier, true)
	assert.Equal(t, []string{"featured", "local", "cable", "newer", "older", "tie-a", "tie-b", "mobile-high"}, ids(withTier))

	withoutTier := append([]models.Offer(nil), list...)
	Rank(withoutTier, false)
	assert.Equal(t, []string{"featured", "local", "mobile-high", "cable", "newer", "older", "tie-a", "tie-b"}, ids(withoutTier))
}

func TestEligible_LocalOffers(t *testing.T) {
	o := offer("local", "A", models.ConnectionMobile, 1)
	o.Local = true
	o.LocalSettlements = []string{"Kraków", "Wieliczka"}

	assert.True(t, Eligible(o, nil, "Kraków"))
	assert.True(t, Eligible(o, nil, "KRAKÓW"))
	assert.True(t, Eligible(o, nil, "Kraków (Nowa Huta)"))
	assert.False(t, Eligible(o, nil, "Warszawa"))

	o.LocalSettlements = nil
	assert.False(t, Eligible(o, nil, "Kraków"))
}

func TestEligible_Inactive(t *testing.T) {
	o := offer("m", "A", models.ConnectionMobile, 1)
	o.Active = false
	assert.False(t, Eligible(o, nil, "Kraków"))
}

func TestInterleave_Fairness(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		var ranked []models.Offer
		operators := 1 + rng.Intn(5)
		for i := 0; i < 1+rng.Intn(30); i++ {
			op := fmt.Sprintf("op%d", rng.Intn(operators))
			ranked = append(ranked, offer(fmt.Sprintf("o%d", i), op, models.ConnectionMobile, 0))
		}

		out := Interleave(ranked)
		require.Len(t, out, len(ranked))

		// each operator keeps its relative order
		lastIdx := make(map[string]int)
		pos := make(map[string]int)
		for i, o := range ranked {
			pos[o.ID] = i
		}
		for _, o := range out {
			if prev, ok := lastIdx[o.OperatorID]; ok {
				assert.Greater(t, pos[o.ID], prev)
			}
			lastIdx[o.OperatorID] = pos[o.ID]
		}

		// the k-th offers of any two operators sit within one round of each other
		kth := make(map[string][]int)
		for i, o := range out {
			kth[o.OperatorID] = append(kth[o.OperatorID], i)
		}
		distinct := len(kth)
		for a, pa := range kth {
			for b, pb := range kth {
				if a == b {
					continue
				}
				for k := 0; k < len(pa) && k < len(pb); k++ {
					d := pa[k] - pb[k]
					if d < 0 {
						d = -d
					}
					assert.LessOrEqual(t, d, distinct)
				}
			}
		}
	}
}

func TestEngine_SampleScenarios(t *testing.T) {
	e := NewEngine(memstore.New(dataset.Sample()), zap.NewNop())
	ctx := context.Background()

	res, err := e.Offers(ctx, coverage.Coverage{"op-a": 5}, "Warszawa")
	require.NoError(t, err)
	assert.True(t, res.HasCableCoverage)
	assert.Equal(t, []string{"a-fiber-1g", "c-lte", "b-5g", "a-fiber-300"}, ids(res.Offers))

	res, err = e.Offers(ctx, coverage.Coverage{}, "Kraków (Nowa Huta)")
	require.NoError(t, err)
	assert.False(t, res.HasCableCoverage)
	assert.Equal(t, []string{"c-krakow", "b-5g", "c-lte"}, ids(res.Offers))
}
