package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/address-offers/app/models"
	"github.com/address-offers/internal/dataset"
	"github.com/address-offers/internal/locality"
	"github.com/address-offers/internal/normalizer"
	"github.com/address-offers/internal/parser"
	"github.com/address-offers/internal/store"
	"github.com/address-offers/internal/store/memstore"
)

type stubSuggester struct {
	out []models.Settlement
	err error
}

func (s stubSuggester) Suggest(query string, limit int) ([]models.Settlement, error) {
	return s.out, s.err
}

type stubHealth bool

func (h stubHealth) Healthy() bool { return bool(h) }

func newLocalityService(t *testing.T, cache ICacheService, suggester SettlementSuggester) *LocalityService {
	t.Helper()
	rules, err := normalizer.DefaultStreetRules()
	require.NoError(t, err)
	st := memstore.New(dataset.Sample())
	ix := locality.NewIndex(st, normalizer.NewStreetNamer(rules), locality.DefaultConfig(), zap.NewNop())
	return NewLocalityService(ix, st, cache, suggester, zap.NewNop())
}

func offerIDs(offers []models.Offer) []string {
	out := make([]string, len(offers))
	for i, o := range offers {
		out[i] = o.ID
	}
	return out
}

func TestLocalityService_CachesStreetSearch(t *testing.T) {
	ctx := context.Background()
	cache, err := NewLRUCacheService(100, time.Minute, zap.NewNop())
	require.NoError(t, err)
	ls := newLocalityService(t, cache, nil)

	first, err := ls.SearchStreets(ctx, "0918123", "al")
	require.NoError(t, err)
	second, err := ls.SearchStreets(ctx, "0918123", "AL")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	stats, err := cache.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalHits)
	assert.Equal(t, int64(1), stats.TotalItems)
}

func TestLocalityService_WithoutCache(t *testing.T) {
	ctx := context.Background()
	ls := newLocalityService(t, nil, nil)

	has, err := ls.HasStreets(ctx, "0045678")
	require.NoError(t, err)
	assert.False(t, has)

	nums, err := ls.SearchBuildingNumbers(ctx, "0045678", "", "")
	require.NoError(t, err)
	require.Len(t, nums, 3)
	assert.Equal(t, "1", nums[0].Number)

	st, found, err := ls.GetSettlement(ctx, "0950463")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Kraków", st.Name)
}

func TestLocalityService_SuggestFallsBackToSubstringSearch(t *testing.T) {
	ctx := context.Background()

	for name, sugg := range map[string]SettlementSuggester{
		"no suggester":      nil,
		"failing suggester": stubSuggester{err: errors.New("meili down")},
	} {
		t.Run(name, func(t *testing.T) {
			ls := newLocalityService(t, nil, sugg)
			got, err := ls.SuggestSettlements(ctx, "Warsz")
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "Warszawa", got[0].Name)
		})
	}
}

func TestLocalityService_SuggestUsesSuggester(t *testing.T) {
	want := []models.Settlement{{Code: "0918123", Name: "Warszawa"}}
	ls := newLocalityService(t, nil, stubSuggester{out: want})

	got, err := ls.SuggestSettlements(context.Background(), "Warzsawa")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestOfferService_CableCoveredAddress(t *testing.T) {
	svc := NewOfferService(memstore.New(dataset.Sample()), time.Second, zap.NewNop())

	res, err := svc.ResolveOffers(context.Background(), "0918123", "10001", "1")
	require.NoError(t, err)
	require.NotNil(t, res.Settlement)
	assert.Equal(t, "Warszawa", res.Settlement.Name)
	assert.True(t, res.HasCableCoverage)
	assert.Equal(t, []string{"a-fiber-1g", "c-lte", "b-5g", "a-fiber-300"}, offerIDs(res.Offers))
	assert.True(t, res.Coverage.Has("op-a"))
	assert.False(t, res.Coverage.Has("op-b"), "zero-capacity record is inert")
	assert.Empty(t, res.SignalBands)
}

func TestOfferService_MobileOnlyAddressGetsSignalBands(t *testing.T) {
	svc := NewOfferService(memstore.New(dataset.Sample()), time.Second, zap.NewNop())

	res, err := svc.ResolveOffers(context.Background(), "0918123", "10001", "2")
	require.NoError(t, err)
	assert.False(t, res.HasCableCoverage)
	assert.Equal(t, []string{"c-lte", "b-5g"}, offerIDs(res.Offers))

	require.Len(t, res.SignalBands, 2)
	assert.Equal(t, "op-b", res.SignalBands[0].OperatorID)
	assert.Equal(t, 5, res.SignalBands[0].Band.Level)
	assert.Equal(t, "op-c", res.SignalBands[1].OperatorID)
	assert.Equal(t, 3, res.SignalBands[1].Band.Level)
}

func TestOfferService_CoverageOfUnregisteredAddressIsInert(t *testing.T) {
	ds := dataset.Sample()
	ds.Coverage = append(ds.Coverage, models.CoverageRecord{
		OperatorID: "op-a", SettlementCode: "0918123", StreetID: "10001", Number: "999",
		Capacity: 5, Provenance: models.ProvenanceImported,
	})
	svc := NewOfferService(memstore.New(ds), time.Second, zap.NewNop())

	res, err := svc.ResolveOffers(context.Background(), "0918123", "10001", "999")
	require.NoError(t, err)
	assert.False(t, res.HasCableCoverage)
	assert.Empty(t, res.Coverage)
	assert.Equal(t, []string{"c-lte", "b-5g"}, offerIDs(res.Offers))
}

func TestOfferService_UnknownSettlementFallsBackToMobile(t *testing.T) {
	svc := NewOfferService(memstore.New(dataset.Sample()), 0, zap.NewNop())

	res, err := svc.ResolveOffers(context.Background(), "9999999", "", "1")
	require.NoError(t, err)
	assert.Nil(t, res.Settlement)
	assert.Equal(t, models.NoStreetID, res.Address.StreetID)
	assert.Equal(t, []string{"c-lte", "b-5g"}, offerIDs(res.Offers))
}

func TestOfferService_IncompleteAddressIsEmpty(t *testing.T) {
	svc := NewOfferService(memstore.New(dataset.Sample()), time.Second, zap.NewNop())

	res, err := svc.ResolveOffers(context.Background(), "0918123", "10001", " ")
	require.NoError(t, err)
	assert.NotNil(t, res.Offers)
	assert.Empty(t, res.Offers)
	assert.False(t, res.HasCableCoverage)
}

func TestOfferService_StoreUnavailable(t *testing.T) {
	svc := NewOfferService(memstore.New(dataset.Sample()), time.Second, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.ResolveOffers(ctx, "0918123", "10001", "1")
	require.Error(t, err)
	assert.True(t, store.IsUnavailable(err))
}

func TestAdminService(t *testing.T) {
	ctx := context.Background()
	cache, err := NewLRUCacheService(10, time.Minute, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, "k", []byte("v")))

	as := NewAdminService(memstore.New(dataset.Sample()), cache, stubHealth(false), zap.NewNop())

	report := as.Readiness(ctx)
	assert.True(t, report.Ready)
	assert.Equal(t, "ok", report.Checks["store"])
	assert.Equal(t, "degraded", report.Checks["search"])

	stats, err := as.CacheStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalItems)

	require.NoError(t, as.ClearCache(ctx))
	stats, err = as.CacheStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalItems)

	sys := as.SystemStats(ctx)
	assert.Positive(t, sys.Goroutines)
	assert.NotNil(t, sys.Cache)
}

func TestAdminService_NotReadyWhenStoreDown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	as := NewAdminService(memstore.New(dataset.Sample()), nil, nil, zap.NewNop())

	report := as.Readiness(ctx)
	assert.False(t, report.Ready)
	assert.Equal(t, "unavailable", report.Checks["store"])
	_, ok := report.Checks["search"]
	assert.False(t, ok)

	stats, err := as.CacheStats(ctx)
	assert.NoError(t, err)
	assert.Nil(t, stats)
}

func TestAddressService(t *testing.T) {
	ctx := context.Background()
	rules, err := normalizer.DefaultStreetRules()
	require.NoError(t, err)
	st := memstore.New(dataset.Sample())
	ix := locality.NewIndex(st, normalizer.NewStreetNamer(rules), locality.DefaultConfig(), zap.NewNop())
	cache, err := NewLRUCacheService(10, time.Minute, zap.NewNop())
	require.NoError(t, err)
	as := NewAddressService(parser.NewAddressParser(ix, zap.NewNop()), NewOfferService(st, time.Second, zap.NewNop()), cache, zap.NewNop())

	res, err := as.OffersForText(ctx, "ul. Marszałkowska 1, 00-001 Warszawa")
	require.NoError(t, err)
	require.NotNil(t, res.Parse.Key)
	require.NotNil(t, res.Offers)
	assert.Equal(t, []string{"a-fiber-1g", "c-lte", "b-5g", "a-fiber-300"}, offerIDs(res.Offers.Offers))

	// second parse of the same text is served from cache
	_, err = as.ParseAddress(ctx, " ul. Marszałkowska 1,  00-001 Warszawa ")
	require.NoError(t, err)
	stats, _ := cache.GetStats(ctx)
	assert.Equal(t, int64(1), stats.TotalHits)

	res, err = as.OffersForText(ctx, "Gdańsk 1")
	require.NoError(t, err)
	assert.Nil(t, res.Offers)

	batch, err := as.ParseBatch(ctx, []string{"Nowa Wieś 7", "Warszawa 12"})
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, parser.StatusMatched, batch[0].Status)
	assert.Equal(t, parser.StatusPartial, batch[1].Status)
}
