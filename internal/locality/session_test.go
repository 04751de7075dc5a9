package locality

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/address-offers/app/models"
	"github.com/address-offers/internal/dataset"
	"github.com/address-offers/internal/store"
	"github.com/address-offers/internal/store/memstore"
)

// gatedReader blocks street and number lookups until released
type gatedReader struct {
	*memstore.Store
	entered chan struct{}
	release chan struct{}
}

func newGatedReader() *gatedReader {
	return &gatedReader{
		Store:   memstore.New(dataset.Sample()),
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (g *gatedReader) FindStreets(ctx context.Context, q store.StreetQuery) ([]models.Street, error) {
	g.entered <- struct{}{}
	<-g.release
	return g.Store.FindStreets(ctx, q)
}

func (g *gatedReader) FindBuildingNumbers(ctx context.Context, q store.BuildingQuery) ([]models.BuildingNumber, error) {
	g.entered <- struct{}{}
	<-g.release
	return g.Store.FindBuildingNumbers(ctx, q)
}

type lookupResult struct {
	applied bool
	err     error
}

func TestSession_CompletesAddress(t *testing.T) {
	s := NewSession(newTestIndex(t, nil))
	ctx := context.Background()

	settlements, err := s.SearchSettlements(ctx, "warsz")
	require.NoError(t, err)
	state, applied, err := s.SelectSettlement(ctx, settlements[0])
	require.NoError(t, err)
	require.True(t, applied)
	assert.Equal(t, StageStreet, state.Stage)

	hits, applied, err := s.SearchStreets(ctx, "marsz")
	require.NoError(t, err)
	require.True(t, applied)
	_, err = s.SelectStreet(hits[0].StreetID, hits[0].Name)
	require.NoError(t, err)

	nums, applied, err := s.SearchNumbers(ctx, "1")
	require.NoError(t, err)
	require.True(t, applied)
	state, err = s.SelectNumber(nums[0].Number)
	require.NoError(t, err)

	key, ok := state.AddressKey()
	require.True(t, ok)
	assert.Equal(t, "0918123/10001/1", key.String())
}

func TestSession_StreetlessSettlement(t *testing.T) {
	s := NewSession(newTestIndex(t, nil))
	ctx := context.Background()

	state, applied, err := s.SelectSettlement(ctx, models.Settlement{Code: "0045678", Name: "Nowa Wieś"})
	require.NoError(t, err)
	require.True(t, applied)
	assert.True(t, state.Streetless)

	nums, applied, err := s.SearchNumbers(ctx, "")
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Len(t, nums, 3)
}

func TestSession_StaleStreetResultsDiscarded(t *testing.T) {
	reader := newGatedReader()
	s := NewSession(newTestIndex(t, reader))
	ctx := context.Background()

	_, _, err := s.SelectSettlement(ctx, models.Settlement{Code: "0918123", Name: "Warszawa"})
	require.NoError(t, err)

	done := make(chan lookupResult, 1)
	go func() {
		_, applied, err := s.SearchStreets(ctx, "marsz")
		done <- lookupResult{applied, err}
	}()

	<-reader.entered
	_, applied, err := s.SelectSettlement(ctx, models.Settlement{Code: "0950463", Name: "Kraków"})
	require.NoError(t, err)
	require.True(t, applied)
	close(reader.release)

	res := <-done
	require.NoError(t, res.err)
	assert.False(t, res.applied)
	assert.Equal(t, "0950463", s.State().SettlementCode)
}

func TestSession_OvertakenStreetSearchDiscarded(t *testing.T) {
	reader := newGatedReader()
	s := NewSession(newTestIndex(t, reader))
	ctx := context.Background()

	_, _, err := s.SelectSettlement(ctx, models.Settlement{Code: "0918123", Name: "Warszawa"})
	require.NoError(t, err)

	first := make(chan lookupResult, 1)
	go func() {
		_, applied, err := s.SearchStreets(ctx, "marsz")
		first <- lookupResult{applied, err}
	}()
	<-reader.entered

	second := make(chan lookupResult, 1)
	go func() {
		_, applied, err := s.SearchStreets(ctx, "jerozol")
		second <- lookupResult{applied, err}
	}()
	<-reader.entered
	close(reader.release)

	res := <-first
	require.NoError(t, res.err)
	assert.False(t, res.applied)

	res = <-second
	require.NoError(t, res.err)
	assert.True(t, res.applied)
}

func TestSession_OvertakenNumberSearchDiscarded(t *testing.T) {
	reader := newGatedReader()
	s := NewSession(newTestIndex(t, reader))
	ctx := context.Background()

	_, _, err := s.SelectSettlement(ctx, models.Settlement{Code: "0918123", Name: "Warszawa"})
	require.NoError(t, err)
	_, err = s.SelectStreet("10001", "Ulica Marszałkowska")
	require.NoError(t, err)

	first := make(chan lookupResult, 1)
	go func() {
		_, applied, err := s.SearchNumbers(ctx, "1")
		first <- lookupResult{applied, err}
	}()
	<-reader.entered

	second := make(chan lookupResult, 1)
	go func() {
		_, applied, err := s.SearchNumbers(ctx, "12")
		second <- lookupResult{applied, err}
	}()
	<-reader.entered
	close(reader.release)

	assert.False(t, (<-first).applied)
	assert.True(t, (<-second).applied)
}

func TestSession_StaleNumberResultsDiscarded(t *testing.T) {
	reader := newGatedReader()
	s := NewSession(newTestIndex(t, reader))
	ctx := context.Background()

	_, _, err := s.SelectSettlement(ctx, models.Settlement{Code: "0918123", Name: "Warszawa"})
	require.NoError(t, err)
	_, err = s.SelectStreet("10001", "Ulica Marszałkowska")
	require.NoError(t, err)

	done := make(chan lookupResult, 1)
	go func() {
		_, applied, err := s.SearchNumbers(ctx, "1")
		done <- lookupResult{applied, err}
	}()

	<-reader.entered
	_, err = s.SelectStreet("10002", "Aleja Jerozolimskie")
	require.NoError(t, err)
	close(reader.release)

	res := <-done
	require.NoError(t, res.err)
	assert.False(t, res.applied)
}

func TestSession_LookupsRequireSelection(t *testing.T) {
	s := NewSession(newTestIndex(t, nil))
	ctx := context.Background()

	_, _, err := s.SearchStreets(ctx, "marsz")
	assert.ErrorIs(t, err, ErrSettlementRequired)

	_, _, err = s.SelectSettlement(ctx, models.Settlement{Code: "0918123", Name: "Warszawa"})
	require.NoError(t, err)
	_, _, err = s.SearchNumbers(ctx, "1")
	assert.ErrorIs(t, err, ErrStreetRequired)

	s.Reset()
	assert.Equal(t, StageSettlement, s.State().Stage)
}
