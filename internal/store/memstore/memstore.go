// Package memstore serves the store.Reader surface from an in-memory dataset snapshot.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/address-offers/app/models"
	"github.com/address-offers/internal/dataset"
	"github.com/address-offers/internal/normalizer"
	"github.com/address-offers/internal/store"
)

// Store is a read-only, concurrency-safe view over a dataset.
// Replace swaps the snapshot atomically.
type Store struct {
	mu   sync.RWMutex
	snap *snapshot
}

type snapshot struct {
	ds            *dataset.Dataset
	settlements   map[string]models.Settlement
	streetsBy     map[string][]models.Street
	buildingsBy   map[string][]models.BuildingNumber
	coverageBy    map[models.AddressKey][]models.CoverageRecord
	antennasBy    map[models.AddressKey][]models.AntennaDistance
	activeCatalog []models.Offer
}

// New builds a store over ds. ds must already be prepared.
func New(ds *dataset.Dataset) *Store {
	s := &Store{}
	s.Replace(ds)
	return s
}

// Replace swaps the served snapshot.
func (s *Store) Replace(ds *dataset.Dataset) {
	snap := index(ds)
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

func (s *Store) current() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func streetKey(settlementCode, streetID string) string {
	return settlementCode + "/" + streetID
}

func index(ds *dataset.Dataset) *snapshot {
	if ds == nil {
		ds = &dataset.Dataset{}
	}
	snap := &snapshot{
		ds:          ds,
		settlements: make(map[string]models.Settlement, len(ds.Settlements)),
		streetsBy:   make(map[string][]models.Street),
		buildingsBy: make(map[string][]models.BuildingNumber),
		coverageBy:  make(map[models.AddressKey][]models.CoverageRecord),
		antennasBy:  make(map[models.AddressKey][]models.AntennaDistance),
	}
	for _, st := range ds.Settlements {
		snap.settlements[st.Code] = st
	}
	for _, st := range ds.Streets {
		snap.streetsBy[st.SettlementCode] = append(snap.streetsBy[st.SettlementCode], st)
	}
	for _, b := range ds.Buildings {
		k := streetKey(b.SettlementCode, b.StreetID)
		snap.buildingsBy[k] = append(snap.buildingsBy[k], b)
	}
	for _, c := range ds.Coverage {
		snap.coverageBy[c.Key()] = append(snap.coverageBy[c.Key()], c)
	}
	for _, a := range ds.Antennas {
		k := models.AddressKey{SettlementCode: a.SettlementCode, StreetID: a.StreetID, Number: a.Number}
		snap.antennasBy[k] = append(snap.antennasBy[k], a)
	}

	operators := ds.OperatorsByID()
	for _, o := range ds.Offers {
		op, ok := operators[o.OperatorID]
		if !o.Active || !ok || !op.Active {
			continue
		}
		o.Operator = op
		snap.activeCatalog = append(snap.activeCatalog, o)
	}
	return snap
}

func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

// FindSettlements implements store.LocalityReader
func (s *Store) FindSettlements(ctx context.Context, q store.SettlementQuery) ([]models.Settlement, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.Unavailable("find settlements", err)
	}
	snap := s.current()
	var out []models.Settlement
	for _, st := range snap.ds.Settlements {
		if normalizer.Matches(st.NormalizedName, q.Contains) {
			out = append(out, st)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Code < out[j].Code
	})
	return limit(out, q.Limit), nil
}

// GetSettlement implements store.LocalityReader
func (s *Store) GetSettlement(ctx context.Context, code string) (*models.Settlement, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, store.Unavailable("get settlement", err)
	}
	st, ok := s.current().settlements[code]
	if !ok {
		return nil, false, nil
	}
	return &st, true, nil
}

// FindStreets implements store.LocalityReader
func (s *Store) FindStreets(ctx context.Context, q store.StreetQuery) ([]models.Street, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.Unavailable("find streets", err)
	}
	var out []models.Street
	for _, st := range s.current().streetsBy[q.SettlementCode] {
		if normalizer.Matches(st.NormalizedName, q.Contains) {
			out = append(out, st)
		}
	}
	return limit(out, q.Limit), nil
}

// HasNamedStreets implements store.LocalityReader
func (s *Store) HasNamedStreets(ctx context.Context, settlementCode string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, store.Unavailable("has named streets", err)
	}
	for _, st := range s.current().streetsBy[settlementCode] {
		if !st.IsPlaceholder() {
			return true, nil
		}
	}
	return false, nil
}

// FindBuildingNumbers implements store.LocalityReader
func (s *Store) FindBuildingNumbers(ctx context.Context, q store.BuildingQuery) ([]models.BuildingNumber, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.Unavailable("find building numbers", err)
	}
	prefix := strings.ToLower(q.Prefix)
	var out []models.BuildingNumber
	for _, b := range s.current().buildingsBy[streetKey(q.SettlementCode, q.StreetID)] {
		if strings.HasPrefix(strings.ToLower(b.Number), prefix) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].NumberSort != out[j].NumberSort {
			return out[i].NumberSort < out[j].NumberSort
		}
		return out[i].Number < out[j].Number
	})
	return limit(out, q.Limit), nil
}

// HasBuilding implements store.LocalityReader
func (s *Store) HasBuilding(ctx context.Context, key models.AddressKey) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, store.Unavailable("has building", err)
	}
	for _, b := range s.current().buildingsBy[streetKey(key.SettlementCode, key.StreetID)] {
		if b.Number == key.Number {
			return true, nil
		}
	}
	return false, nil
}

// FindCoverage implements store.CoverageReader
func (s *Store) FindCoverage(ctx context.Context, key models.AddressKey) ([]models.CoverageRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.Unavailable("find coverage", err)
	}
	recs := s.current().coverageBy[key]
	return append([]models.CoverageRecord(nil), recs...), nil
}

// FindActiveOffers implements store.OfferReader
func (s *Store) FindActiveOffers(ctx context.Context) ([]models.Offer, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.Unavailable("find active offers", err)
	}
	return append([]models.Offer(nil), s.current().activeCatalog...), nil
}

// FindAntennaDistances implements store.SignalReader
func (s *Store) FindAntennaDistances(ctx context.Context, key models.AddressKey) ([]models.AntennaDistance, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.Unavailable("find antenna distances", err)
	}
	return append([]models.AntennaDistance(nil), s.current().antennasBy[key]...), nil
}

// Ping succeeds unless ctx is done
func (s *Store) Ping(ctx context.Context) error {
	return store.Unavailable("ping", ctx.Err())
}

// Close is a no-op
func (s *Store) Close(ctx context.Context) error { return nil }

var _ store.Reader = (*Store)(nil)
