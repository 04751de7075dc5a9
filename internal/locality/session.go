package locality

import (
	"context"
	"sync"

	"github.com/address-offers/app/models"
)

// Session drives one user's cascade against an Index. Lookups run without holding the
// lock; a result is applied only if the selection it was computed for is still current,
// otherwise it is discarded and reported as not applied.
type Session struct {
	index *Index

	mu    sync.Mutex
	state Cascade
	// settlementGen changes whenever the settlement is (re)selected,
	// streetGen whenever the settlement or the street is.
	settlementGen uint64
	streetGen     uint64
	// only the latest street and number searches may apply
	streetSearch uint64
	numberSearch uint64
}

// NewSession starts an empty session.
func NewSession(index *Index) *Session {
	return &Session{index: index}
}

// State returns the current cascade.
func (s *Session) State() Cascade {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SearchSettlements is not keyed by any prior selection.
func (s *Session) SearchSettlements(ctx context.Context, query string) ([]models.Settlement, error) {
	return s.index.SearchSettlements(ctx, query)
}

// SelectSettlement resolves whether the settlement has streets and moves the cascade on.
// applied is false when a newer settlement selection overtook this one.
func (s *Session) SelectSettlement(ctx context.Context, st models.Settlement) (state Cascade, applied bool, err error) {
	s.mu.Lock()
	s.settlementGen++
	s.streetGen++
	gen := s.settlementGen
	s.mu.Unlock()

	has, err := s.index.HasStreets(ctx, st.Code)
	if err != nil {
		return s.State(), false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.settlementGen {
		return s.state, false, nil
	}
	next, err := s.state.SelectSettlement(st.Code, st.Name, has)
	if err != nil {
		return s.state, false, err
	}
	s.state = next
	return s.state, true, nil
}

// SearchStreets searches within the selected settlement. Results computed for a settlement
// that has since been replaced, or overtaken by a newer street search, come back with
// applied == false and no hits.
func (s *Session) SearchStreets(ctx context.Context, query string) (hits []StreetHit, applied bool, err error) {
	s.mu.Lock()
	s.streetSearch++
	gen, search, state := s.settlementGen, s.streetSearch, s.state
	s.mu.Unlock()
	if state.Stage == StageSettlement {
		return nil, false, ErrSettlementRequired
	}
	if state.Streetless {
		return []StreetHit{}, true, nil
	}

	hits, err = s.index.SearchStreets(ctx, state.SettlementCode, query)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.settlementGen || search != s.streetSearch {
		return nil, false, nil
	}
	return hits, true, nil
}

// SelectStreet picks a street of the selected settlement.
func (s *Session) SelectStreet(streetID, name string) (Cascade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.state.SelectStreet(streetID, name)
	if err != nil {
		return s.state, err
	}
	s.streetGen++
	s.state = next
	return s.state, nil
}

// SearchNumbers searches building numbers of the selected street, or of the settlement
// itself when it is streetless. Stale results are dropped as in SearchStreets.
func (s *Session) SearchNumbers(ctx context.Context, query string) (numbers []models.BuildingNumber, applied bool, err error) {
	s.mu.Lock()
	s.numberSearch++
	gen, search, state := s.streetGen, s.numberSearch, s.state
	s.mu.Unlock()
	switch state.Stage {
	case StageSettlement:
		return nil, false, ErrSettlementRequired
	case StageStreet:
		return nil, false, ErrStreetRequired
	}

	numbers, err = s.index.SearchBuildingNumbers(ctx, state.SettlementCode, state.StreetID, query)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.streetGen || search != s.numberSearch {
		return nil, false, nil
	}
	return numbers, true, nil
}

// SelectNumber completes the address.
func (s *Session) SelectNumber(number string) (Cascade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.state.SelectNumber(number)
	if err != nil {
		return s.state, err
	}
	s.state = next
	return s.state, nil
}

// Reset clears every selection and invalidates in-flight lookups.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settlementGen++
	s.streetGen++
	s.state = s.state.Reset()
}
