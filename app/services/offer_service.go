package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/address-offers/app/models"
	"github.com/address-offers/internal/coverage"
	"github.com/address-offers/internal/offers"
	"github.com/address-offers/internal/signal"
	"github.com/address-offers/internal/store"
)

// AddressOffers is everything known about what can be sold at one address
type AddressOffers struct {
	Address          models.AddressKey     `json:"address"`
	Settlement       *models.Settlement    `json:"settlement,omitempty"`
	Coverage         coverage.Coverage     `json:"coverage"`
	Offers           []models.Offer        `json:"offers"`
	HasCableCoverage bool                  `json:"has_cable_coverage"`
	SignalBands      []signal.OperatorBand `json:"signal_bands,omitempty"`
}

// OfferService composes coverage resolution, offer matching and signal banding
type OfferService struct {
	reader   store.Reader
	resolver *coverage.Resolver
	engine   *offers.Engine
	timeout  time.Duration
	logger   *zap.Logger
}

// NewOfferService creates the service. timeout bounds a whole resolution; zero disables it.
func NewOfferService(reader store.Reader, timeout time.Duration, logger *zap.Logger) *OfferService {
	return &OfferService{
		reader:   reader,
		resolver: coverage.NewResolver(reader, logger),
		engine:   offers.NewEngine(reader, logger),
		timeout:  timeout,
		logger:   logger,
	}
}

// ResolveOffers resolves the address key to its ordered eligible offers. An address
// missing from the registry falls back to mobile-only offers; an incomplete key yields
// an empty result without touching the store. Only store failures are returned.
func (svc *OfferService) ResolveOffers(ctx context.Context, settlementCode, streetID, number string) (*AddressOffers, error) {
	key := models.NewAddressKey(settlementCode, streetID, number)
	result := &AddressOffers{
		Address:  key,
		Coverage: coverage.Coverage{},
		Offers:   []models.Offer{},
	}
	if !key.IsComplete() {
		return result, nil
	}

	if svc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, svc.timeout)
		defer cancel()
	}

	settlement, found, err := svc.reader.GetSettlement(ctx, key.SettlementCode)
	if err != nil {
		return nil, err
	}
	settlementName := ""
	if found {
		result.Settlement = settlement
		settlementName = settlement.Name
	}

	cov, err := svc.resolver.Resolve(ctx, key)
	if err != nil {
		return nil, err
	}
	matched, err := svc.engine.Offers(ctx, cov, settlementName)
	if err != nil {
		return nil, err
	}
	result.Coverage = cov
	result.Offers = matched.Offers
	result.HasCableCoverage = matched.HasCableCoverage

	if !matched.HasCableCoverage {
		distances, err := svc.reader.FindAntennaDistances(ctx, key)
		if err != nil {
			// signal bands are annotation only
			svc.logger.Warn("Failed to load antenna distances", zap.Error(err), zap.String("address", key.String()))
		} else if len(distances) > 0 {
			result.SignalBands = signal.ClassifyAll(distances)
		}
	}

	svc.logger.Info("Resolved offers",
		zap.String("address", key.String()),
		zap.Bool("registry_match", found),
		zap.Int("covering_operators", cov.Operators()),
		zap.Int("offers", len(result.Offers)),
		zap.Bool("has_cable_coverage", result.HasCableCoverage))
	return result, nil
}
