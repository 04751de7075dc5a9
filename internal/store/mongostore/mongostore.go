// Package mongostore serves the store.Reader surface from MongoDB and seeds it from
// dataset snapshots.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/address-offers/app/models"
	"github.com/address-offers/internal/store"
)

// Collection names
const (
	CollSettlements = "settlements"
	CollStreets     = "streets"
	CollBuildings   = "buildings"
	CollCoverage    = "coverage"
	CollOffers      = "offers"
	CollOperators   = "operators"
	CollAntennas    = "antennas"
)

const defaultQueryTimeout = 3 * time.Second

// Store reads registry, coverage and offer collections from one database
type Store struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
	logger  *zap.Logger
}

// Connect dials uri, verifies the connection and returns a store over database.
func Connect(ctx context.Context, uri, database string, timeout time.Duration, logger *zap.Logger) (*Store, error) {
	logger.Info("Connecting to MongoDB", zap.String("database", database))

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Info("Successfully connected to MongoDB")
	s := New(client.Database(database), timeout, logger)
	s.client = client
	return s, nil
}

// New wraps an already connected database.
func New(db *mongo.Database, timeout time.Duration, logger *zap.Logger) *Store {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return &Store{db: db, timeout: timeout, logger: logger}
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Store) coll(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func containsFilter(q string) interface{} {
	return primitive.Regex{Pattern: regexp.QuoteMeta(q)}
}

func keyFilter(key models.AddressKey) bson.M {
	return bson.M{
		"settlement_code": key.SettlementCode,
		"street_id":       key.StreetID,
		"number":          key.Number,
	}
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts *options.FindOptions) ([]T, error) {
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindSettlements implements store.LocalityReader
func (s *Store) FindSettlements(ctx context.Context, q store.SettlementQuery) ([]models.Settlement, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	filter := bson.M{}
	if q.Contains != "" {
		filter["normalized_name"] = containsFilter(q.Contains)
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "weight", Value: -1},
		{Key: "name", Value: 1},
		{Key: "settlement_code", Value: 1},
	})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	out, err := findAll[models.Settlement](ctx, s.coll(CollSettlements), filter, opts)
	if err != nil {
		return nil, store.Unavailable("find settlements", err)
	}
	return out, nil
}

// GetSettlement implements store.LocalityReader
func (s *Store) GetSettlement(ctx context.Context, code string) (*models.Settlement, bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var st models.Settlement
	err := s.coll(CollSettlements).FindOne(ctx, bson.M{"settlement_code": code}).Decode(&st)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, store.Unavailable("get settlement", err)
	}
	return &st, true, nil
}

// FindStreets implements store.LocalityReader. Rows come back in natural order.
func (s *Store) FindStreets(ctx context.Context, q store.StreetQuery) ([]models.Street, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	filter := bson.M{"settlement_code": q.SettlementCode}
	if q.Contains != "" {
		filter["normalized_name"] = containsFilter(q.Contains)
	}
	opts := options.Find().SetSort(bson.D{{Key: "$natural", Value: 1}})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	out, err := findAll[models.Street](ctx, s.coll(CollStreets), filter, opts)
	if err != nil {
		return nil, store.Unavailable("find streets", err)
	}
	return out, nil
}

// HasNamedStreets implements store.LocalityReader
func (s *Store) HasNamedStreets(ctx context.Context, settlementCode string) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	filter := bson.M{
		"settlement_code": settlementCode,
		"street_id":       bson.M{"$ne": models.NoStreetID},
		"name": bson.M{
			"$exists": true,
			"$not":    primitive.Regex{Pattern: models.PlaceholderNamePattern},
		},
	}
	opts := options.FindOne().SetProjection(bson.M{"street_id": 1})
	err := s.coll(CollStreets).FindOne(ctx, filter, opts).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, store.Unavailable("has named streets", err)
	}
	return true, nil
}

// FindBuildingNumbers implements store.LocalityReader
func (s *Store) FindBuildingNumbers(ctx context.Context, q store.BuildingQuery) ([]models.BuildingNumber, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	filter := bson.M{
		"settlement_code": q.SettlementCode,
		"street_id":       q.StreetID,
	}
	if q.Prefix != "" {
		filter["number"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(q.Prefix), Options: "i"}
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "number_sort", Value: 1},
		{Key: "number", Value: 1},
	})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	out, err := findAll[models.BuildingNumber](ctx, s.coll(CollBuildings), filter, opts)
	if err != nil {
		return nil, store.Unavailable("find building numbers", err)
	}
	return out, nil
}

// HasBuilding implements store.LocalityReader
func (s *Store) HasBuilding(ctx context.Context, key models.AddressKey) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	opts := options.FindOne().SetProjection(bson.M{"number": 1})
	err := s.coll(CollBuildings).FindOne(ctx, keyFilter(key), opts).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, store.Unavailable("has building", err)
	}
	return true, nil
}

// FindCoverage implements store.CoverageReader
func (s *Store) FindCoverage(ctx context.Context, key models.AddressKey) ([]models.CoverageRecord, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	out, err := findAll[models.CoverageRecord](ctx, s.coll(CollCoverage), keyFilter(key), options.Find())
	if err != nil {
		return nil, store.Unavailable("find coverage", err)
	}
	return out, nil
}

// FindActiveOffers implements store.OfferReader
func (s *Store) FindActiveOffers(ctx context.Context) ([]models.Offer, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	operators, err := findAll[models.Operator](ctx, s.coll(CollOperators), bson.M{"active": true}, options.Find())
	if err != nil {
		return nil, store.Unavailable("find operators", err)
	}
	byID := make(map[string]models.Operator, len(operators))
	for _, op := range operators {
		byID[op.ID] = op
	}

	offers, err := findAll[models.Offer](ctx, s.coll(CollOffers), bson.M{"active": true}, options.Find())
	if err != nil {
		return nil, store.Unavailable("find active offers", err)
	}

	out := offers[:0]
	for _, o := range offers {
		op, ok := byID[o.OperatorID]
		if !ok {
			continue
		}
		o.Operator = op
		out = append(out, o)
	}
	return out, nil
}

// FindAntennaDistances implements store.SignalReader
func (s *Store) FindAntennaDistances(ctx context.Context, key models.AddressKey) ([]models.AntennaDistance, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "distance_meters", Value: 1}})
	out, err := findAll[models.AntennaDistance](ctx, s.coll(CollAntennas), keyFilter(key), opts)
	if err != nil {
		return nil, store.Unavailable("find antenna distances", err)
	}
	return out, nil
}

// Ping checks that the database answers
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return store.Unavailable("ping", err)
	}
	return nil
}

// Close disconnects the client when the store owns it
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

var _ store.Reader = (*Store)(nil)
