package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/address-offers/internal/dataset"
)

const seedBatchSize = 1000

// SeedResult counts upserted documents per collection
type SeedResult map[string]int64

// EnsureIndexes creates the lookup indexes of every collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		CollSettlements: {
			{Keys: bson.D{{Key: "settlement_code", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "weight", Value: -1}, {Key: "name", Value: 1}}},
		},
		CollStreets: {
			{Keys: bson.D{{Key: "settlement_code", Value: 1}, {Key: "street_id", Value: 1}, {Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CollBuildings: {
			{Keys: bson.D{{Key: "settlement_code", Value: 1}, {Key: "street_id", Value: 1}, {Key: "number", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "settlement_code", Value: 1}, {Key: "street_id", Value: 1}, {Key: "number_sort", Value: 1}}},
		},
		CollCoverage: {
			{Keys: bson.D{{Key: "operator_id", Value: 1}, {Key: "settlement_code", Value: 1}, {Key: "street_id", Value: 1}, {Key: "number", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "settlement_code", Value: 1}, {Key: "street_id", Value: 1}, {Key: "number", Value: 1}}},
		},
		CollOffers: {
			{Keys: bson.D{{Key: "offer_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "active", Value: 1}}},
		},
		CollOperators: {
			{Keys: bson.D{{Key: "operator_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CollAntennas: {
			{Keys: bson.D{{Key: "settlement_code", Value: 1}, {Key: "street_id", Value: 1}, {Key: "number", Value: 1}}},
		},
	}

	for _, name := range []string{CollSettlements, CollStreets, CollBuildings, CollCoverage, CollOffers, CollOperators, CollAntennas} {
		if _, err := s.coll(name).Indexes().CreateMany(ctx, specs[name]); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", name, err)
		}
	}
	return nil
}

// Seed upserts every record of ds. Duplicate coverage rows for the same operator and
// address are reconciled before writing, so reseeding updates in place.
func (s *Store) Seed(ctx context.Context, ds *dataset.Dataset) (SeedResult, error) {
	result := SeedResult{}

	coverage := ds.ReconcileCoverage()
	writes := []seedWrite{
		{CollSettlements, upserts(ds.Settlements, func(i int) bson.M {
			return bson.M{"settlement_code": ds.Settlements[i].Code}
		})},
		{CollStreets, upserts(ds.Streets, func(i int) bson.M {
			st := ds.Streets[i]
			return bson.M{"settlement_code": st.SettlementCode, "street_id": st.StreetID, "name": st.Name}
		})},
		{CollBuildings, upserts(ds.Buildings, func(i int) bson.M {
			return keyFilter(ds.Buildings[i].Key())
		})},
		{CollOperators, upserts(ds.Operators, func(i int) bson.M {
			return bson.M{"operator_id": ds.Operators[i].ID}
		})},
		{CollOffers, upserts(ds.Offers, func(i int) bson.M {
			return bson.M{"offer_id": ds.Offers[i].ID}
		})},
		{CollCoverage, upserts(coverage, func(i int) bson.M {
			f := keyFilter(coverage[i].Key())
			f["operator_id"] = coverage[i].OperatorID
			return f
		})},
		{CollAntennas, upserts(ds.Antennas, func(i int) bson.M {
			a := ds.Antennas[i]
			return bson.M{"operator_id": a.OperatorID, "settlement_code": a.SettlementCode, "street_id": a.StreetID, "number": a.Number}
		})},
	}

	for _, w := range writes {
		n, err := s.bulkWrite(ctx, w.coll, w.models)
		if err != nil {
			return result, err
		}
		result[w.coll] = n
		s.logger.Info("Seeded collection", zap.String("collection", w.coll), zap.Int64("upserted", n))
	}
	return result, nil
}

type seedWrite struct {
	coll   string
	models []mongo.WriteModel
}

func upserts[T any](docs []T, filter func(i int) bson.M) []mongo.WriteModel {
	out := make([]mongo.WriteModel, 0, len(docs))
	for i := range docs {
		out = append(out, mongo.NewReplaceOneModel().
			SetFilter(filter(i)).
			SetReplacement(docs[i]).
			SetUpsert(true))
	}
	return out
}

func (s *Store) bulkWrite(ctx context.Context, coll string, ops []mongo.WriteModel) (int64, error) {
	var total int64
	opts := options.BulkWrite().SetOrdered(false)
	for start := 0; start < len(ops); start += seedBatchSize {
		end := start + seedBatchSize
		if end > len(ops) {
			end = len(ops)
		}
		res, err := s.coll(coll).BulkWrite(ctx, ops[start:end], opts)
		if err != nil {
			return total, fmt.Errorf("failed to write %s batch %d-%d: %w", coll, start, end, err)
		}
		total += res.UpsertedCount + res.ModifiedCount
	}
	return total, nil
}
