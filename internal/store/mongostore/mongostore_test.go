package mongostore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"

	"github.com/address-offers/app/models"
	"github.com/address-offers/internal/dataset"
	"github.com/address-offers/internal/store"
)

func newMock(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func TestFindSettlements(t *testing.T) {
	mt := newMock(t)

	mt.Run("decodes ranked rows", func(mt *mtest.T) {
		s := New(mt.DB, time.Second, zap.NewNop())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.settlements", mtest.FirstBatch,
			bson.D{{Key: "settlement_code", Value: "0918123"}, {Key: "name", Value: "Warszawa"}, {Key: "weight", Value: 1000}},
			bson.D{{Key: "settlement_code", Value: "0569881"}, {Key: "name", Value: "Warszawka"}, {Key: "weight", Value: 5}},
		))

		got, err := s.FindSettlements(context.Background(), store.SettlementQuery{Contains: "warsz", Limit: 20})
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, "0918123", got[0].Code)
		assert.Equal(mt, 1000, got[0].Weight)
	})

	mt.Run("command error is unavailable", func(mt *mtest.T) {
		s := New(mt.DB, time.Second, zap.NewNop())
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11600,
			Message: "interrupted at shutdown",
			Name:    "InterruptedAtShutdown",
		}))

		_, err := s.FindSettlements(context.Background(), store.SettlementQuery{Contains: "warsz"})
		require.Error(mt, err)
		assert.True(mt, store.IsUnavailable(err))
	})
}

func TestGetSettlement_NotFound(t *testing.T) {
	mt := newMock(t)

	mt.Run("empty cursor", func(mt *mtest.T) {
		s := New(mt.DB, time.Second, zap.NewNop())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.settlements", mtest.FirstBatch))

		st, ok, err := s.GetSettlement(context.Background(), "missing")
		require.NoError(mt, err)
		assert.False(mt, ok)
		assert.Nil(mt, st)
	})
}

func TestHasNamedStreets(t *testing.T) {
	mt := newMock(t)

	mt.Run("named street present", func(mt *mtest.T) {
		s := New(mt.DB, time.Second, zap.NewNop())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.streets", mtest.FirstBatch,
			bson.D{{Key: "street_id", Value: "10001"}}))

		has, err := s.HasNamedStreets(context.Background(), "0918123")
		require.NoError(mt, err)
		assert.True(mt, has)

		ev := mt.GetStartedEvent()
		require.NotNil(mt, ev)
		name := ev.Command.Lookup("filter", "name").Document()
		assert.True(mt, name.Lookup("$exists").Boolean())
		pattern, _ := name.Lookup("$not").Regex()
		assert.Equal(mt, models.PlaceholderNamePattern, pattern)
	})

	mt.Run("streetless", func(mt *mtest.T) {
		s := New(mt.DB, time.Second, zap.NewNop())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.streets", mtest.FirstBatch))

		has, err := s.HasNamedStreets(context.Background(), "0045678")
		require.NoError(mt, err)
		assert.False(mt, has)
	})
}

func TestFindActiveOffers_PopulatesOperator(t *testing.T) {
	mt := newMock(t)

	mt.Run("drops offers of inactive operators", func(mt *mtest.T) {
		s := New(mt.DB, time.Second, zap.NewNop())
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "db.operators", mtest.FirstBatch,
				bson.D{{Key: "operator_id", Value: "op-a"}, {Key: "name", Value: "Netia"}, {Key: "active", Value: true}},
			),
			mtest.CreateCursorResponse(0, "db.offers", mtest.FirstBatch,
				bson.D{{Key: "offer_id", Value: "o1"}, {Key: "operator_id", Value: "op-a"}, {Key: "connection_type", Value: "cable"}, {Key: "active", Value: true}},
				bson.D{{Key: "offer_id", Value: "o2"}, {Key: "operator_id", Value: "op-x"}, {Key: "connection_type", Value: "mobile"}, {Key: "active", Value: true}},
			),
		)

		offers, err := s.FindActiveOffers(context.Background())
		require.NoError(mt, err)
		require.Len(mt, offers, 1)
		assert.Equal(mt, "o1", offers[0].ID)
		assert.Equal(mt, "Netia", offers[0].Operator.Name)
		assert.Equal(mt, models.ConnectionCable, offers[0].ConnectionType)
	})
}

func TestHasBuilding(t *testing.T) {
	mt := newMock(t)

	mt.Run("registered", func(mt *mtest.T) {
		s := New(mt.DB, time.Second, zap.NewNop())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.buildings", mtest.FirstBatch,
			bson.D{{Key: "number", Value: "12A"}}))

		ok, err := s.HasBuilding(context.Background(), models.NewAddressKey("0918123", "10001", "12A"))
		require.NoError(mt, err)
		assert.True(mt, ok)

		filter := mt.GetStartedEvent().Command.Lookup("filter").Document()
		assert.Equal(mt, "12A", filter.Lookup("number").StringValue())
	})

	mt.Run("missing", func(mt *mtest.T) {
		s := New(mt.DB, time.Second, zap.NewNop())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.buildings", mtest.FirstBatch))

		ok, err := s.HasBuilding(context.Background(), models.NewAddressKey("0918123", "10001", "999"))
		require.NoError(mt, err)
		assert.False(mt, ok)
	})
}

func TestFindCoverage(t *testing.T) {
	mt := newMock(t)

	mt.Run("exact key rows", func(mt *mtest.T) {
		s := New(mt.DB, time.Second, zap.NewNop())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.coverage", mtest.FirstBatch,
			bson.D{{Key: "operator_id", Value: "op-a"}, {Key: "settlement_code", Value: "0918123"}, {Key: "street_id", Value: "10001"}, {Key: "number", Value: "1"}, {Key: "capacity", Value: 5}},
		))

		recs, err := s.FindCoverage(context.Background(), models.NewAddressKey("0918123", "10001", "1"))
		require.NoError(mt, err)
		require.Len(mt, recs, 1)
		assert.Equal(mt, 5, recs[0].Capacity)
	})
}

func TestSeed(t *testing.T) {
	mt := newMock(t)

	mt.Run("upserts every collection", func(mt *mtest.T) {
		s := New(mt.DB, time.Second, zap.NewNop())
		ds := dataset.Sample()

		// one bulk write per collection, all within a single batch
		for i := 0; i < 7; i++ {
			mt.AddMockResponses(mtest.CreateSuccessResponse(
				bson.E{Key: "n", Value: 1},
				bson.E{Key: "nModified", Value: 0},
			))
		}

		res, err := s.Seed(context.Background(), ds)
		require.NoError(mt, err)
		assert.Len(mt, res, 7)
	})
}
