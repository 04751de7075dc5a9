package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/address-offers/app/controllers"
	"github.com/address-offers/app/models"
	"github.com/address-offers/app/responses"
	"github.com/address-offers/app/services"
	"github.com/address-offers/internal/dataset"
	"github.com/address-offers/internal/locality"
	"github.com/address-offers/internal/normalizer"
	"github.com/address-offers/internal/parser"
	"github.com/address-offers/internal/store"
	"github.com/address-offers/internal/store/memstore"
)

// downReader fails every settlement lookup like a disconnected database
type downReader struct {
	*memstore.Store
}

func (downReader) GetSettlement(ctx context.Context, code string) (*models.Settlement, bool, error) {
	return nil, false, store.Unavailable("get settlement", errors.New("connection refused"))
}

func newTestRouter(t *testing.T, reader store.Reader) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	rules, err := normalizer.DefaultStreetRules()
	require.NoError(t, err)
	cache, err := services.NewLRUCacheService(100, time.Minute, logger)
	require.NoError(t, err)

	ix := locality.NewIndex(reader, normalizer.NewStreetNamer(rules), locality.DefaultConfig(), logger)
	offerService := services.NewOfferService(reader, time.Second, logger)
	ctrl := Controllers{
		Locality: controllers.NewLocalityController(services.NewLocalityService(ix, reader, cache, nil, logger), logger),
		Address:  controllers.NewAddressController(services.NewAddressService(parser.NewAddressParser(ix, logger), offerService, cache, logger), logger),
		Offers:   controllers.NewOfferController(offerService, logger),
		Admin:    controllers.NewAdminController(services.NewAdminService(reader, cache, nil, logger), logger),
	}

	router := gin.New()
	SetupAllRoutes(router, ctrl, nil, logger)
	return router
}

func get(t *testing.T, router *gin.Engine, url string, out interface{}) int {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	if out != nil {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

func TestSettlementRoutes(t *testing.T) {
	router := newTestRouter(t, memstore.New(dataset.Sample()))

	var list responses.SettlementsResponse
	assert.Equal(t, http.StatusOK, get(t, router, "/v1/settlements?q=Warsz", &list))
	assert.Equal(t, 2, list.Count)
	assert.Equal(t, "0918123", list.Results[0].Code)

	list = responses.SettlementsResponse{}
	assert.Equal(t, http.StatusOK, get(t, router, "/v1/settlements/suggest?q=Warsz", &list))
	assert.Equal(t, "Warszawa", list.Results[0].Name)

	var st models.Settlement
	assert.Equal(t, http.StatusOK, get(t, router, "/v1/settlements/0950463", &st))
	assert.Equal(t, "Kraków", st.Name)

	var errResp responses.ErrorResponse
	assert.Equal(t, http.StatusNotFound, get(t, router, "/v1/settlements/1111111", &errResp))
	assert.Equal(t, responses.ErrCodeNotFound, errResp.Error)

	var has responses.HasStreetsResponse
	assert.Equal(t, http.StatusOK, get(t, router, "/v1/settlements/0045678/has-streets", &has))
	assert.False(t, has.HasStreets)
}

func TestStreetAndNumberRoutes(t *testing.T) {
	router := newTestRouter(t, memstore.New(dataset.Sample()))

	var streets responses.StreetsResponse
	assert.Equal(t, http.StatusOK, get(t, router, "/v1/settlements/0918123/streets?q=al", &streets))
	require.Equal(t, 3, streets.Count)
	assert.Equal(t, "Aleja Jerozolimskie", streets.Results[0].Name)

	var numbers responses.NumbersResponse
	assert.Equal(t, http.StatusOK, get(t, router, "/v1/settlements/0045678/streets/00000/numbers", &numbers))
	assert.Equal(t, 3, numbers.Count)

	numbers = responses.NumbersResponse{}
	assert.Equal(t, http.StatusOK, get(t, router, "/v1/settlements/0918123/streets/10001/numbers?q=x", &numbers))
	assert.NotNil(t, numbers.Results)
	assert.Zero(t, numbers.Count)
}

func TestOfferRoutes(t *testing.T) {
	router := newTestRouter(t, memstore.New(dataset.Sample()))

	var res services.AddressOffers
	assert.Equal(t, http.StatusOK, get(t, router, "/v1/offers?settlement=0918123&street=10001&number=1", &res))
	assert.True(t, res.HasCableCoverage)
	ids := make([]string, len(res.Offers))
	for i, o := range res.Offers {
		ids[i] = o.ID
	}
	assert.Equal(t, []string{"a-fiber-1g", "c-lte", "b-5g", "a-fiber-300"}, ids)
	assert.Equal(t, "Netia", res.Offers[0].Operator.Name)

	var errResp responses.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, get(t, router, "/v1/offers?settlement=0918123", &errResp))
	assert.Equal(t, responses.ErrCodeInvalidRequest, errResp.Error)
	assert.False(t, errResp.Retryable)
}

func TestAddressRoutes(t *testing.T) {
	router := newTestRouter(t, memstore.New(dataset.Sample()))

	var parsed parser.Result
	assert.Equal(t, http.StatusOK, get(t, router, "/v1/addresses/parse?text=Krak%C3%B3w+ul.+Flori%C5%84ska+5", &parsed))
	assert.Equal(t, parser.StatusMatched, parsed.Status)
	require.NotNil(t, parsed.Key)
	assert.Equal(t, "0950463/20001/5", parsed.Key.String())

	assert.Equal(t, http.StatusBadRequest, get(t, router, "/v1/addresses/parse", nil))

	var withOffers services.TextOffers
	assert.Equal(t, http.StatusOK, get(t, router, "/v1/addresses/offers?text=Nowa+Wie%C5%9B+7", &withOffers))
	require.NotNil(t, withOffers.Offers)
	assert.False(t, withOffers.Offers.HasCableCoverage)
	assert.NotEmpty(t, withOffers.Offers.Offers)

	w := httptest.NewRecorder()
	body := `{"addresses": ["Nowa Wieś 7", "Gdańsk 1"]}`
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/addresses/parse", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code)
	var batch struct {
		Results []parser.Result `json:"results"`
		Count   int             `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &batch))
	assert.Equal(t, 2, batch.Count)
	assert.Equal(t, parser.StatusUnmatched, batch.Results[1].Status)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/addresses/parse", strings.NewReader(`{"addresses": []}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignalRoute(t *testing.T) {
	router := newTestRouter(t, memstore.New(dataset.Sample()))

	var sig responses.SignalResponse
	assert.Equal(t, http.StatusOK, get(t, router, "/v1/signal?distance=420", &sig))
	assert.Equal(t, 5, sig.Level)
	assert.Equal(t, "excellent", sig.Label)

	assert.Equal(t, http.StatusBadRequest, get(t, router, "/v1/signal?distance=-1", nil))
	assert.Equal(t, http.StatusBadRequest, get(t, router, "/v1/signal", nil))
}

func TestStoreUnavailableIsRetryable(t *testing.T) {
	router := newTestRouter(t, downReader{memstore.New(dataset.Sample())})

	var errResp responses.ErrorResponse
	assert.Equal(t, http.StatusServiceUnavailable, get(t, router, "/v1/offers?settlement=0918123&street=10001&number=1", &errResp))
	assert.Equal(t, responses.ErrCodeStoreUnavailable, errResp.Error)
	assert.True(t, errResp.Retryable)
}

func TestAdminAndHealthRoutes(t *testing.T) {
	router := newTestRouter(t, memstore.New(dataset.Sample()))

	assert.Equal(t, http.StatusOK, get(t, router, "/health", nil))

	var ready services.ReadinessReport
	assert.Equal(t, http.StatusOK, get(t, router, "/ready", &ready))
	assert.True(t, ready.Ready)

	// warm the cache
	get(t, router, "/v1/settlements?q=Krak", nil)
	var stats services.CacheStats
	assert.Equal(t, http.StatusOK, get(t, router, "/v1/admin/cache/stats", &stats))
	assert.Equal(t, int64(1), stats.TotalItems)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/admin/cache/clear", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	stats = services.CacheStats{}
	get(t, router, "/v1/admin/cache/stats", &stats)
	assert.Zero(t, stats.TotalItems)

	var notFound responses.ErrorResponse
	assert.Equal(t, http.StatusNotFound, get(t, router, "/nope", &notFound))
	assert.Equal(t, responses.ErrCodeNotFound, notFound.Error)
	assert.Equal(t, "no route for GET /nope", notFound.Message)
	assert.False(t, notFound.Retryable)
	assert.NotEmpty(t, notFound.RequestID)
}
