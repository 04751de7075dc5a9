package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/address-offers/app/requests"
	"github.com/address-offers/app/responses"
	"github.com/address-offers/app/services"
)

// LocalityController serves the settlement -> street -> number lookups of the address form
type LocalityController struct {
	localityService *services.LocalityService
	logger          *zap.Logger
}

// NewLocalityController creates a LocalityController
func NewLocalityController(localityService *services.LocalityService, logger *zap.Logger) *LocalityController {
	return &LocalityController{
		localityService: localityService,
		logger:          logger,
	}
}

// SearchSettlements GET /v1/settlements?q=
func (lc *LocalityController) SearchSettlements(c *gin.Context) {
	var req requests.SearchQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "Invalid query: "+err.Error())
		return
	}

	results, err := lc.localityService.SearchSettlements(c.Request.Context(), req.Q)
	if err != nil {
		respondError(c, lc.logger, err)
		return
	}
	c.JSON(http.StatusOK, responses.SettlementsResponse{Query: req.Q, Results: results, Count: len(results)})
}

// SuggestSettlements GET /v1/settlements/suggest?q=
func (lc *LocalityController) SuggestSettlements(c *gin.Context) {
	var req requests.SearchQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "Invalid query: "+err.Error())
		return
	}

	results, err := lc.localityService.SuggestSettlements(c.Request.Context(), req.Q)
	if err != nil {
		respondError(c, lc.logger, err)
		return
	}
	c.JSON(http.StatusOK, responses.SettlementsResponse{Query: req.Q, Results: results, Count: len(results)})
}

// GetSettlement GET /v1/settlements/:code
func (lc *LocalityController) GetSettlement(c *gin.Context) {
	code := c.Param("code")
	settlement, found, err := lc.localityService.GetSettlement(c.Request.Context(), code)
	if err != nil {
		respondError(c, lc.logger, err)
		return
	}
	if !found {
		abortWithError(c, http.StatusNotFound, responses.ErrCodeNotFound, "Unknown settlement "+code, false)
		return
	}
	c.JSON(http.StatusOK, settlement)
}

// HasStreets GET /v1/settlements/:code/has-streets
func (lc *LocalityController) HasStreets(c *gin.Context) {
	code := c.Param("code")
	has, err := lc.localityService.HasStreets(c.Request.Context(), code)
	if err != nil {
		respondError(c, lc.logger, err)
		return
	}
	c.JSON(http.StatusOK, responses.HasStreetsResponse{SettlementCode: code, HasStreets: has})
}

// SearchStreets GET /v1/settlements/:code/streets?q=
func (lc *LocalityController) SearchStreets(c *gin.Context) {
	var req requests.SearchQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "Invalid query: "+err.Error())
		return
	}

	code := c.Param("code")
	results, err := lc.localityService.SearchStreets(c.Request.Context(), code, req.Q)
	if err != nil {
		respondError(c, lc.logger, err)
		return
	}
	c.JSON(http.StatusOK, responses.StreetsResponse{
		SettlementCode: code,
		Query:          req.Q,
		Results:        results,
		Count:          len(results),
	})
}

// SearchNumbers GET /v1/settlements/:code/streets/:streetId/numbers?q=
// Streetless settlements use models.NoStreetID as streetId. A query that cannot start a
// building number yields an empty list.
func (lc *LocalityController) SearchNumbers(c *gin.Context) {
	var req requests.SearchQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "Invalid query: "+err.Error())
		return
	}

	code, streetID := c.Param("code"), c.Param("streetId")
	results, err := lc.localityService.SearchBuildingNumbers(c.Request.Context(), code, streetID, req.Q)
	if err != nil {
		respondError(c, lc.logger, err)
		return
	}
	c.JSON(http.StatusOK, responses.NumbersResponse{
		SettlementCode: code,
		StreetID:       streetID,
		Query:          req.Q,
		Results:        results,
		Count:          len(results),
	})
}
