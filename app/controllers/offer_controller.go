package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/address-offers/app/requests"
	"github.com/address-offers/app/responses"
	"github.com/address-offers/app/services"
	"github.com/address-offers/internal/signal"
)

// OfferController serves offers for a chosen building
type OfferController struct {
	offerService *services.OfferService
	logger       *zap.Logger
}

// NewOfferController creates an OfferController
func NewOfferController(offerService *services.OfferService, logger *zap.Logger) *OfferController {
	return &OfferController{
		offerService: offerService,
		logger:       logger,
	}
}

// GetOffers GET /v1/offers?settlement=&street=&number=
func (oc *OfferController) GetOffers(c *gin.Context) {
	var req requests.OffersQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "settlement and number are required")
		return
	}

	result, err := oc.offerService.ResolveOffers(c.Request.Context(), req.Settlement, req.Street, req.Number)
	if err != nil {
		respondError(c, oc.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ClassifySignal GET /v1/signal?distance=
func (oc *OfferController) ClassifySignal(c *gin.Context) {
	var req requests.SignalQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "distance must be a non-negative number of meters")
		return
	}
	c.JSON(http.StatusOK, responses.SignalResponse{
		DistanceMeters: *req.Distance,
		Band:           signal.Classify(*req.Distance),
	})
}
