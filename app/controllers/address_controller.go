package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/address-offers/app/requests"
	"github.com/address-offers/app/services"
)

// AddressController resolves free-text addresses
type AddressController struct {
	addressService *services.AddressService
	logger         *zap.Logger
}

// NewAddressController creates an AddressController
func NewAddressController(addressService *services.AddressService, logger *zap.Logger) *AddressController {
	return &AddressController{
		addressService: addressService,
		logger:         logger,
	}
}

// ParseAddress GET /v1/addresses/parse?text=
func (ac *AddressController) ParseAddress(c *gin.Context) {
	var req requests.ParseAddressQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "text is required")
		return
	}

	result, err := ac.addressService.ParseAddress(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// BatchParse POST /v1/addresses/parse
func (ac *AddressController) BatchParse(c *gin.Context) {
	var req requests.BatchParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	results, err := ac.addressService.ParseBatch(c.Request.Context(), req.Addresses)
	if err != nil {
		respondError(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}

// OffersForText GET /v1/addresses/offers?text=
func (ac *AddressController) OffersForText(c *gin.Context) {
	var req requests.ParseAddressQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "text is required")
		return
	}

	result, err := ac.addressService.OffersForText(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
