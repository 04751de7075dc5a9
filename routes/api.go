package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/address-offers/app/controllers"
	"github.com/address-offers/app/middleware"
)

// Controllers groups every controller served by the API
type Controllers struct {
	Locality *controllers.LocalityController
	Address  *controllers.AddressController
	Offers   *controllers.OfferController
	Admin    *controllers.AdminController
}

// SetupAPIRoutes registers the /v1 API
func SetupAPIRoutes(router *gin.Engine, ctrl Controllers) {
	v1 := router.Group("/v1")
	{
		settlements := v1.Group("/settlements")
		{
			settlements.GET("", ctrl.Locality.SearchSettlements)
			settlements.GET("/suggest", ctrl.Locality.SuggestSettlements)
			settlements.GET("/:code", ctrl.Locality.GetSettlement)
			settlements.GET("/:code/has-streets", ctrl.Locality.HasStreets)
			settlements.GET("/:code/streets", ctrl.Locality.SearchStreets)
			settlements.GET("/:code/streets/:streetId/numbers", ctrl.Locality.SearchNumbers)
		}

		addresses := v1.Group("/addresses")
		{
			addresses.GET("/parse", ctrl.Address.ParseAddress)
			addresses.POST("/parse", ctrl.Address.BatchParse)
			addresses.GET("/offers", ctrl.Address.OffersForText)
		}

		v1.GET("/offers", ctrl.Offers.GetOffers)
		v1.GET("/signal", ctrl.Offers.ClassifySignal)

		admin := v1.Group("/admin")
		{
			admin.GET("/stats", ctrl.Admin.GetStats)
			admin.GET("/cache/stats", ctrl.Admin.CacheStats)
			admin.POST("/cache/clear", ctrl.Admin.ClearCache)
		}
	}
}

// SetupAllRoutes installs middleware and every route group
func SetupAllRoutes(router *gin.Engine, ctrl Controllers, allowedOrigins []string, logger *zap.Logger) {
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(logger))
	router.Use(middleware.CORS(allowedOrigins))

	SetupWebRoutes(router, ctrl.Admin)
	SetupAPIRoutes(router, ctrl)

	router.NoRoute(controllers.RouteNotFound)
}
