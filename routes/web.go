package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/address-offers/app/controllers"
)

// SetupWebRoutes registers the index page and health probes
func SetupWebRoutes(router *gin.Engine, admin *controllers.AdminController) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Address Offers Service",
			"version": controllers.Version,
			"endpoints": map[string]string{
				"settlements": "GET /v1/settlements?q=",
				"suggest":     "GET /v1/settlements/suggest?q=",
				"has_streets": "GET /v1/settlements/:code/has-streets",
				"streets":     "GET /v1/settlements/:code/streets?q=",
				"numbers":     "GET /v1/settlements/:code/streets/:streetId/numbers?q=",
				"offers":      "GET /v1/offers?settlement=&street=&number=",
				"parse":       "GET /v1/addresses/parse?text=",
				"batch_parse": "POST /v1/addresses/parse",
				"text_offers": "GET /v1/addresses/offers?text=",
				"signal":      "GET /v1/signal?distance=",
			},
		})
	})

	router.GET("/health", admin.Health)
	router.GET("/live", admin.Health)
	router.GET("/ready", admin.Ready)
}
