package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/address-offers/app/responses"
	"github.com/address-offers/app/services"
)

// Version is reported by the health endpoints
const Version = "1.0.0"

// AdminController serves health probes and cache administration
type AdminController struct {
	adminService *services.AdminService
	logger       *zap.Logger
}

// NewAdminController creates an AdminController
func NewAdminController(adminService *services.AdminService, logger *zap.Logger) *AdminController {
	return &AdminController{
		adminService: adminService,
		logger:       logger,
	}
}

// Health GET /health
func (ac *AdminController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, responses.HealthCheckResponse{
		Status:    "ok",
		Version:   Version,
		Timestamp: timestamp(),
	})
}

// Ready GET /ready
func (ac *AdminController) Ready(c *gin.Context) {
	report := ac.adminService.Readiness(c.Request.Context())
	status := http.StatusOK
	if !report.Ready {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}

// GetStats GET /v1/admin/stats
func (ac *AdminController) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, ac.adminService.SystemStats(c.Request.Context()))
}

// CacheStats GET /v1/admin/cache/stats
func (ac *AdminController) CacheStats(c *gin.Context) {
	stats, err := ac.adminService.CacheStats(c.Request.Context())
	if err != nil {
		respondError(c, ac.logger, err)
		return
	}
	if stats == nil {
		c.JSON(http.StatusOK, gin.H{"enabled": false})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ClearCache POST /v1/admin/cache/clear
func (ac *AdminController) ClearCache(c *gin.Context) {
	if err := ac.adminService.ClearCache(c.Request.Context()); err != nil {
		respondError(c, ac.logger, err)
		return
	}
	ac.logger.Info("Cache cleared", zap.String("client_ip", c.ClientIP()))
	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success:   true,
		Message:   "Cache cleared",
		Timestamp: timestamp(),
	})
}
