package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/address-offers/app/middleware"
	"github.com/address-offers/app/responses"
	"github.com/address-offers/internal/store"
)

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func abortWithError(c *gin.Context, status int, code, message string, retryable bool) {
	c.AbortWithStatusJSON(status, responses.ErrorResponse{
		Error:     code,
		Message:   message,
		Retryable: retryable,
		Timestamp: timestamp(),
		RequestID: middleware.GetRequestID(c),
	})
}

// RouteNotFound answers requests that matched no route.
func RouteNotFound(c *gin.Context) {
	abortWithError(c, http.StatusNotFound, responses.ErrCodeNotFound,
		"no route for "+c.Request.Method+" "+c.Request.URL.Path, false)
}

func badRequest(c *gin.Context, message string) {
	abortWithError(c, http.StatusBadRequest, responses.ErrCodeInvalidRequest, message, false)
}

// respondError maps a service error onto a status. Store failures are the only
// expected errors and are retryable.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	_ = c.Error(err)
	if store.IsUnavailable(err) {
		logger.Warn("Data store unavailable", zap.Error(err), zap.String("path", c.FullPath()))
		abortWithError(c, http.StatusServiceUnavailable, responses.ErrCodeStoreUnavailable,
			"Address data is temporarily unavailable, please retry", true)
		return
	}
	logger.Error("Unexpected error", zap.Error(err), zap.String("path", c.FullPath()))
	abortWithError(c, http.StatusInternalServerError, responses.ErrCodeInternal, "Internal error", false)
}
