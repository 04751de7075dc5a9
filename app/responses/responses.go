package responses

import (
	"github.com/address-offers/app/models"
	"github.com/address-offers/internal/locality"
	"github.com/address-offers/internal/signal"
)

// Error codes
const (
	ErrCodeInvalidRequest   = "INVALID_REQUEST"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeStoreUnavailable = "DATA_STORE_UNAVAILABLE"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// SettlementsResponse lists settlement matches
type SettlementsResponse struct {
	Query   string              `json:"query"`
	Results []models.Settlement `json:"results"`
	Count   int                 `json:"count"`
}

// HasStreetsResponse tells the form whether to show the street field
type HasStreetsResponse struct {
	SettlementCode string `json:"settlement_code"`
	HasStreets     bool   `json:"has_streets"`
}

// StreetsResponse lists street matches within a settlement
type StreetsResponse struct {
	SettlementCode string               `json:"settlement_code"`
	Query          string               `json:"query"`
	Results        []locality.StreetHit `json:"results"`
	Count          int                  `json:"count"`
}

// NumbersResponse lists building numbers on a street
type NumbersResponse struct {
	SettlementCode string                  `json:"settlement_code"`
	StreetID       string                  `json:"street_id"`
	Query          string                  `json:"query"`
	Results        []models.BuildingNumber `json:"results"`
	Count          int                     `json:"count"`
}

// SignalResponse is the band of one distance
type SignalResponse struct {
	DistanceMeters float64 `json:"distance_meters"`
	signal.Band
}

// ErrorResponse is returned with every non-2xx status
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id,omitempty"`
}

// SuccessResponse acknowledges an admin action
type SuccessResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// HealthCheckResponse is served by the liveness probe
type HealthCheckResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}
