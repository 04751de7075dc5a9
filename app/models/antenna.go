package models

import "time"

// AntennaDistance is the measured distance from an address to an operator's nearest antenna
type AntennaDistance struct {
	OperatorID     string    `bson:"operator_id" json:"operator_id"`
	SettlementCode string    `bson:"settlement_code" json:"settlement_code"`
	StreetID       string    `bson:"street_id" json:"street_id"`
	Number         string    `bson:"number" json:"number"`
	DistanceMeters float64   `bson:"distance_meters" json:"distance_meters"`
	MeasuredAt     time.Time `bson:"measured_at" json:"measured_at"`
}
