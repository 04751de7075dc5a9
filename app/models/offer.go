package models

import "time"

// ConnectionType is fixed when an offer is created and never mixed within one offer
type ConnectionType string

const (
	ConnectionCable  ConnectionType = "cable"
	ConnectionMobile ConnectionType = "mobile"
)

// IsValid reports whether the connection type is known
func (ct ConnectionType) IsValid() bool {
	return ct == ConnectionCable || ct == ConnectionMobile
}

// Offer is one service offer of an operator
type Offer struct {
	ID             string         `bson:"offer_id" json:"id"`
	OperatorID     string         `bson:"operator_id" json:"operator_id"`
	Operator       Operator       `bson:"-" json:"operator"`
	Title          string         `bson:"title" json:"title"`
	ConnectionType ConnectionType `bson:"connection_type" json:"connection_type"`
	Featured       bool           `bson:"featured" json:"featured"`
	Local          bool           `bson:"local" json:"local"`
	// LocalSettlements lists the settlement names the offer is restricted to when Local is set
	LocalSettlements []string  `bson:"local_settlements,omitempty" json:"local_settlements,omitempty"`
	Priority         int       `bson:"priority" json:"priority"`
	Active           bool      `bson:"active" json:"active"`
	Price            float64   `bson:"price" json:"price"`
	SpeedMbps        int       `bson:"speed_mbps" json:"speed_mbps"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
}

// IsCable reports whether the offer needs physical infrastructure at the address.
func (o Offer) IsCable() bool {
	return o.ConnectionType == ConnectionCable
}
