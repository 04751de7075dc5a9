package models

// Operator is the external authority behind offers and coverage records
type Operator struct {
	ID     string `bson:"operator_id" json:"id"`
	Name   string `bson:"name" json:"name"`
	Slug   string `bson:"slug" json:"slug"`
	Active bool   `bson:"active" json:"active"`
}
