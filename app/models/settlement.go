package models

// Settlement is a city, town or village from the national registry (top level of the locality hierarchy)
type Settlement struct {
	Code           string `bson:"settlement_code" json:"settlement_code"` // stable registry code
	AdminCode      string `bson:"admin_code" json:"admin_code"`           // administrative-area code
	Name           string `bson:"name" json:"name"`
	NormalizedName string `bson:"normalized_name" json:"-"`
	District       string `bson:"district" json:"district"`
	Weight         int    `bson:"weight" json:"weight"` // popularity, used as search tie-break
}
