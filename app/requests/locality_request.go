package requests

// SearchQuery is the free-text prefix typed into one level of the cascade
type SearchQuery struct {
	Q string `form:"q"`
}

// OffersQuery identifies the building whose offers are requested. Street is empty
// for streetless settlements.
type OffersQuery struct {
	Settlement string `form:"settlement" binding:"required"`
	Street     string `form:"street"`
	Number     string `form:"number" binding:"required"`
}

// SignalQuery asks for the band of a single antenna distance
type SignalQuery struct {
	Distance *float64 `form:"distance" binding:"required,gte=0"`
}
