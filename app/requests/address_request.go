package requests

// ParseAddressQuery carries one free-text address
type ParseAddressQuery struct {
	Text string `form:"text" binding:"required"`
}

// BatchParseRequest carries several free-text addresses
type BatchParseRequest struct {
	Addresses []string `json:"addresses" binding:"required,min=1,max=100"`
}
