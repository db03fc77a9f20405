package entity

// CreateReviewRequest is the review submission body. The `required` tags
// mirror the contract's falsy check: an absent or zero rating and an absent
// or empty userName both fail as missing. The rating range is deliberately
// not validated — any non-zero integer is accepted as-is.
type CreateReviewRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Rating    int    `json:"rating" validate:"required"`
	Comment   string `json:"comment"`
	UserName  string `json:"userName" validate:"required"`
}

// Response is the JSON envelope used by every endpoint.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}
