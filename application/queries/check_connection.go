package queries

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// CheckConnectionQuery asks whether an edge from source to target
// would be legal, without creating it
type CheckConnectionQuery struct {
	SourceID string `json:"source_id" validate:"required"`
	TargetID string `json:"target_id" validate:"required"`
}

// Validate implements bus.Query
func (q *CheckConnectionQuery) Validate() error {
	return validate.Struct(q)
}

// ConnectionCheck is the result of a CheckConnectionQuery
type ConnectionCheck struct {
	Legal  bool   `json:"legal"`
	Reason string `json:"reason,omitempty"`
}
