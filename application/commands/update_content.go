package commands

// UpdateContentCommand patches a bubble's content. Nil fields are left
// untouched; relationships are never part of a content patch.
type UpdateContentCommand struct {
	BubbleID string `json:"bubble_id" validate:"required"`

	Title    *string `json:"title" validate:"omitempty,max=200"`
	LeadText *string `json:"lead_text" validate:"omitempty,max=50000"`

	AppendText   *string `json:"append_text" validate:"omitempty,max=50000"`
	AppendAuthor string  `json:"append_author" validate:"omitempty,oneof=human ai"`

	ModelID     *string  `json:"model_id"`
	Temperature *float64 `json:"temperature" validate:"omitempty,min=0,max=2"`
}

// Validate implements bus.Command
func (c *UpdateContentCommand) Validate() error {
	return validate.Struct(c)
}
