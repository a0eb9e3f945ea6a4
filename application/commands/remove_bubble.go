package commands

// RemoveBubbleCommand deletes a bubble and repairs every relationship
// that referenced it
type RemoveBubbleCommand struct {
	BubbleID string `json:"bubble_id" validate:"required"`
}

// Validate implements bus.Command
func (c *RemoveBubbleCommand) Validate() error {
	return validate.Struct(c)
}
