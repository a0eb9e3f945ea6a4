package commands

// MoveBubbleCommand commits a bubble's new canvas position
type MoveBubbleCommand struct {
	BubbleID string  `json:"bubble_id" validate:"required"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// Validate implements bus.Command
func (c *MoveBubbleCommand) Validate() error {
	return validate.Struct(c)
}

// ToggleCollapseCommand flips a bubble's collapsed state. Collapsed is
// populated by the handler with the resulting state.
type ToggleCollapseCommand struct {
	BubbleID string `json:"bubble_id" validate:"required"`

	Collapsed bool `json:"-"`
}

// Validate implements bus.Command
func (c *ToggleCollapseCommand) Validate() error {
	return validate.Struct(c)
}
