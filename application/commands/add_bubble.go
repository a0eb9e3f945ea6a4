package commands

// AddBubbleCommand creates a new bubble on the board. CreatedID is
// populated by the handler on success.
type AddBubbleCommand struct {
	Kind  string  `json:"kind" validate:"required,oneof=system prompt response file"`
	Title string  `json:"title" validate:"max=200"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`

	// Lead message for system, prompt and response bubbles
	Text   string `json:"text" validate:"max=50000"`
	Author string `json:"author" validate:"omitempty,oneof=human ai"`

	// Optional conversation parent
	ParentID string `json:"parent_id" validate:"omitempty"`

	// File payload, required for file bubbles
	FileName   string `json:"file_name" validate:"required_if=Kind file"`
	MimeType   string `json:"mime_type" validate:"required_if=Kind file"`
	ContentURL string `json:"content_url" validate:"required_if=Kind file"`

	// System-only model configuration
	ModelID     string  `json:"model_id" validate:"omitempty"`
	Temperature float64 `json:"temperature" validate:"min=0,max=2"`

	CreatedID string `json:"-"`
}

// Validate implements bus.Command
func (c *AddBubbleCommand) Validate() error {
	return validate.Struct(c)
}
