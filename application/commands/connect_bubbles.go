package commands

// ConnectBubblesCommand creates an edge from source to target, subject
// to the connection policy
type ConnectBubblesCommand struct {
	SourceID string `json:"source_id" validate:"required"`
	TargetID string `json:"target_id" validate:"required,nefield=SourceID"`
}

// Validate implements bus.Command
func (c *ConnectBubblesCommand) Validate() error {
	return validate.Struct(c)
}

// DisconnectBubblesCommand removes the edge between source and target.
// Attachment edges require Confirmed; without it the handler reports
// that confirmation is needed and changes nothing.
type DisconnectBubblesCommand struct {
	SourceID  string `json:"source_id" validate:"required"`
	TargetID  string `json:"target_id" validate:"required"`
	Confirmed bool   `json:"confirmed"`
}

// Validate implements bus.Command
func (c *DisconnectBubblesCommand) Validate() error {
	return validate.Struct(c)
}
