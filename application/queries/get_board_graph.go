package queries

// GetBoardGraphQuery requests the full renderable projection of the
// board. ShowSystemEdges overrides the configured default when set.
type GetBoardGraphQuery struct {
	ShowSystemEdges *bool `json:"show_system_edges"`
}

// Validate implements bus.Query
func (q *GetBoardGraphQuery) Validate() error {
	return nil
}
