package ports

import "nodular/application/projections"

// Renderer receives fresh projections whenever the board changes. A
// renderer must not call back into the interaction layer from inside
// GraphChanged; it is invoked while the board lock is released but a
// re-entrant gesture would interleave with the one in flight.
type Renderer interface {
	GraphChanged(result projections.Result)
}

// RendererFunc adapts a function to the Renderer interface
type RendererFunc func(result projections.Result)

// GraphChanged implements Renderer
func (f RendererFunc) GraphChanged(result projections.Result) {
	f(result)
}

// NopRenderer discards projections, for headless use
type NopRenderer struct{}

// GraphChanged implements Renderer
func (NopRenderer) GraphChanged(projections.Result) {}

// NodeCallbacks is the exact shape every leaf node component receives.
// Components mutate only through these, never the board directly.
type NodeCallbacks struct {
	OnRemove         func(id string) error
	OnToggleCollapse func(id string) (bool, error)
	OnAddChild       func(id string) (string, error)
	OnUpdateContent  func(id string, leadText string) error
}
