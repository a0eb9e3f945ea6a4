package ports

import "nodular/application/projections"

// RenderOptionsProvider hands out the current render options. The
// config watcher swaps them at runtime, so callers fetch fresh
// options per projection instead of caching them.
type RenderOptionsProvider interface {
	Current() projections.RenderOptions
}

// StaticRenderOptions is a provider that never changes
type StaticRenderOptions struct {
	Options projections.RenderOptions
}

// Current implements RenderOptionsProvider
func (s StaticRenderOptions) Current() projections.RenderOptions {
	return s.Options
}
