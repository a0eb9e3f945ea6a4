// Package ports defines the interfaces the application layer needs
// from the outside world
package ports

import (
	"context"

	"nodular/domain/core/aggregates"
)

// BoardStore gives serialized access to the single in-memory board.
// Update runs fn under the write lock; View under the read lock. The
// board only ever changes inside an Update callback, so projections
// taken inside View are consistent snapshots.
type BoardStore interface {
	Update(ctx context.Context, fn func(*aggregates.Board) error) error
	View(ctx context.Context, fn func(*aggregates.Board) error) error
}
