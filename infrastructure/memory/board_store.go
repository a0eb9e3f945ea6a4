// Package memory provides the in-process board store. Board state is
// deliberately ephemeral: the engine holds everything in memory and a
// restart starts clean.
package memory

import (
	"context"
	"sync"

	"nodular/domain/core/aggregates"
)

// BoardStore serializes access to a single board behind a RWMutex
type BoardStore struct {
	mu    sync.RWMutex
	board *aggregates.Board
}

// NewBoardStore creates a store around the given board
func NewBoardStore(board *aggregates.Board) *BoardStore {
	return &BoardStore{board: board}
}

// Update runs fn with exclusive access to the board
func (s *BoardStore) Update(ctx context.Context, fn func(*aggregates.Board) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.board)
}

// View runs fn with shared read access to the board
func (s *BoardStore) View(ctx context.Context, fn func(*aggregates.Board) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.board)
}
