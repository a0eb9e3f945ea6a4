package handlers

import (
	"context"

	"go.uber.org/zap"

	"nodular/application/commands"
	"nodular/application/commands/bus"
	"nodular/application/ports"
	"nodular/domain/core/aggregates"
	"nodular/domain/core/valueobjects"
	pkgerrors "nodular/pkg/errors"
)

// MoveBubbleHandler handles MoveBubbleCommand
type MoveBubbleHandler struct {
	store  ports.BoardStore
	logger *zap.Logger
}

// NewMoveBubbleHandler creates a new handler instance
func NewMoveBubbleHandler(store ports.BoardStore, logger *zap.Logger) *MoveBubbleHandler {
	return &MoveBubbleHandler{store: store, logger: logger}
}

// Handle executes the move command
func (h *MoveBubbleHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(*commands.MoveBubbleCommand)
	if !ok {
		return pkgerrors.NewInternalError("unexpected command type", nil)
	}

	id, err := valueobjects.NewBubbleIDFromString(c.BubbleID)
	if err != nil {
		return err
	}

	return h.store.Update(ctx, func(board *aggregates.Board) error {
		return board.MoveBubble(id, valueobjects.NewPosition(c.X, c.Y))
	})
}

// ToggleCollapseHandler handles ToggleCollapseCommand
type ToggleCollapseHandler struct {
	store  ports.BoardStore
	logger *zap.Logger
}

// NewToggleCollapseHandler creates a new handler instance
func NewToggleCollapseHandler(store ports.BoardStore, logger *zap.Logger) *ToggleCollapseHandler {
	return &ToggleCollapseHandler{store: store, logger: logger}
}

// Handle executes the toggle command
func (h *ToggleCollapseHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(*commands.ToggleCollapseCommand)
	if !ok {
		return pkgerrors.NewInternalError("unexpected command type", nil)
	}

	id, err := valueobjects.NewBubbleIDFromString(c.BubbleID)
	if err != nil {
		return err
	}

	return h.store.Update(ctx, func(board *aggregates.Board) error {
		collapsed, err := board.ToggleCollapsed(id)
		if err != nil {
			return err
		}
		c.Collapsed = collapsed
		return nil
	})
}
