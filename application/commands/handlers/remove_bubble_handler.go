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

// RemoveBubbleHandler handles RemoveBubbleCommand
type RemoveBubbleHandler struct {
	store  ports.BoardStore
	logger *zap.Logger
}

// NewRemoveBubbleHandler creates a new handler instance
func NewRemoveBubbleHandler(store ports.BoardStore, logger *zap.Logger) *RemoveBubbleHandler {
	return &RemoveBubbleHandler{store: store, logger: logger}
}

// Handle executes the remove bubble command
func (h *RemoveBubbleHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(*commands.RemoveBubbleCommand)
	if !ok {
		return pkgerrors.NewInternalError("unexpected command type", nil)
	}

	id, err := valueobjects.NewBubbleIDFromString(c.BubbleID)
	if err != nil {
		return err
	}

	return h.store.Update(ctx, func(board *aggregates.Board) error {
		if err := board.RemoveBubble(id); err != nil {
			return err
		}
		h.logger.Info("bubble removed", zap.String("bubble_id", c.BubbleID))
		return nil
	})
}
