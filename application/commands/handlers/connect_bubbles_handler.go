package handlers

import (
	"context"

	"go.uber.org/zap"

	"nodular/application/commands"
	"nodular/application/commands/bus"
	"nodular/application/ports"
	"nodular/domain/core/aggregates"
	"nodular/domain/core/entities"
	"nodular/domain/core/valueobjects"
	pkgerrors "nodular/pkg/errors"
)

// ConnectBubblesHandler handles ConnectBubblesCommand
type ConnectBubblesHandler struct {
	store  ports.BoardStore
	logger *zap.Logger
}

// NewConnectBubblesHandler creates a new handler instance
func NewConnectBubblesHandler(store ports.BoardStore, logger *zap.Logger) *ConnectBubblesHandler {
	return &ConnectBubblesHandler{store: store, logger: logger}
}

// Handle executes the connect command
func (h *ConnectBubblesHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(*commands.ConnectBubblesCommand)
	if !ok {
		return pkgerrors.NewInternalError("unexpected command type", nil)
	}

	sourceID, targetID, err := parsePair(c.SourceID, c.TargetID)
	if err != nil {
		return err
	}

	return h.store.Update(ctx, func(board *aggregates.Board) error {
		if err := board.Connect(sourceID, targetID); err != nil {
			return err
		}
		h.logger.Info("bubbles connected",
			zap.String("source_id", c.SourceID),
			zap.String("target_id", c.TargetID))
		return nil
	})
}

// DisconnectBubblesHandler handles DisconnectBubblesCommand
type DisconnectBubblesHandler struct {
	store  ports.BoardStore
	logger *zap.Logger
}

// NewDisconnectBubblesHandler creates a new handler instance
func NewDisconnectBubblesHandler(store ports.BoardStore, logger *zap.Logger) *DisconnectBubblesHandler {
	return &DisconnectBubblesHandler{store: store, logger: logger}
}

// Handle executes the disconnect command. Removing an attachment edge
// is destructive in the UI, so it goes through an explicit
// confirmation round-trip.
func (h *DisconnectBubblesHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(*commands.DisconnectBubblesCommand)
	if !ok {
		return pkgerrors.NewInternalError("unexpected command type", nil)
	}

	sourceID, targetID, err := parsePair(c.SourceID, c.TargetID)
	if err != nil {
		return err
	}

	return h.store.Update(ctx, func(board *aggregates.Board) error {
		source, err := board.Bubble(sourceID)
		if err != nil {
			return err
		}
		if source.Kind() == entities.KindFileAttachment && !c.Confirmed {
			return pkgerrors.NewConfirmationRequiredError("disconnect file attachment")
		}
		if err := board.Disconnect(sourceID, targetID); err != nil {
			return err
		}
		h.logger.Info("bubbles disconnected",
			zap.String("source_id", c.SourceID),
			zap.String("target_id", c.TargetID))
		return nil
	})
}

func parsePair(source, target string) (valueobjects.BubbleID, valueobjects.BubbleID, error) {
	sourceID, err := valueobjects.NewBubbleIDFromString(source)
	if err != nil {
		return valueobjects.BubbleID{}, valueobjects.BubbleID{}, err
	}
	targetID, err := valueobjects.NewBubbleIDFromString(target)
	if err != nil {
		return valueobjects.BubbleID{}, valueobjects.BubbleID{}, err
	}
	return sourceID, targetID, nil
}
