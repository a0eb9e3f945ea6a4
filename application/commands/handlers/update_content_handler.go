package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"nodular/application/commands"
	"nodular/application/commands/bus"
	"nodular/application/ports"
	"nodular/domain/core/aggregates"
	"nodular/domain/core/valueobjects"
	pkgerrors "nodular/pkg/errors"
)

// UpdateContentHandler handles UpdateContentCommand
type UpdateContentHandler struct {
	store  ports.BoardStore
	logger *zap.Logger
}

// NewUpdateContentHandler creates a new handler instance
func NewUpdateContentHandler(store ports.BoardStore, logger *zap.Logger) *UpdateContentHandler {
	return &UpdateContentHandler{store: store, logger: logger}
}

// Handle executes the content patch
func (h *UpdateContentHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(*commands.UpdateContentCommand)
	if !ok {
		return pkgerrors.NewInternalError("unexpected command type", nil)
	}

	id, err := valueobjects.NewBubbleIDFromString(c.BubbleID)
	if err != nil {
		return err
	}

	patch := aggregates.ContentPatch{
		Title:       c.Title,
		LeadText:    c.LeadText,
		Temperature: c.Temperature,
	}

	if c.ModelID != nil {
		modelID, err := valueobjects.ParseModelID(*c.ModelID)
		if err != nil {
			return err
		}
		patch.ModelID = &modelID
	}

	if c.AppendText != nil {
		author := valueobjects.RoleHuman
		if c.AppendAuthor == string(valueobjects.RoleModel) {
			author = valueobjects.RoleModel
		}
		msg, err := valueobjects.NewMessage(*c.AppendText, author, time.Now())
		if err != nil {
			return err
		}
		patch.AppendMessage = &msg
	}

	return h.store.Update(ctx, func(board *aggregates.Board) error {
		return board.UpdateContent(id, patch)
	})
}
