package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"nodular/application/commands"
	"nodular/application/commands/bus"
	"nodular/application/ports"
	"nodular/domain/core/aggregates"
	"nodular/domain/core/entities"
	"nodular/domain/core/valueobjects"
	pkgerrors "nodular/pkg/errors"
)

// AddBubbleHandler handles AddBubbleCommand
type AddBubbleHandler struct {
	store  ports.BoardStore
	logger *zap.Logger
}

// NewAddBubbleHandler creates a new handler instance
func NewAddBubbleHandler(store ports.BoardStore, logger *zap.Logger) *AddBubbleHandler {
	return &AddBubbleHandler{store: store, logger: logger}
}

// Handle executes the add bubble command
func (h *AddBubbleHandler) Handle(ctx context.Context, cmd bus.Command) error {
	c, ok := cmd.(*commands.AddBubbleCommand)
	if !ok {
		return pkgerrors.NewInternalError("unexpected command type", nil)
	}

	spec, err := h.buildSpec(c)
	if err != nil {
		return err
	}

	return h.store.Update(ctx, func(board *aggregates.Board) error {
		id, err := board.AddBubble(spec)
		if err != nil {
			return err
		}
		c.CreatedID = id.String()
		h.logger.Info("bubble added",
			zap.String("bubble_id", id.String()),
			zap.String("kind", c.Kind))
		return nil
	})
}

func (h *AddBubbleHandler) buildSpec(c *commands.AddBubbleCommand) (aggregates.BubbleSpec, error) {
	kind := entities.BubbleKind(c.Kind)

	spec := aggregates.BubbleSpec{
		Kind:     kind,
		Title:    c.Title,
		Position: valueobjects.NewPosition(c.X, c.Y),
	}

	if c.ParentID != "" {
		parentID, err := valueobjects.NewBubbleIDFromString(c.ParentID)
		if err != nil {
			return aggregates.BubbleSpec{}, err
		}
		spec.ParentID = &parentID
	}

	switch kind {
	case entities.KindFileAttachment:
		file, err := valueobjects.NewFileRef(c.FileName, c.MimeType, c.ContentURL)
		if err != nil {
			return aggregates.BubbleSpec{}, err
		}
		spec.File = file

	case entities.KindSystemPrompt:
		if c.Text == "" {
			return aggregates.BubbleSpec{}, pkgerrors.NewValidationError("system bubble requires a prompt text")
		}
		msg, err := valueobjects.NewMessage(c.Text, valueobjects.RoleHuman, time.Now())
		if err != nil {
			return aggregates.BubbleSpec{}, err
		}
		spec.Messages = []valueobjects.Message{msg}

		modelID := valueobjects.DefaultModelID
		if c.ModelID != "" {
			parsed, err := valueobjects.ParseModelID(c.ModelID)
			if err != nil {
				return aggregates.BubbleSpec{}, err
			}
			modelID = parsed
		}
		spec.ModelID = modelID
		spec.Temperature = c.Temperature

	default:
		if c.Text != "" {
			// The kind decides the author when the caller leaves it blank:
			// response text is model-authored, prompt text human-authored
			author := kind.AuthorRole()
			switch c.Author {
			case string(valueobjects.RoleModel):
				author = valueobjects.RoleModel
			case string(valueobjects.RoleHuman):
				author = valueobjects.RoleHuman
			}
			msg, err := valueobjects.NewMessage(c.Text, author, time.Now())
			if err != nil {
				return aggregates.BubbleSpec{}, err
			}
			spec.Messages = []valueobjects.Message{msg}
		}
	}

	return spec, nil
}
