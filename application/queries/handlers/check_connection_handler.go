package handlers

import (
	"context"

	"go.uber.org/zap"

	"nodular/application/ports"
	"nodular/application/queries"
	"nodular/application/queries/bus"
	"nodular/domain/core/aggregates"
	"nodular/domain/core/valueobjects"
	pkgerrors "nodular/pkg/errors"
)

// CheckConnectionHandler handles CheckConnectionQuery
type CheckConnectionHandler struct {
	store  ports.BoardStore
	logger *zap.Logger
}

// NewCheckConnectionHandler creates a new handler instance
func NewCheckConnectionHandler(store ports.BoardStore, logger *zap.Logger) *CheckConnectionHandler {
	return &CheckConnectionHandler{store: store, logger: logger}
}

// Handle evaluates connection legality without mutating the board.
// Illegal is an answer here, not an error: only missing bubbles fail
// the query.
func (h *CheckConnectionHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(*queries.CheckConnectionQuery)
	if !ok {
		return nil, pkgerrors.NewInternalError("unexpected query type", nil)
	}

	sourceID, err := valueobjects.NewBubbleIDFromString(q.SourceID)
	if err != nil {
		return nil, err
	}
	targetID, err := valueobjects.NewBubbleIDFromString(q.TargetID)
	if err != nil {
		return nil, err
	}

	var check queries.ConnectionCheck
	err = h.store.View(ctx, func(board *aggregates.Board) error {
		if err := board.CheckConnection(sourceID, targetID); err != nil {
			if pkgerrors.IsNotFound(err) {
				return err
			}
			check = queries.ConnectionCheck{Legal: false, Reason: reasonOf(err)}
			return nil
		}
		check = queries.ConnectionCheck{Legal: true}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return check, nil
}

func reasonOf(err error) string {
	if domainErr := pkgerrors.GetDomainError(err); domainErr != nil {
		return domainErr.Message
	}
	return err.Error()
}
