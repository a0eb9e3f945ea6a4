package handlers

import (
	"context"

	"go.uber.org/zap"

	"nodular/application/ports"
	"nodular/application/projections"
	"nodular/application/queries"
	"nodular/application/queries/bus"
	"nodular/domain/core/aggregates"
	pkgerrors "nodular/pkg/errors"
)

// GetBoardGraphHandler handles GetBoardGraphQuery
type GetBoardGraphHandler struct {
	store   ports.BoardStore
	options ports.RenderOptionsProvider
	logger  *zap.Logger
}

// NewGetBoardGraphHandler creates a new handler instance
func NewGetBoardGraphHandler(store ports.BoardStore, options ports.RenderOptionsProvider, logger *zap.Logger) *GetBoardGraphHandler {
	return &GetBoardGraphHandler{store: store, options: options, logger: logger}
}

// Handle projects the board under the read lock
func (h *GetBoardGraphHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(*queries.GetBoardGraphQuery)
	if !ok {
		return nil, pkgerrors.NewInternalError("unexpected query type", nil)
	}

	opts := h.options.Current()
	if q.ShowSystemEdges != nil {
		opts.ShowSystemEdges = *q.ShowSystemEdges
	}

	var result projections.Result
	err := h.store.View(ctx, func(board *aggregates.Board) error {
		result = projections.Project(board, opts)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
