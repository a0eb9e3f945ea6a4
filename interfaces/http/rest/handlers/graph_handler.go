package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"nodular/application/queries"
	querybus "nodular/application/queries/bus"
	"nodular/pkg/common"
)

// GraphHandler handles graph projection requests
type GraphHandler struct {
	queryBus *querybus.QueryBus
	logger   *zap.Logger
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(queryBus *querybus.QueryBus, logger *zap.Logger) *GraphHandler {
	return &GraphHandler{queryBus: queryBus, logger: logger}
}

// GetGraph handles GET /graph. The showSystemEdges query parameter
// overrides the configured default.
func (h *GraphHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	query := &queries.GetBoardGraphQuery{}
	if raw := r.URL.Query().Get("showSystemEdges"); raw != "" {
		show, err := strconv.ParseBool(raw)
		if err != nil {
			common.RespondError(w, http.StatusBadRequest, "INVALID_QUERY", "showSystemEdges must be a boolean")
			return
		}
		query.ShowSystemEdges = &show
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		common.RespondDomainError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}
