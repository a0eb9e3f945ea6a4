package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"nodular/application/commands"
	"nodular/application/commands/bus"
	"nodular/application/queries"
	querybus "nodular/application/queries/bus"
	"nodular/pkg/common"
)

// ConnectionHandler handles edge-related HTTP requests
type ConnectionHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewConnectionHandler creates a new connection handler
func NewConnectionHandler(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, logger *zap.Logger) *ConnectionHandler {
	return &ConnectionHandler{commandBus: commandBus, queryBus: queryBus, logger: logger}
}

// ConnectionRequest identifies the edge endpoints
type ConnectionRequest struct {
	SourceID string `json:"sourceId"`
	TargetID string `json:"targetId"`
}

// CreateConnection handles POST /connections
func (h *ConnectionHandler) CreateConnection(w http.ResponseWriter, r *http.Request) {
	var req ConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body: "+err.Error())
		return
	}

	cmd := &commands.ConnectBubblesCommand{SourceID: req.SourceID, TargetID: req.TargetID}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondDomainError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, map[string]string{"status": "connected"})
}

// CheckConnection handles POST /connections/check
func (h *ConnectionHandler) CheckConnection(w http.ResponseWriter, r *http.Request) {
	var req ConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body: "+err.Error())
		return
	}

	result, err := h.queryBus.Ask(r.Context(), &queries.CheckConnectionQuery{
		SourceID: req.SourceID,
		TargetID: req.TargetID,
	})
	if err != nil {
		common.RespondDomainError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// DisconnectRequest identifies the edge to remove. Confirmed must be
// set to remove an attachment edge.
type DisconnectRequest struct {
	SourceID  string `json:"sourceId"`
	TargetID  string `json:"targetId"`
	Confirmed bool   `json:"confirmed"`
}

// DeleteConnection handles DELETE /connections
func (h *ConnectionHandler) DeleteConnection(w http.ResponseWriter, r *http.Request) {
	var req DisconnectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body: "+err.Error())
		return
	}

	cmd := &commands.DisconnectBubblesCommand{
		SourceID:  req.SourceID,
		TargetID:  req.TargetID,
		Confirmed: req.Confirmed,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondDomainError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "disconnected"})
}
