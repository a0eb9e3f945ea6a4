package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"nodular/application/commands"
	"nodular/application/commands/bus"
	"nodular/pkg/common"
)

// BubbleHandler handles bubble-related HTTP requests
type BubbleHandler struct {
	commandBus *bus.CommandBus
	logger     *zap.Logger
}

// NewBubbleHandler creates a new bubble handler
func NewBubbleHandler(commandBus *bus.CommandBus, logger *zap.Logger) *BubbleHandler {
	return &BubbleHandler{commandBus: commandBus, logger: logger}
}

// CreateBubbleRequest is the request body for creating a bubble
type CreateBubbleRequest struct {
	Kind  string  `json:"kind"`
	Title string  `json:"title,omitempty"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`

	Text   string `json:"text,omitempty"`
	Author string `json:"author,omitempty"`

	ParentID string `json:"parentId,omitempty"`

	FileName   string `json:"fileName,omitempty"`
	MimeType   string `json:"mimeType,omitempty"`
	ContentURL string `json:"contentUrl,omitempty"`

	ModelID     string  `json:"modelId,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// CreateBubbleResponse carries the created bubble id
type CreateBubbleResponse struct {
	ID string `json:"id"`
}

// CreateBubble handles POST /bubbles
func (h *BubbleHandler) CreateBubble(w http.ResponseWriter, r *http.Request) {
	var req CreateBubbleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body: "+err.Error())
		return
	}

	cmd := &commands.AddBubbleCommand{
		Kind:        req.Kind,
		Title:       req.Title,
		X:           req.X,
		Y:           req.Y,
		Text:        req.Text,
		Author:      req.Author,
		ParentID:    req.ParentID,
		FileName:    req.FileName,
		MimeType:    req.MimeType,
		ContentURL:  req.ContentURL,
		ModelID:     req.ModelID,
		Temperature: req.Temperature,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondDomainError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, CreateBubbleResponse{ID: cmd.CreatedID})
}

// DeleteBubble handles DELETE /bubbles/{bubbleID}
func (h *BubbleHandler) DeleteBubble(w http.ResponseWriter, r *http.Request) {
	cmd := &commands.RemoveBubbleCommand{BubbleID: chi.URLParam(r, "bubbleID")}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondDomainError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// UpdateBubbleRequest is the request body for patching bubble content
type UpdateBubbleRequest struct {
	Title    *string `json:"title,omitempty"`
	LeadText *string `json:"leadText,omitempty"`

	AppendText   *string `json:"appendText,omitempty"`
	AppendAuthor string  `json:"appendAuthor,omitempty"`

	ModelID     *string  `json:"modelId,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// UpdateBubble handles PATCH /bubbles/{bubbleID}
func (h *BubbleHandler) UpdateBubble(w http.ResponseWriter, r *http.Request) {
	var req UpdateBubbleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body: "+err.Error())
		return
	}

	cmd := &commands.UpdateContentCommand{
		BubbleID:     chi.URLParam(r, "bubbleID"),
		Title:        req.Title,
		LeadText:     req.LeadText,
		AppendText:   req.AppendText,
		AppendAuthor: req.AppendAuthor,
		ModelID:      req.ModelID,
		Temperature:  req.Temperature,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondDomainError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// MoveBubbleRequest is the request body for committing a move
type MoveBubbleRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MoveBubble handles POST /bubbles/{bubbleID}/move
func (h *BubbleHandler) MoveBubble(w http.ResponseWriter, r *http.Request) {
	var req MoveBubbleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body: "+err.Error())
		return
	}

	cmd := &commands.MoveBubbleCommand{
		BubbleID: chi.URLParam(r, "bubbleID"),
		X:        req.X,
		Y:        req.Y,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondDomainError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "moved"})
}

// ToggleCollapse handles POST /bubbles/{bubbleID}/collapse
func (h *BubbleHandler) ToggleCollapse(w http.ResponseWriter, r *http.Request) {
	cmd := &commands.ToggleCollapseCommand{BubbleID: chi.URLParam(r, "bubbleID")}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondDomainError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]bool{"collapsed": cmd.Collapsed})
}
