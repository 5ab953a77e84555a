package handlers

import (
	"encoding/json"
	"net/http"

	"backtrace-backend/application/engine"
	"backtrace-backend/pkg/utils"

	"go.uber.org/zap"
)

// EdgeHandler handles edge-related HTTP requests
type EdgeHandler struct {
	engine *engine.Engine
	logger *zap.Logger
}

// NewEdgeHandler creates a new edge handler
func NewEdgeHandler(eng *engine.Engine, logger *zap.Logger) *EdgeHandler {
	return &EdgeHandler{engine: eng, logger: logger}
}

// CreateEdgeRequest represents the request body for connecting two nodes
type CreateEdgeRequest struct {
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
}

// CreateEdge handles POST /edges
func (h *EdgeHandler) CreateEdge(w http.ResponseWriter, r *http.Request) {
	var req CreateEdgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	edge, err := h.engine.ConnectExisting(r.Context(), req.Source, req.Target)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, edge)
}
