package handlers

import (
	"net/http"

	"backtrace-backend/application/engine"

	"go.uber.org/zap"
)

// GraphHandler serves the current render projection
type GraphHandler struct {
	engine *engine.Engine
	logger *zap.Logger
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(eng *engine.Engine, logger *zap.Logger) *GraphHandler {
	return &GraphHandler{engine: eng, logger: logger}
}

// GetGraph handles GET /graph
func (h *GraphHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.logger, http.StatusOK, h.engine.Snapshot())
}
