package handlers

import (
	"encoding/json"
	"net/http"

	"backtrace-backend/application/search"
	"backtrace-backend/pkg/utils"

	"go.uber.org/zap"
)

// SearchHandler handles resource discovery requests
type SearchHandler struct {
	service *search.Service
	logger  *zap.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(service *search.Service, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{service: service, logger: logger}
}

// SearchRequest represents the request body for resource discovery
type SearchRequest struct {
	Question string `json:"question" validate:"required,max=1000"`
}

// SearchResponse carries the extracted source candidates. The fields map
// straight onto the resource form: title prefills name, url prefills link.
type SearchResponse struct {
	Sources []search.SourceResult `json:"sources"`
}

// Search handles POST /search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	sources, err := h.service.FindResources(r.Context(), req.Question)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	if sources == nil {
		sources = []search.SourceResult{}
	}

	respondJSON(w, h.logger, http.StatusOK, SearchResponse{Sources: sources})
}
