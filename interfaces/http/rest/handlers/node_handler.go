package handlers

import (
	"encoding/json"
	"net/http"

	"backtrace-backend/application/engine"
	"backtrace-backend/domain/core/valueobjects"
	"backtrace-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NodeHandler handles node-related HTTP requests
type NodeHandler struct {
	engine *engine.Engine
	logger *zap.Logger
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(eng *engine.Engine, logger *zap.Logger) *NodeHandler {
	return &NodeHandler{engine: eng, logger: logger}
}

// CreateResourceRequest represents the request body for creating a resource node
type CreateResourceRequest struct {
	Name         string `json:"name" validate:"required,max=500"`
	ResourceType string `json:"resourceType,omitempty" validate:"omitempty,oneof=video pdf book article website other"`
	TopicTag     string `json:"topicTag,omitempty" validate:"omitempty,max=100"`
	Link         string `json:"link" validate:"required,max=2000"`
	ConnectTo    string `json:"connectTo,omitempty"`
}

// CreateQuestionRequest represents the request body for creating a question node
type CreateQuestionRequest struct {
	Question      string  `json:"question" validate:"required,max=1000"`
	TopicTag      string  `json:"topicTag,omitempty" validate:"omitempty,max=100"`
	AnsweredLevel float64 `json:"answeredLevel,omitempty" validate:"omitempty,min=0,max=1"`
	Note          string  `json:"note,omitempty"`
	ConnectTo     string  `json:"connectTo,omitempty"`
}

// UpdateLevelRequest represents the request body for updating a question's answered level
type UpdateLevelRequest struct {
	AnsweredLevel float64 `json:"answeredLevel" validate:"min=0,max=1"`
}

// UpdatePositionRequest represents the request body for moving a node
type UpdatePositionRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CreateResource handles POST /nodes/resource
func (h *NodeHandler) CreateResource(w http.ResponseWriter, r *http.Request) {
	var req CreateResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	node, err := h.engine.CreateResourceNode(r.Context(), engine.ResourceInput{
		Name:         req.Name,
		ResourceType: req.ResourceType,
		TopicTag:     req.TopicTag,
		Link:         req.Link,
	}, req.ConnectTo)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, node)
}

// CreateQuestion handles POST /nodes/question
func (h *NodeHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req CreateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	node, err := h.engine.CreateQuestionNode(r.Context(), engine.QuestionInput{
		Question:      req.Question,
		TopicTag:      req.TopicTag,
		AnsweredLevel: req.AnsweredLevel,
		Note:          req.Note,
	}, req.ConnectTo)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, node)
}

// DeleteNode handles DELETE /nodes/{nodeID}
func (h *NodeHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")
	if nodeID == "" {
		respondError(w, h.logger, http.StatusBadRequest, "Node ID is required")
		return
	}

	if err := h.engine.DeleteNode(r.Context(), nodeID); err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]string{
		"message": "Node deleted",
	})
}

// UpdateLevel handles PUT /nodes/{nodeID}/level
func (h *NodeHandler) UpdateLevel(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")

	var req UpdateLevelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.engine.UpdateAnsweredLevel(r.Context(), nodeID, req.AnsweredLevel); err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]string{
		"message": "Answered level updated",
	})
}

// UpdatePosition handles PUT /nodes/{nodeID}/position
func (h *NodeHandler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")

	var req UpdatePositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := h.engine.UpdateNodePosition(r.Context(), nodeID, valueobjects.NewPosition(req.X, req.Y)); err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]string{
		"message": "Position updated",
	})
}
