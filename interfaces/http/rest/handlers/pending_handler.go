package handlers

import (
	"encoding/json"
	"net/http"

	"backtrace-backend/application/engine"
	"backtrace-backend/pkg/utils"

	"go.uber.org/zap"
)

// PendingHandler drives the pending-connection state machine over HTTP.
// A client arms a pending connection off an existing node, then submits
// the matching form to create the connected node in one step.
type PendingHandler struct {
	engine *engine.Engine
	logger *zap.Logger
}

// NewPendingHandler creates a new pending-connection handler
func NewPendingHandler(eng *engine.Engine, logger *zap.Logger) *PendingHandler {
	return &PendingHandler{engine: eng, logger: logger}
}

// RequestResourceRequest arms a resource form connected to a question
type RequestResourceRequest struct {
	QuestionID string `json:"questionId" validate:"required"`
}

// RequestQuestionRequest arms a question form connected to a resource
type RequestQuestionRequest struct {
	ResourceID string `json:"resourceId" validate:"required"`
}

// PendingResponse reports the current pending-connection state
type PendingResponse struct {
	Kind      string `json:"kind"`
	ConnectTo string `json:"connectTo,omitempty"`
}

// Get handles GET /pending
func (h *PendingHandler) Get(w http.ResponseWriter, r *http.Request) {
	pending := h.engine.Pending()
	respondJSON(w, h.logger, http.StatusOK, PendingResponse{
		Kind:      string(pending.Kind),
		ConnectTo: pending.ConnectTo,
	})
}

// RequestResource handles POST /pending/resource
func (h *PendingHandler) RequestResource(w http.ResponseWriter, r *http.Request) {
	var req RequestResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	h.engine.RequestConnectedResource(req.QuestionID)
	h.Get(w, r)
}

// RequestQuestion handles POST /pending/question
func (h *PendingHandler) RequestQuestion(w http.ResponseWriter, r *http.Request) {
	var req RequestQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	h.engine.RequestConnectedQuestion(req.ResourceID)
	h.Get(w, r)
}

// Cancel handles DELETE /pending
func (h *PendingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.engine.CancelPending()
	respondJSON(w, h.logger, http.StatusOK, map[string]string{
		"message": "Pending connection cancelled",
	})
}

// SubmitResource handles POST /pending/resource/submit; the new resource
// connects to the armed question, and the pending state clears only when
// the whole operation succeeds.
func (h *PendingHandler) SubmitResource(w http.ResponseWriter, r *http.Request) {
	var req CreateResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	node, err := h.engine.SubmitResourceForm(r.Context(), engine.ResourceInput{
		Name:         req.Name,
		ResourceType: req.ResourceType,
		TopicTag:     req.TopicTag,
		Link:         req.Link,
	})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, node)
}

// SubmitQuestion handles POST /pending/question/submit
func (h *PendingHandler) SubmitQuestion(w http.ResponseWriter, r *http.Request) {
	var req CreateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	node, err := h.engine.SubmitQuestionForm(r.Context(), engine.QuestionInput{
		Question:      req.Question,
		TopicTag:      req.TopicTag,
		AnsweredLevel: req.AnsweredLevel,
		Note:          req.Note,
	})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, node)
}
