package entities

import (
	pkgerrors "backtrace-backend/pkg/errors"

	"github.com/google/uuid"
)

// EdgeTypeDefault is the rendering hint attached to every created edge.
// It is not semantically load-bearing.
const EdgeTypeDefault = "default"

// Edge connects a resource to a question (or vice versa) on the knowledge
// map. Direction carries meaning: the edge reads "source addresses target"
// when the source is a resource, and "target is addressed by source" when
// the question initiated the connection. The store does not enforce
// referential integrity; cascade cleanup is the engine's job.
type Edge struct {
	ID     string `json:"id" dynamodbav:"ID"`
	Source string `json:"source" dynamodbav:"Source"`
	Target string `json:"target" dynamodbav:"Target"`
	Type   string `json:"type,omitempty" dynamodbav:"Type,omitempty"`
}

// NewEdge creates an edge between two node IDs with a fresh ID
func NewEdge(source, target string) (Edge, error) {
	if source == "" || target == "" {
		return Edge{}, pkgerrors.NewValidationError("edge endpoints cannot be empty")
	}

	return Edge{
		ID:     uuid.New().String(),
		Source: source,
		Target: target,
		Type:   EdgeTypeDefault,
	}, nil
}

// Touches reports whether the edge references the given node ID as either
// endpoint
func (e Edge) Touches(nodeID string) bool {
	return e.Source == nodeID || e.Target == nodeID
}
