package ports

import "context"

// GraphEvent describes a mutation the engine issued against the store.
// Events are advisory fan-out for downstream consumers (activity feeds,
// audit); delivery is best-effort and never blocks graph operations.
type GraphEvent struct {
	Type   string `json:"type"`
	NodeID string `json:"nodeId,omitempty"`
	EdgeID string `json:"edgeId,omitempty"`
}

// Graph event types
const (
	EventNodeCreated = "NODE_CREATED"
	EventNodeUpdated = "NODE_UPDATED"
	EventNodeDeleted = "NODE_DELETED"
	EventEdgeCreated = "EDGE_CREATED"
	EventEdgeDeleted = "EDGE_DELETED"
)

// EventBus publishes graph events to an external bus
type EventBus interface {
	Publish(ctx context.Context, event GraphEvent) error
}
