package engine

import (
	"context"

	"backtrace-backend/application/ports"
	"backtrace-backend/domain/core/entities"
	"backtrace-backend/domain/core/valueobjects"
	pkgerrors "backtrace-backend/pkg/errors"

	"go.uber.org/zap"
)

// ResourceInput carries the resource form's fields
type ResourceInput struct {
	Name         string
	ResourceType string
	TopicTag     string
	Link         string
}

// QuestionInput carries the question form's fields
type QuestionInput struct {
	Question      string
	TopicTag      string
	AnsweredLevel float64
	Note          string
}

// CreateResourceNode validates and writes a resource node. When connectTo
// names an existing question, one edge source=newResource target=connectTo
// is written as well ("this resource addresses that question"). The two
// writes are independent: an edge failure after the node write leaves the
// node in place. That gap is accepted, not masked.
func (e *Engine) CreateResourceNode(ctx context.Context, in ResourceInput, connectTo string) (entities.ResourceNode, error) {
	resourceType, err := valueobjects.ParseResourceType(in.ResourceType)
	if err != nil {
		return entities.ResourceNode{}, pkgerrors.NewValidationError(err.Error())
	}

	node, err := entities.NewResourceNode(in.Name, resourceType, in.TopicTag, in.Link)
	if err != nil {
		return entities.ResourceNode{}, err
	}

	if err := e.nodeStore.Write(ctx, node); err != nil {
		e.logger.Error("Failed to write resource node", zap.Error(err))
		return entities.ResourceNode{}, pkgerrors.NewStoreError("write node", err)
	}
	e.metrics.CountOperation(ctx, "CreateResourceNode")
	e.publish(ctx, ports.GraphEvent{Type: ports.EventNodeCreated, NodeID: node.ID})

	if connectTo != "" {
		if err := e.connect(ctx, node.ID, connectTo); err != nil {
			return node, err
		}
	}

	return node, nil
}

// CreateQuestionNode is the symmetric creation path. When connectTo names
// an existing resource, the edge runs source=connectTo target=newQuestion
// (the existing resource addresses the new question).
func (e *Engine) CreateQuestionNode(ctx context.Context, in QuestionInput, connectTo string) (entities.QuestionNode, error) {
	node, err := entities.NewQuestionNode(in.Question, in.TopicTag, in.AnsweredLevel, in.Note)
	if err != nil {
		return entities.QuestionNode{}, err
	}

	if err := e.nodeStore.Write(ctx, node); err != nil {
		e.logger.Error("Failed to write question node", zap.Error(err))
		return entities.QuestionNode{}, pkgerrors.NewStoreError("write node", err)
	}
	e.metrics.CountOperation(ctx, "CreateQuestionNode")
	e.publish(ctx, ports.GraphEvent{Type: ports.EventNodeCreated, NodeID: node.ID})

	if connectTo != "" {
		if err := e.connect(ctx, connectTo, node.ID); err != nil {
			return node, err
		}
	}

	return node, nil
}

// SubmitResourceForm creates a resource node, consuming any pending
// connected-creation state. Any failure leaves the pending state in place
// so the form stays open; only a fully successful creation resolves to
// Idle.
func (e *Engine) SubmitResourceForm(ctx context.Context, in ResourceInput) (entities.ResourceNode, error) {
	node, err := e.CreateResourceNode(ctx, in, e.pendingTarget(PendingResourceForm))
	if err != nil {
		return node, err
	}
	e.resolvePending(PendingResourceForm)
	return node, nil
}

// SubmitQuestionForm creates a question node, consuming any pending
// connected-creation state
func (e *Engine) SubmitQuestionForm(ctx context.Context, in QuestionInput) (entities.QuestionNode, error) {
	node, err := e.CreateQuestionNode(ctx, in, e.pendingTarget(PendingQuestionForm))
	if err != nil {
		return node, err
	}
	e.resolvePending(PendingQuestionForm)
	return node, nil
}

// DeleteNode removes the node, then every edge referencing it. The cascade
// is sequential and best-effort: each edge delete is issued independently
// and a failure on one never blocks the others.
func (e *Engine) DeleteNode(ctx context.Context, id string) error {
	if err := e.nodeStore.Delete(ctx, id); err != nil {
		e.logger.Error("Failed to delete node", zap.String("nodeID", id), zap.Error(err))
		return pkgerrors.NewStoreError("delete node", err)
	}
	e.metrics.CountOperation(ctx, "DeleteNode")
	e.publish(ctx, ports.GraphEvent{Type: ports.EventNodeDeleted, NodeID: id})

	for _, edge := range e.edgesTouching(id) {
		if err := e.edgeStore.Delete(ctx, edge.ID); err != nil {
			e.logger.Warn("Cascade edge delete failed",
				zap.String("nodeID", id),
				zap.String("edgeID", edge.ID),
				zap.Error(err),
			)
			continue
		}
		e.publish(ctx, ports.GraphEvent{Type: ports.EventEdgeDeleted, EdgeID: edge.ID})
	}

	return nil
}

// HandleDeleteKey deletes every currently-selected node. Selection is
// owned by the rendering layer; the engine only receives the ids.
func (e *Engine) HandleDeleteKey(ctx context.Context, selectedIDs []string) {
	for _, id := range selectedIDs {
		if err := e.DeleteNode(ctx, id); err != nil {
			e.logger.Warn("Selection delete failed", zap.String("nodeID", id), zap.Error(err))
		}
	}
}

// UpdateAnsweredLevel rewrites a question node with the clamped level.
// Unknown ids and resource nodes are a no-op: the affordance only exists
// on question nodes, so there is nothing to report.
func (e *Engine) UpdateAnsweredLevel(ctx context.Context, id string, level float64) error {
	node, ok := e.node(id)
	if !ok {
		return nil
	}

	question, ok := node.(entities.QuestionNode)
	if !ok {
		return nil
	}

	updated := question.WithAnsweredLevel(level)
	if err := e.nodeStore.Write(ctx, updated); err != nil {
		e.logger.Error("Failed to update answered level", zap.String("nodeID", id), zap.Error(err))
		return pkgerrors.NewStoreError("write node", err)
	}
	e.metrics.CountOperation(ctx, "UpdateAnsweredLevel")
	e.publish(ctx, ports.GraphEvent{Type: ports.EventNodeUpdated, NodeID: id})

	return nil
}

// UpdateNodePosition rewrites the full node record with the new position.
// The store has no partial-update primitive, so the whole document goes
// back. Unknown ids are a no-op.
func (e *Engine) UpdateNodePosition(ctx context.Context, id string, pos valueobjects.Position) error {
	node, ok := e.node(id)
	if !ok {
		return nil
	}

	if err := e.nodeStore.Write(ctx, node.WithPosition(pos)); err != nil {
		e.logger.Error("Failed to update node position", zap.String("nodeID", id), zap.Error(err))
		return pkgerrors.NewStoreError("write node", err)
	}
	e.metrics.CountOperation(ctx, "UpdateNodePosition")
	e.publish(ctx, ports.GraphEvent{Type: ports.EventNodeUpdated, NodeID: id})

	return nil
}

// ConnectExisting creates an edge between two nodes already on the map.
// Endpoint ids come from the rendering layer, which only offers existing
// nodes; type compatibility is not checked, so resource-resource and
// question-question edges are structurally permitted.
func (e *Engine) ConnectExisting(ctx context.Context, sourceID, targetID string) (entities.Edge, error) {
	return e.writeEdge(ctx, sourceID, targetID)
}

// connect writes one edge between the given endpoints
func (e *Engine) connect(ctx context.Context, sourceID, targetID string) error {
	_, err := e.writeEdge(ctx, sourceID, targetID)
	return err
}

func (e *Engine) writeEdge(ctx context.Context, sourceID, targetID string) (entities.Edge, error) {
	edge, err := entities.NewEdge(sourceID, targetID)
	if err != nil {
		return entities.Edge{}, err
	}

	if err := e.edgeStore.Write(ctx, edge); err != nil {
		e.logger.Error("Failed to write edge",
			zap.String("source", sourceID),
			zap.String("target", targetID),
			zap.Error(err),
		)
		return entities.Edge{}, pkgerrors.NewStoreError("write edge", err)
	}
	e.metrics.CountOperation(ctx, "ConnectNodes")
	e.publish(ctx, ports.GraphEvent{Type: ports.EventEdgeCreated, EdgeID: edge.ID})

	return edge, nil
}
