package ports

import (
	"context"

	"backtrace-backend/domain/core/entities"
)

// Collection names used by the document store. Nodes and edges live in
// separate collections, mirroring the rendering layer's split.
const (
	NodesCollection = "nodes"
	EdgesCollection = "edges"
)

// NodeSnapshot is a full-replace delivery of the nodes collection.
// Snapshots are the entire current contents, never diffs; document order
// within a snapshot is not meaningful.
type NodeSnapshot []entities.AppNode

// EdgeSnapshot is a full-replace delivery of the edges collection
type EdgeSnapshot []entities.Edge

// NodeSubscription is a live stream of node snapshots. Close must be called
// when the session ends; it tears down the stream deterministically and
// closes C.
type NodeSubscription struct {
	C     <-chan NodeSnapshot
	Close func()
}

// EdgeSubscription is a live stream of edge snapshots
type EdgeSubscription struct {
	C     <-chan EdgeSnapshot
	Close func()
}

// NodeStore is the port over the remote nodes collection.
// Subscribe delivers the current contents immediately, then a fresh full
// snapshot after every change. Write replaces or creates the whole document
// at the node's ID; there is no partial-update primitive.
type NodeStore interface {
	Subscribe(ctx context.Context) (*NodeSubscription, error)
	Write(ctx context.Context, node entities.AppNode) error
	Delete(ctx context.Context, id string) error
}

// EdgeStore is the port over the remote edges collection, with the same
// snapshot semantics as NodeStore.
type EdgeStore interface {
	Subscribe(ctx context.Context) (*EdgeSubscription, error)
	Write(ctx context.Context, edge entities.Edge) error
	Delete(ctx context.Context, id string) error
}
