package engine

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"backtrace-backend/application/ports"
	"backtrace-backend/domain/core/entities"
	"backtrace-backend/domain/core/valueobjects"
	"backtrace-backend/pkg/observability"

	"go.uber.org/zap"
)

// Engine owns the in-memory projection of the knowledge graph. The remote
// collections are the single source of truth; the projection is a derived,
// disposable cache rebuilt from every snapshot the store delivers. User
// intents translate into store writes whose effects come back through the
// snapshot stream.
type Engine struct {
	nodeStore ports.NodeStore
	edgeStore ports.EdgeStore
	events    ports.EventBus
	metrics   *observability.Metrics
	logger    *zap.Logger

	mu        sync.RWMutex
	nodes     map[string]entities.AppNode
	nodeOrder []string
	edges     []entities.Edge
	pending   PendingConnection
	rng       *rand.Rand

	observerMu   sync.Mutex
	observers    map[int]chan RenderSnapshot
	nextObserver int
}

// Option configures optional engine collaborators
type Option func(*Engine)

// WithEventBus attaches a change-event publisher. Publication is
// best-effort and never blocks graph operations.
func WithEventBus(bus ports.EventBus) Option {
	return func(e *Engine) { e.events = bus }
}

// WithMetrics attaches an operation counter
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// New creates a graph engine over the given stores
func New(nodeStore ports.NodeStore, edgeStore ports.EdgeStore, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		nodeStore: nodeStore,
		edgeStore: edgeStore,
		logger:    logger,
		nodes:     make(map[string]entities.AppNode),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		observers: make(map[int]chan RenderSnapshot),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Run subscribes to both collection streams and keeps the projection
// current until the context is cancelled. Subscriptions are torn down on
// return. Run is the engine's only long-lived goroutine; all mutating
// operations are safe to call concurrently with it.
func (e *Engine) Run(ctx context.Context) error {
	nodeSub, err := e.nodeStore.Subscribe(ctx)
	if err != nil {
		return err
	}
	defer nodeSub.Close()

	edgeSub, err := e.edgeStore.Subscribe(ctx)
	if err != nil {
		return err
	}
	defer edgeSub.Close()

	e.logger.Info("Graph engine started")

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Graph engine stopping", zap.Error(ctx.Err()))
			return ctx.Err()

		case snapshot, ok := <-nodeSub.C:
			if !ok {
				return nil
			}
			e.ApplyNodeSnapshot(snapshot)

		case snapshot, ok := <-edgeSub.C:
			if !ok {
				return nil
			}
			e.ApplyEdgeSnapshot(snapshot)
		}
	}
}

// ApplyNodeSnapshot replaces the node projection with the authoritative
// set. A record arriving without a position keeps the last-known local
// position for that id; a node never seen before gets a random fallback.
// The store may echo a freshly written document before its position write
// lands, so a blind overwrite here would snap nodes back to the origin.
func (e *Engine) ApplyNodeSnapshot(snapshot ports.NodeSnapshot) {
	e.mu.Lock()

	next := make(map[string]entities.AppNode, len(snapshot))
	order := make([]string, 0, len(snapshot))

	for _, node := range snapshot {
		if node.Pos() == nil {
			if prev, ok := e.nodes[node.NodeID()]; ok && prev.Pos() != nil {
				node = node.WithPosition(*prev.Pos())
			} else {
				node = node.WithPosition(valueobjects.RandomPosition(e.rng))
			}
		}
		next[node.NodeID()] = node
		order = append(order, node.NodeID())
	}

	e.nodes = next
	e.nodeOrder = order
	e.mu.Unlock()

	e.broadcast()
}

// ApplyEdgeSnapshot replaces the edge projection unconditionally. Edges
// carry no locally-derived fields, so there is nothing to merge.
func (e *Engine) ApplyEdgeSnapshot(snapshot ports.EdgeSnapshot) {
	e.mu.Lock()
	e.edges = make([]entities.Edge, len(snapshot))
	copy(e.edges, snapshot)
	e.mu.Unlock()

	e.broadcast()
}

// node looks up a projected node by id
func (e *Engine) node(id string) (entities.AppNode, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	node, ok := e.nodes[id]
	return node, ok
}

// edgesTouching returns the projected edges referencing the given node
func (e *Engine) edgesTouching(id string) []entities.Edge {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var touching []entities.Edge
	for _, edge := range e.edges {
		if edge.Touches(id) {
			touching = append(touching, edge)
		}
	}
	return touching
}

// publish sends a graph event to the configured bus, if any. Failures are
// logged and swallowed; the store write already happened.
func (e *Engine) publish(ctx context.Context, event ports.GraphEvent) {
	if e.events == nil {
		return
	}
	if err := e.events.Publish(ctx, event); err != nil {
		e.logger.Warn("Failed to publish graph event",
			zap.String("type", event.Type),
			zap.Error(err),
		)
	}
}
