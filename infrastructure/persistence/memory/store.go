package memory

import (
	"context"
	"sync"

	"backtrace-backend/application/ports"
	"backtrace-backend/domain/core/entities"

	"go.uber.org/zap"
)

// Store is an in-process document store with the same snapshot semantics
// as the remote one: every mutation fans a full collection snapshot out to
// all subscribers. It backs the development mode and the test suites.
type Store struct {
	logger *zap.Logger

	mu       sync.RWMutex
	nodes    map[string]entities.AppNode
	edges    map[string]entities.Edge
	nodeSubs map[int]chan ports.NodeSnapshot
	edgeSubs map[int]chan ports.EdgeSnapshot
	nextSub  int
}

// NewStore creates an empty in-memory store
func NewStore(logger *zap.Logger) *Store {
	return &Store{
		logger:   logger,
		nodes:    make(map[string]entities.AppNode),
		edges:    make(map[string]entities.Edge),
		nodeSubs: make(map[int]chan ports.NodeSnapshot),
		edgeSubs: make(map[int]chan ports.EdgeSnapshot),
	}
}

// Nodes returns the store's nodes-collection port
func (s *Store) Nodes() ports.NodeStore {
	return nodeStore{s}
}

// Edges returns the store's edges-collection port
func (s *Store) Edges() ports.EdgeStore {
	return edgeStore{s}
}

func (s *Store) nodeSnapshot() ports.NodeSnapshot {
	snapshot := make(ports.NodeSnapshot, 0, len(s.nodes))
	for _, node := range s.nodes {
		snapshot = append(snapshot, node)
	}
	return snapshot
}

func (s *Store) edgeSnapshot() ports.EdgeSnapshot {
	snapshot := make(ports.EdgeSnapshot, 0, len(s.edges))
	for _, edge := range s.edges {
		snapshot = append(snapshot, edge)
	}
	return snapshot
}

// fanOutNodes delivers the current nodes snapshot to every subscriber,
// newest snapshot wins for laggards. Callers must hold s.mu.
func (s *Store) fanOutNodes() {
	snapshot := s.nodeSnapshot()
	for _, ch := range s.nodeSubs {
		deliverNodes(ch, snapshot)
	}
}

func (s *Store) fanOutEdges() {
	snapshot := s.edgeSnapshot()
	for _, ch := range s.edgeSubs {
		deliverEdges(ch, snapshot)
	}
}

func deliverNodes(ch chan ports.NodeSnapshot, snapshot ports.NodeSnapshot) {
	select {
	case ch <- snapshot:
	default:
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot:
		default:
		}
	}
}

func deliverEdges(ch chan ports.EdgeSnapshot, snapshot ports.EdgeSnapshot) {
	select {
	case ch <- snapshot:
	default:
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot:
		default:
		}
	}
}

type nodeStore struct {
	s *Store
}

func (n nodeStore) Subscribe(ctx context.Context) (*ports.NodeSubscription, error) {
	n.s.mu.Lock()
	id := n.s.nextSub
	n.s.nextSub++
	ch := make(chan ports.NodeSnapshot, 1)
	n.s.nodeSubs[id] = ch
	ch <- n.s.nodeSnapshot()
	n.s.mu.Unlock()

	var once sync.Once
	closeFn := func() {
		once.Do(func() {
			n.s.mu.Lock()
			defer n.s.mu.Unlock()
			delete(n.s.nodeSubs, id)
			close(ch)
		})
	}

	return &ports.NodeSubscription{C: ch, Close: closeFn}, nil
}

func (n nodeStore) Write(ctx context.Context, node entities.AppNode) error {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	n.s.nodes[node.NodeID()] = node
	n.s.fanOutNodes()
	return nil
}

func (n nodeStore) Delete(ctx context.Context, id string) error {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	delete(n.s.nodes, id)
	n.s.fanOutNodes()
	return nil
}

type edgeStore struct {
	s *Store
}

func (e edgeStore) Subscribe(ctx context.Context) (*ports.EdgeSubscription, error) {
	e.s.mu.Lock()
	id := e.s.nextSub
	e.s.nextSub++
	ch := make(chan ports.EdgeSnapshot, 1)
	e.s.edgeSubs[id] = ch
	ch <- e.s.edgeSnapshot()
	e.s.mu.Unlock()

	var once sync.Once
	closeFn := func() {
		once.Do(func() {
			e.s.mu.Lock()
			defer e.s.mu.Unlock()
			delete(e.s.edgeSubs, id)
			close(ch)
		})
	}

	return &ports.EdgeSubscription{C: ch, Close: closeFn}, nil
}

func (e edgeStore) Write(ctx context.Context, edge entities.Edge) error {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	e.s.edges[edge.ID] = edge
	e.s.fanOutEdges()
	return nil
}

func (e edgeStore) Delete(ctx context.Context, id string) error {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	delete(e.s.edges, id)
	e.s.fanOutEdges()
	return nil
}
