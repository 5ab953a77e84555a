package engine

// RenderSnapshot is the render-ready view of the graph handed to the
// rendering layer: every node with its merged position, plus the edge list.
// The layer's per-node affordances (add connected question/resource,
// delete, update level) come back through the engine's operations rather
// than travelling with the snapshot.
type RenderSnapshot struct {
	Nodes []RenderNode `json:"nodes"`
	Edges []RenderEdge `json:"edges"`
}

// RenderNode wraps a projected node for rendering. The payload marshals
// flat, discriminated by its nodeType field; Position is always present
// after projection.
type RenderNode struct {
	ID   string      `json:"id"`
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// RenderEdge mirrors the stored edge shape
type RenderEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type,omitempty"`
}

// Snapshot returns the current render-ready projection
func (e *Engine) Snapshot() RenderSnapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	snap := RenderSnapshot{
		Nodes: make([]RenderNode, 0, len(e.nodeOrder)),
		Edges: make([]RenderEdge, 0, len(e.edges)),
	}

	for _, id := range e.nodeOrder {
		node, ok := e.nodes[id]
		if !ok {
			continue
		}
		snap.Nodes = append(snap.Nodes, RenderNode{
			ID:   node.NodeID(),
			Type: string(node.Kind()),
			Data: node,
		})
	}

	for _, edge := range e.edges {
		snap.Edges = append(snap.Edges, RenderEdge{
			ID:     edge.ID,
			Source: edge.Source,
			Target: edge.Target,
			Type:   edge.Type,
		})
	}

	return snap
}

// Subscribe registers a render observer. The returned channel carries the
// latest projection after every change, newest snapshot wins when the
// observer lags. Cancel deregisters the observer and closes the channel.
func (e *Engine) Subscribe() (<-chan RenderSnapshot, func()) {
	e.observerMu.Lock()
	id := e.nextObserver
	e.nextObserver++
	ch := make(chan RenderSnapshot, 1)
	e.observers[id] = ch
	e.observerMu.Unlock()

	// Seed with the current state so late subscribers render immediately
	ch <- e.Snapshot()

	cancel := func() {
		e.observerMu.Lock()
		defer e.observerMu.Unlock()
		if existing, ok := e.observers[id]; ok {
			delete(e.observers, id)
			close(existing)
		}
	}

	return ch, cancel
}

// broadcast pushes the current projection to every observer without
// blocking on slow consumers
func (e *Engine) broadcast() {
	snap := e.Snapshot()

	e.observerMu.Lock()
	defer e.observerMu.Unlock()

	for _, ch := range e.observers {
		select {
		case ch <- snap:
		default:
			// Drop the stale snapshot and replace it with the fresh one
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
