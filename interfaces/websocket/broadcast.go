package websocket

import (
	"context"

	"backtrace-backend/application/engine"

	"go.uber.org/zap"
)

// MessageGraphUpdated is the outbound message type carrying a full
// render projection
const MessageGraphUpdated = "GRAPH_UPDATED"

// Broadcaster bridges the engine's projection stream onto the hub
type Broadcaster struct {
	engine *engine.Engine
	hub    *Hub
	logger *zap.Logger
}

// NewBroadcaster creates a new projection broadcaster
func NewBroadcaster(eng *engine.Engine, hub *Hub, logger *zap.Logger) *Broadcaster {
	return &Broadcaster{engine: eng, hub: hub, logger: logger}
}

// Run forwards every projection update to all connected clients until
// the context ends. The engine's subscription is latest-wins, so a slow
// hub only ever skips intermediate frames, never reorders them.
func (b *Broadcaster) Run(ctx context.Context) {
	updates, cancel := b.engine.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case snapshot, ok := <-updates:
			if !ok {
				return
			}
			if err := b.hub.Broadcast(MessageGraphUpdated, snapshot); err != nil {
				b.logger.Warn("Graph broadcast failed", zap.Error(err))
			}
		}
	}
}
