package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"backtrace-backend/application/engine"
	"backtrace-backend/domain/core/valueobjects"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024

	// Send buffer size
	sendBufferSize = 256

	// inboundTimeout bounds engine work triggered by a single message
	inboundTimeout = 10 * time.Second
)

// Inbound event types from the rendering layer
const (
	EventNodeDragStop    = "node_drag_stop"
	EventConnect         = "connect"
	EventDeleteSelection = "delete_selection"
)

// inboundMessage is the wire shape of client-to-server events
type inboundMessage struct {
	Type    string   `json:"type"`
	NodeID  string   `json:"nodeId,omitempty"`
	X       float64  `json:"x,omitempty"`
	Y       float64  `json:"y,omitempty"`
	Source  string   `json:"source,omitempty"`
	Target  string   `json:"target,omitempty"`
	NodeIDs []string `json:"nodeIds,omitempty"`
}

// Client represents a WebSocket client connection
type Client struct {
	id     string
	hub    *Hub
	conn   *websocket.Conn
	engine *engine.Engine
	send   chan []byte
	logger *zap.Logger
}

// NewClient creates a new WebSocket client
func NewClient(hub *Hub, conn *websocket.Conn, eng *engine.Engine, logger *zap.Logger) *Client {
	id := uuid.New().String()
	return &Client{
		id:     id,
		hub:    hub,
		conn:   conn,
		engine: eng,
		send:   make(chan []byte, sendBufferSize),
		logger: logger.With(zap.String("connectionID", id)),
	}
}

// Start begins the client's read and write pumps
func (c *Client) Start() {
	c.hub.register <- c

	go c.writePump()
	go c.readPump()

	c.sendCurrentGraph()
}

// readPump pumps messages from the WebSocket connection to the engine
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
		c.logger.Info("Read pump stopped")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket read error", zap.Error(err))
			}
			break
		}

		switch messageType {
		case websocket.TextMessage:
			c.handleTextMessage(message)
		case websocket.BinaryMessage:
			c.logger.Warn("Binary messages not supported")
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.logger.Info("Write pump stopped")
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
				return
			}

			// Drain queued messages into the same write window
			n := len(c.send)
			for i := 0; i < n; i++ {
				if err := c.conn.WriteMessage(websocket.TextMessage, <-c.send); err != nil {
					c.logger.Error("Failed to write batched message", zap.Error(err))
					return
				}
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Error("Failed to send ping", zap.Error(err))
				return
			}
		}
	}
}

// handleTextMessage dispatches rendering-layer events to the engine
func (c *Client) handleTextMessage(message []byte) {
	message = bytes.TrimSpace(message)

	var msg inboundMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.logger.Warn("Undecodable client message", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), inboundTimeout)
	defer cancel()

	switch msg.Type {
	case EventNodeDragStop:
		if err := c.engine.UpdateNodePosition(ctx, msg.NodeID, valueobjects.NewPosition(msg.X, msg.Y)); err != nil {
			c.logger.Warn("Position update failed",
				zap.String("nodeID", msg.NodeID),
				zap.Error(err),
			)
		}

	case EventConnect:
		if _, err := c.engine.ConnectExisting(ctx, msg.Source, msg.Target); err != nil {
			c.logger.Warn("Connect failed",
				zap.String("source", msg.Source),
				zap.String("target", msg.Target),
				zap.Error(err),
			)
		}

	case EventDeleteSelection:
		c.engine.HandleDeleteKey(ctx, msg.NodeIDs)

	default:
		c.logger.Debug("Unhandled client message", zap.String("type", msg.Type))
	}
}

// sendCurrentGraph pushes the current projection so a new client renders
// immediately instead of waiting for the next mutation
func (c *Client) sendCurrentGraph() {
	data, err := json.Marshal(c.engine.Snapshot())
	if err != nil {
		c.logger.Error("Failed to marshal graph snapshot", zap.Error(err))
		return
	}

	payload, err := json.Marshal(Envelope{
		Type:      MessageGraphUpdated,
		Data:      data,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		c.logger.Error("Failed to marshal envelope", zap.Error(err))
		return
	}

	select {
	case c.send <- payload:
	default:
		c.logger.Error("Failed to send initial graph snapshot")
	}
}

// ID returns the client's connection ID
func (c *Client) ID() string {
	return c.id
}
