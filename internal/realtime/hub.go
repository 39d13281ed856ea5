package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"cuetab/internal/metrics"
	"cuetab/internal/pkg/config"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const snapshotTimeout = 5 * time.Second

// SnapshotSource serves the full-state payloads behind request_update. The
// hub never touches storage itself.
type SnapshotSource interface {
	TablesSnapshot(ctx context.Context) (any, error)
	SessionsSnapshot(ctx context.Context) (any, error)
	LayoutSnapshot(ctx context.Context) (any, error)
}

// Hub tracks connected terminals and their per-resource subscriptions and
// fans lifecycle events out to them. It is plain state behind a constructor;
// callers decide how many hubs exist and where.
type Hub struct {
	cfg       config.WSConfig
	metrics   *metrics.Metrics
	snapshots SnapshotSource

	mu            sync.RWMutex
	clients       map[uuid.UUID]*Client
	subscriptions map[string]map[uuid.UUID]*Client

	stop     chan struct{}
	stopOnce sync.Once
}

func NewHub(cfg config.WSConfig, m *metrics.Metrics, snapshots SnapshotSource) *Hub {
	return &Hub{
		cfg:           cfg,
		metrics:       m,
		snapshots:     snapshots,
		clients:       make(map[uuid.UUID]*Client),
		subscriptions: make(map[string]map[uuid.UUID]*Client),
		stop:          make(chan struct{}),
	}
}

// Start launches the liveness sweep. Connections that stayed silent for a
// whole sweep period are dropped on the next one.
func (h *Hub) Start() {
	go h.sweepLoop()
}

// Stop ends the sweep and closes every connection.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })

	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.drop(c)
	}
}

// Register adopts an upgraded connection, sends the hello frame and starts
// its pumps.
func (h *Hub) Register(conn Conn) *Client {
	client := &Client{
		id:   uuid.New(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, h.cfg.SendBuffer),
		done: make(chan struct{}),
	}
	client.alive.Store(true)

	h.mu.Lock()
	h.clients[client.id] = client
	count := len(h.clients)
	h.mu.Unlock()

	h.metrics.HubConnections.WithLabelValues("connected").Inc()
	slog.Info("terminal connected", "client_id", client.id, "client_count", count)

	go client.writePump()
	go client.readPump()

	client.sendMessage(ServerMessage{
		Type:      MsgConnectionEstablished,
		ClientID:  client.id.String(),
		Timestamp: time.Now().UTC(),
	})
	return client
}

// drop disconnects a client and forgets all its subscriptions.
func (h *Hub) drop(c *Client) {
	h.mu.Lock()
	_, known := h.clients[c.id]
	if known {
		delete(h.clients, c.id)
		for resource, subs := range h.subscriptions {
			delete(subs, c.id)
			if len(subs) == 0 {
				delete(h.subscriptions, resource)
			}
		}
	}
	count := len(h.clients)
	h.mu.Unlock()

	c.close()
	_ = c.conn.Close()

	if known {
		h.metrics.HubConnections.WithLabelValues("connected").Dec()
		slog.Info("terminal disconnected", "client_id", c.id, "client_count", count)
	}
}

func (h *Hub) handleClientMessage(c *Client, raw []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return
	}
	h.metrics.HubMessages.WithLabelValues(msg.Type, "in").Inc()

	switch msg.Type {
	case MsgPing:
		c.sendMessage(ServerMessage{Type: MsgPong, Timestamp: time.Now().UTC()})

	case MsgSubscribe:
		h.handleSubscribe(c, msg.Resource)

	case MsgUnsubscribe:
		h.handleUnsubscribe(c, msg.Resource)

	case MsgRequestUpdate:
		h.handleRequestUpdate(c, msg.Resource)

	default:
		slog.Warn("unknown message type", "client_id", c.id, "type", msg.Type)
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
	}
}

func (h *Hub) handleSubscribe(c *Client, resource string) {
	if resource == "" {
		c.sendError(ErrCodeMissingResource, "Resource is required for subscription")
		return
	}

	h.mu.Lock()
	subs, ok := h.subscriptions[resource]
	if !ok {
		subs = make(map[uuid.UUID]*Client)
		h.subscriptions[resource] = subs
	}
	subs[c.id] = c
	h.mu.Unlock()

	c.sendMessage(ServerMessage{
		Type:      MsgSubscriptionConfirmed,
		Resource:  resource,
		Timestamp: time.Now().UTC(),
	})
	slog.Debug("terminal subscribed", "client_id", c.id, "resource", resource)
}

func (h *Hub) handleUnsubscribe(c *Client, resource string) {
	if resource == "" {
		c.sendError(ErrCodeMissingResource, "Resource is required for unsubscription")
		return
	}

	h.mu.Lock()
	subs, ok := h.subscriptions[resource]
	if ok {
		delete(subs, c.id)
		if len(subs) == 0 {
			delete(h.subscriptions, resource)
		}
	}
	h.mu.Unlock()

	if !ok {
		return
	}
	c.sendMessage(ServerMessage{
		Type:      MsgUnsubscribeConfirmed,
		Resource:  resource,
		Timestamp: time.Now().UTC(),
	})
}

func (h *Hub) handleRequestUpdate(c *Client, resource string) {
	if resource == "" {
		c.sendError(ErrCodeMissingResource, "Resource is required for update request")
		return
	}
	if !validResource(resource) {
		c.sendError(ErrCodeInvalidResource, "Unknown resource type")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	var (
		data any
		err  error
	)
	switch resource {
	case ResourceTables:
		data, err = h.snapshots.TablesSnapshot(ctx)
	case ResourceSessions:
		data, err = h.snapshots.SessionsSnapshot(ctx)
	case ResourceLayout:
		data, err = h.snapshots.LayoutSnapshot(ctx)
	}
	if err != nil {
		slog.Error("snapshot fetch failed", "resource", resource, "error", err.Error())
		c.sendError(ErrCodeUpdateFailed, "Failed to fetch update")
		return
	}

	c.sendMessage(ServerMessage{
		Type:      MsgUpdate,
		Resource:  resource,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

// Broadcast sends a prebuilt event to every subscriber of the resource. Slow
// subscribers are dropped rather than allowed to stall the fan-out.
func (h *Hub) Broadcast(resource string, msg ServerMessage) {
	frame, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal broadcast message", "error", err.Error())
		return
	}

	h.mu.RLock()
	subs := make([]*Client, 0, len(h.subscriptions[resource]))
	for _, c := range h.subscriptions[resource] {
		subs = append(subs, c)
	}
	h.mu.RUnlock()

	var slow []*Client
	for _, c := range subs {
		if c.enqueue(frame) {
			h.metrics.HubMessages.WithLabelValues(msg.Type, "out").Inc()
		} else {
			slow = append(slow, c)
		}
	}
	for _, c := range slow {
		slog.Warn("dropping slow subscriber", "client_id", c.id, "resource", resource)
		h.drop(c)
	}
	h.metrics.Broadcasts.WithLabelValues(msg.Type, resource).Inc()
}

// BroadcastLayoutUpdated relays a floor plan change to layout subscribers.
func (h *Hub) BroadcastLayoutUpdated(layout any) {
	h.Broadcast(ResourceLayout, ServerMessage{
		Type:      MsgLayoutUpdated,
		Layout:    layout,
		Timestamp: time.Now().UTC(),
	})
}

// Stats reports connection and subscription counts.
func (h *Hub) Stats() (clients int, subscriptions map[string]int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	subscriptions = make(map[string]int, len(h.subscriptions))
	for resource, subs := range h.subscriptions {
		subscriptions[resource] = len(subs)
	}
	return len(h.clients), subscriptions
}

func (h *Hub) sweepLoop() {
	ticker := time.NewTicker(h.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stop:
			return
		case <-ticker.C:
			h.sweep()
		}
	}
}

func (h *Hub) sweep() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if !c.alive.Swap(false) {
			slog.Info("dropping unresponsive terminal", "client_id", c.id)
			h.drop(c)
			continue
		}
		deadline := time.Now().Add(h.cfg.WriteTimeout)
		if err := c.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
			h.drop(c)
		}
	}
}
