// Package realtime fans ledger events out to websocket clients subscribed to
// group channels. Delivery is best-effort, at-most-once: a failed write is
// logged and counted, the connection is dropped, and the caller never sees
// the failure. Offline clients catch up through the read path.
package realtime

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hisab-io/hisab/internal/metrics"
)

// Event is the kind tag of a broadcast ledger mutation.
type Event string

const (
	EventExpenseAdded      Event = "expenseAdded"
	EventExpenseUpdated    Event = "expenseUpdated"
	EventExpenseDeleted    Event = "expenseDeleted"
	EventSettlementAdded   Event = "settlementAdded"
	EventSettlementDeleted Event = "settlementDeleted"
)

// Message is the wire envelope pushed to subscribed clients.
type Message struct {
	Event Event       `json:"event"`
	Data  interface{} `json:"data"`
}

const writeTimeout = 5 * time.Second

// Client wraps one websocket connection with its identity.
// Writes are serialized per connection.
type Client struct {
	UserID string

	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *Client) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(v)
}

// Ping sends a control ping to keep the connection alive.
func (c *Client) Ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(time.Second))
}

// Hub is the connection <-> group subscription registry.
// Channels are per group so a mutation's blast radius is exactly the set of
// clients watching that group.
type Hub struct {
	mu      sync.RWMutex
	groups  map[string]map[*Client]struct{}
	clients map[*Client]map[string]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		groups:  make(map[string]map[*Client]struct{}),
		clients: make(map[*Client]map[string]struct{}),
	}
}

// Register wraps a new connection and tracks it.
func (h *Hub) Register(conn *websocket.Conn, userID string) *Client {
	c := &Client{UserID: userID, conn: conn}

	h.mu.Lock()
	h.clients[c] = make(map[string]struct{})
	h.mu.Unlock()

	metrics.WSConnections.Inc()
	slog.Debug("WS connected", "user_id", userID)
	return c
}

// Unregister drops a connection and all its subscriptions. It is idempotent:
// the broadcast failure path and the read loop's deferred cleanup may both
// call it for the same connection, but the side effects run once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	subs, ok := h.clients[c]
	if !ok {
		h.mu.Unlock()
		return
	}
	for groupID := range subs {
		h.removeFromGroup(c, groupID)
	}
	delete(h.clients, c)
	h.mu.Unlock()

	c.conn.Close()
	metrics.WSConnections.Dec()
	slog.Debug("WS disconnected", "user_id", c.UserID)
}

// Join subscribes the client to a group channel.
func (h *Hub) Join(c *Client, groupID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return // already unregistered
	}
	if _, ok := h.groups[groupID]; !ok {
		h.groups[groupID] = make(map[*Client]struct{})
	}
	h.groups[groupID][c] = struct{}{}
	h.clients[c][groupID] = struct{}{}
}

// Leave unsubscribes the client from a group channel.
func (h *Hub) Leave(c *Client, groupID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeFromGroup(c, groupID)
	if subs, ok := h.clients[c]; ok {
		delete(subs, groupID)
	}
}

// removeFromGroup must be called with h.mu held.
func (h *Hub) removeFromGroup(c *Client, groupID string) {
	if members, ok := h.groups[groupID]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.groups, groupID)
		}
	}
}

// Broadcast pushes an event to every client subscribed to the group channel.
// Failed writes are logged and the connection dropped; the error never
// propagates to the caller, so a broadcast failure cannot fail a write.
func (h *Hub) Broadcast(groupID string, event Event, payload interface{}) {
	msg := Message{Event: event, Data: payload}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.groups[groupID]))
	for c := range h.groups[groupID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	metrics.Broadcasts.WithLabelValues(string(event)).Inc()

	for _, c := range targets {
		if err := c.writeJSON(msg); err != nil {
			slog.Warn("WS broadcast failed, dropping connection",
				"group_id", groupID,
				"event", string(event),
				"user_id", c.UserID,
				"error", err,
			)
			metrics.BroadcastErrors.Inc()
			go h.Unregister(c)
		}
	}
}

// Heartbeat pings all connections every interval until stop is closed.
// Connections that fail the ping are dropped.
func (h *Hub) Heartbeat(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients))
			for c := range h.clients {
				clients = append(clients, c)
			}
			h.mu.RUnlock()

			for _, c := range clients {
				if err := c.Ping(); err != nil {
					go h.Unregister(c)
				}
			}
		}
	}
}
