package ws

import (
	"context"
	"encoding/json"
	"sync"

	"tasklist/internal/domain"
	"tasklist/internal/logger"
)

// Hub fans task events out to the owner's open connections.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
	closed  bool
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[int64]map[*Client]struct{}),
	}
}

// Register adds c to its user's set. It reports false once the hub is closed.
func (h *Hub) Register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}

	set, ok := h.clients[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.UserID] = set
	}
	set[c] = struct{}{}
	logger.Debug("ws client registered", "user_id", c.UserID, "connections", len(set))
	return true
}

// Unregister removes c and closes its send channel. Safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if set, ok := h.clients[c.UserID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()

	c.closeSend()
}

// ConnectionCount returns how many connections userID has open.
func (h *Hub) ConnectionCount(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Publish queues msg on every connection of userID. Connections whose buffer
// is full are dropped.
func (h *Hub) Publish(userID int64, msg []byte) {
	var slow []*Client

	h.mu.RLock()
	for c := range h.clients[userID] {
		select {
		case c.Send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		logger.Warn("ws client too slow, dropping", "user_id", userID)
		h.Unregister(c)
	}
}

// TaskChanged implements service.TaskListener.
func (h *Hub) TaskChanged(ctx context.Context, ev domain.TaskEvent) {
	msg, err := json.Marshal(ev)
	if err != nil {
		logger.WithContext(ctx).Error("failed to encode task event", "error", err, "type", ev.Type)
		return
	}
	h.Publish(ev.OwnerID, msg)
}

// Close drops every connection.
func (h *Hub) Close() {
	h.mu.Lock()
	var all []*Client
	for _, set := range h.clients {
		for c := range set {
			all = append(all, c)
		}
	}
	h.clients = make(map[int64]map[*Client]struct{})
	h.closed = true
	h.mu.Unlock()

	for _, c := range all {
		c.closeSend()
	}
}
