// Package realtime implements the websocket notification channel: an
// in-memory hub of rooms keyed by club id, with best-effort fan-out of
// notifications to subscribed connections.
package realtime

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/campus360/portal-api/internal/models"
)

// Broadcaster is the emission contract write-paths depend on. Delivery
// is fire-and-forget: an empty room is a no-op, and no delivery failure
// ever reaches the caller.
type Broadcaster interface {
	EmitToRoom(roomID string, n models.Notification)
	EmitToAll(n models.Notification)
}

// Metrics receives hub lifecycle observations. Implemented by the
// metrics service; a nil Metrics disables instrumentation.
type Metrics interface {
	SocketOpened()
	SocketClosed()
	NotificationEmitted(target string)
}

// Hub tracks connected clients and their room subscriptions. All state
// lives in process memory: a disconnect discards the connection's rooms,
// and a reconnecting client must resend its room list.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}

	logger  *zap.Logger
	metrics Metrics
}

// NewHub constructs an empty hub.
func NewHub(logger *zap.Logger, metrics Metrics) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[*Client]struct{}),
		rooms:   make(map[string]map[*Client]struct{}),
		logger:  logger,
		metrics: metrics,
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.SocketOpened()
	}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	for room, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	close(c.send)
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.SocketClosed()
	}
}

// joinRooms subscribes the client to one room per id. Joining a room the
// client is already in is a no-op, so resending the list is harmless.
func (h *Hub) joinRooms(c *Client, roomIDs []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	for _, id := range roomIDs {
		if id == "" {
			continue
		}
		members, ok := h.rooms[id]
		if !ok {
			members = make(map[*Client]struct{})
			h.rooms[id] = members
		}
		members[c] = struct{}{}
	}
}

// EmitToRoom pushes a notification to every connection subscribed to the
// room. Nobody listening means nothing happens.
func (h *Hub) EmitToRoom(roomID string, n models.Notification) {
	payload, err := marshalNotification(n)
	if err != nil {
		h.logger.Warn("failed to encode notification", zap.Error(err))
		return
	}

	h.mu.RLock()
	for c := range h.rooms[roomID] {
		c.enqueue(payload)
	}
	h.mu.RUnlock()

	if h.metrics != nil {
		h.metrics.NotificationEmitted("room")
	}
}

// EmitToAll pushes a notification to every connected client regardless
// of room subscriptions.
func (h *Hub) EmitToAll(n models.Notification) {
	payload, err := marshalNotification(n)
	if err != nil {
		h.logger.Warn("failed to encode notification", zap.Error(err))
		return
	}

	h.mu.RLock()
	for c := range h.clients {
		c.enqueue(payload)
	}
	h.mu.RUnlock()

	if h.metrics != nil {
		h.metrics.NotificationEmitted("all")
	}
}

// RoomSize reports how many connections a room currently holds.
func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// ClientCount reports how many connections are registered.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// serverMessage is the envelope pushed to clients.
type serverMessage struct {
	Event string              `json:"event"`
	Data  models.Notification `json:"data"`
}

func marshalNotification(n models.Notification) ([]byte, error) {
	return json.Marshal(serverMessage{Event: "notification", Data: n})
}
