package realtime

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/tsunagu-circle/backend/internal/registrations"
)

const (
	// PingInterval and PongWait are used for heartbeat, in seconds.
	PingInterval = 30
	PongWait     = 60
)

// EventAvailability is the message event carrying an availability snapshot.
const EventAvailability = "availability"

// Hub maintains event_id -> set of connections and broadcasts availability
// snapshots to everyone watching an event page. Uses Redis pub/sub for
// horizontal scaling: local broadcast + publish to Redis.
type Hub struct {
	// eventID -> map[clientID]*Client
	rooms  map[int64]map[string]*Client
	subs   map[int64]func() // cancel Redis subscription per event
	mu     sync.RWMutex
	logger *zap.Logger
	pub    Publisher
	sub    Subscriber
}

// Publisher publishes to Redis for cross-instance broadcast.
type Publisher interface {
	PublishEventMessage(eventID int64, event string, payload []byte) error
}

// Subscriber subscribes to event channels and invokes handler for incoming
// messages.
type Subscriber interface {
	SubscribeEvent(eventID int64, handler func(event string, payload []byte)) (cancel func(), err error)
}

// NewHub creates a new WebSocket hub. pub and sub may be nil for a
// single-instance deployment.
func NewHub(logger *zap.Logger, pub Publisher, sub Subscriber) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		rooms:  make(map[int64]map[string]*Client),
		subs:   make(map[int64]func()),
		logger: logger,
		pub:    pub,
		sub:    sub,
	}
}

// Register adds a client to an event room. Starts the Redis subscription for
// this event if it is the first client.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.rooms[c.EventID] == nil {
		h.rooms[c.EventID] = make(map[string]*Client)
		if h.sub != nil {
			cancel, err := h.sub.SubscribeEvent(c.EventID, func(event string, payload []byte) {
				h.Broadcast(c.EventID, event, json.RawMessage(payload))
			})
			if err == nil {
				h.subs[c.EventID] = cancel
			}
		}
	}
	h.rooms[c.EventID][c.ID] = c
	h.mu.Unlock()
	h.logger.Debug("viewer joined event feed",
		zap.String("client_id", c.ID), zap.Int64("event_id", c.EventID))
}

// Unregister removes a client from its event room. Cancels the Redis
// subscription when the last client leaves.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if m, ok := h.rooms[c.EventID]; ok {
		delete(m, c.ID)
		if len(m) == 0 {
			delete(h.rooms, c.EventID)
			if cancel, ok := h.subs[c.EventID]; ok {
				cancel()
				delete(h.subs, c.EventID)
			}
		}
	}
	h.mu.Unlock()
	h.logger.Debug("viewer left event feed",
		zap.String("client_id", c.ID), zap.Int64("event_id", c.EventID))
}

// Broadcast sends a message to all clients watching an event (local only).
func (h *Hub) Broadcast(eventID int64, event string, payload interface{}) {
	var data []byte
	switch v := payload.(type) {
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		data, _ = json.Marshal(payload)
	}
	msg := WSMessage{Event: event, Data: data}

	h.mu.RLock()
	clients := h.rooms[eventID]
	h.mu.RUnlock()

	if clients == nil {
		return
	}
	for _, c := range clients {
		select {
		case c.send <- msg:
		default:
			// buffer full, skip
		}
	}
}

// BroadcastAndPublish sends to local clients and publishes to Redis for other
// instances.
func (h *Hub) BroadcastAndPublish(eventID int64, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.Broadcast(eventID, event, payload)
	if h.pub != nil {
		_ = h.pub.PublishEventMessage(eventID, event, data)
	}
}

// AvailabilityChanged pushes a fresh availability snapshot to every viewer of
// the event. Implements the registration workflow's notifier.
func (h *Hub) AvailabilityChanged(eventID int64, a registrations.Availability) {
	h.BroadcastAndPublish(eventID, EventAvailability, a)
}

// SendToClient sends a message to a single client in an event room.
func (h *Hub) SendToClient(eventID int64, clientID string, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	msg := WSMessage{Event: event, Data: data}
	h.mu.RLock()
	c, ok := h.rooms[eventID][clientID]
	h.mu.RUnlock()
	if !ok || c == nil {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

// ViewerCount returns the number of connected clients watching an event.
func (h *Hub) ViewerCount(eventID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[eventID])
}
