package ws

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// TopicAll receives every event regardless of topic.
const TopicAll = "all"

// Event is one message pushed to view clients.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Topic is the room an event goes to: the part of Type before the first dot.
func (e Event) Topic() string {
	topic, _, _ := strings.Cut(e.Type, ".")
	return topic
}

// Hub maintains the set of active clients and broadcasts events to them
type Hub struct {
	// Registered clients by topic
	rooms map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	done       chan struct{}

	logger *zap.Logger

	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run is the hub's main loop. It returns when ctx is done, closing every
// client's send channel.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for topic, clients := range h.rooms {
				for client := range clients {
					close(client.send)
				}
				delete(h.rooms, topic)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.topic] == nil {
				h.rooms[client.topic] = make(map[*Client]bool)
			}
			h.rooms[client.topic][client] = true
			h.mu.Unlock()
			h.logger.Debug("ws client registered", zap.String("client_id", client.id.String()), zap.String("topic", client.topic))

		case client := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(client)
			h.mu.Unlock()

		case event := <-h.broadcast:
			message, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("marshal ws event", zap.String("type", event.Type), zap.Error(err))
				continue
			}

			h.mu.Lock()
			topics := []string{event.Topic()}
			if topics[0] != TopicAll {
				topics = append(topics, TopicAll)
			}
			for _, topic := range topics {
				for client := range h.rooms[topic] {
					select {
					case client.send <- message:
					default:
						// Slow consumer
						h.removeLocked(client)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// removeLocked drops client and closes its send channel. Caller holds h.mu.
func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.rooms[client.topic]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.rooms, client.topic)
	}
}

// Broadcast queues event for delivery. The event is dropped when the queue
// is full.
func (h *Hub) Broadcast(event Event) {
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("ws broadcast queue full, dropping event", zap.String("type", event.Type))
	}
}

// Publish encodes payload and broadcasts it. Satisfies store.Publisher.
func (h *Hub) Publish(eventType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("encode ws payload", zap.String("type", eventType), zap.Error(err))
		return
	}
	h.Broadcast(Event{Type: eventType, Payload: raw})
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, clients := range h.rooms {
		n += len(clients)
	}
	return n
}
