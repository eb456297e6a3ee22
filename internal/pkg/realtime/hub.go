package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Topic identifies an observable resource. Booking and Q&A views subscribe
// to "booth:<id>" and "qna:<id>" respectively.
type Topic string

// Event is a snapshot push sent to every subscriber of a topic. Payloads
// carry the full current result set, never a delta: a subscriber that missed
// an event only needs the next one (or a resubscribe) to be consistent again.
type Event struct {
	Topic   Topic       `json:"topic"`
	Kind    string      `json:"kind"`
	Payload interface{} `json:"payload"`
	SentAt  time.Time   `json:"sentAt"`
}

// Publisher is the write side of view synchronization. Services publish a
// fresh snapshot after every committed mutation.
type Publisher interface {
	Publish(topic Topic, kind string, payload interface{})
}

// Hub maintains the set of active clients and pushes events to them
type Hub struct {
	// Registered clients organized by topic
	clients map[Topic]map[*Client]bool

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Inbound events to fan out
	events chan *Event

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	// Logger for Hub operations
	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[Topic]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan *Event, 64),
		logger:     logger,
	}
}

// Run starts the hub, handling client registrations and event fan-out
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.events:
			h.fanOut(event)
		}
	}
}

// Publish implements Publisher. It never blocks the caller: a full event
// queue drops the push, which is acceptable because every event carries the
// whole current snapshot and the next publish supersedes it.
func (h *Hub) Publish(topic Topic, kind string, payload interface{}) {
	event := &Event{
		Topic:   topic,
		Kind:    kind,
		Payload: payload,
		SentAt:  time.Now(),
	}

	select {
	case h.events <- event:
	default:
		h.logger.Warn().Str("topic", string(topic)).Msg("Event queue full, dropping snapshot push")
	}
}

// SubscriberCount returns the number of connected clients for a topic
func (h *Hub) SubscriberCount(topic Topic) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[topic])
}

// registerClient registers a new client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.topic]; !ok {
		h.clients[client.topic] = make(map[*Client]bool)
	}
	h.clients[client.topic][client] = true

	h.logger.Info().
		Str("topic", string(client.topic)).
		Int64("userID", client.userID).
		Msg("Subscriber registered")
}

// unregisterClient unregisters a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.topic]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.send)

			if len(clients) == 0 {
				delete(h.clients, client.topic)
			}

			h.logger.Info().
				Str("topic", string(client.topic)).
				Int64("userID", client.userID).
				Msg("Subscriber unregistered")
		}
	}
}

// fanOut delivers an event to every subscriber of its topic
func (h *Hub) fanOut(event *Event) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients[event.Topic]))
	for client := range h.clients[event.Topic] {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	if len(clients) == 0 {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("topic", string(event.Topic)).
			Msg("Failed to marshal event")
		return
	}

	for _, client := range clients {
		select {
		case client.send <- data:
		default:
			// A subscriber that cannot keep up is dropped; it re-syncs with
			// a full snapshot when it reconnects. Direct call, not the
			// channel: fanOut already runs on the hub goroutine.
			h.unregisterClient(client)
		}
	}

	h.logger.Debug().
		Str("topic", string(event.Topic)).
		Int("subscribers", len(clients)).
		Msg("Snapshot pushed to topic")
}
