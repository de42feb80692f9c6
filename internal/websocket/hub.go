package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/welldanyogia/mailstore/internal/models"
)

// EventType represents the type of WebSocket message
type EventType string

const (
	EventMailCreated EventType = "mail_created"
	EventMailUpdated EventType = "mail_updated"
	EventMailDeleted EventType = "mail_deleted"
	EventWatching    EventType = "watching"
	EventUnwatched   EventType = "unwatched"
	EventPong        EventType = "pong"
	EventError       EventType = "error"
)

// Event represents a WebSocket message
type Event struct {
	Type  EventType   `json:"type"`
	Mail  interface{} `json:"mail,omitempty"`
	Error string      `json:"error,omitempty"`
}

// RecordRef identifies a record without its content
type RecordRef struct {
	ID int64 `json:"id"`
}

// change is a serialized event together with the record it concerns
type change struct {
	id   int64
	data []byte
}

// Hub maintains the set of active clients and broadcasts mail changes
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan change

	// Closed when Run returns
	done chan struct{}

	mu     sync.RWMutex
	logger *slog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan change, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run starts the hub's main loop until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				client.close()
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			if h.logger != nil {
				h.logger.Debug("client registered")
			}

		case client := <-h.unregister:
			h.remove(client)
			if h.logger != nil {
				h.logger.Debug("client unregistered")
			}

		case msg := <-h.broadcast:
			h.mu.RLock()
			var slow []*Client
			for client := range h.clients {
				if !client.wants(msg.id) {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					slow = append(slow, client)
				}
			}
			h.mu.RUnlock()

			// Clients that cannot keep up are disconnected
			for _, client := range slow {
				h.remove(client)
				if h.logger != nil {
					h.logger.Warn("dropped slow websocket client")
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		client.close()
	}
}

// Register adds a client to the hub. It is a no-op once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// MailCreated broadcasts a newly stored record
func (h *Hub) MailCreated(mail *models.Mail) {
	h.publish(mail.ID, Event{Type: EventMailCreated, Mail: mail})
}

// MailUpdated broadcasts a record after update
func (h *Hub) MailUpdated(mail *models.Mail) {
	h.publish(mail.ID, Event{Type: EventMailUpdated, Mail: mail})
}

// MailDeleted broadcasts the id of a removed record
func (h *Hub) MailDeleted(id int64) {
	h.publish(id, Event{Type: EventMailDeleted, Mail: RecordRef{ID: id}})
}

// publish never blocks the caller; events are dropped when the queue is full
func (h *Hub) publish(id int64, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("failed to marshal broadcast event", slog.Any("error", err))
		}
		return
	}

	select {
	case h.broadcast <- change{id: id, data: data}:
	default:
		if h.logger != nil {
			h.logger.Warn("broadcast queue full, event dropped", slog.String("type", string(event.Type)))
		}
	}
}
