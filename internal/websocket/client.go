package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 256
)

// Command is a message sent by a feed client
type Command struct {
	Type string `json:"type"`
	ID   int64  `json:"id,omitempty"`
}

// Client is one connection to the mail change feed.
// With no watched records it receives every change; otherwise only changes to watched ids.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	logger *slog.Logger

	// done is closed when the hub lets go of the client; send is never closed
	done      chan struct{}
	closeOnce sync.Once

	mu      sync.RWMutex
	watched map[int64]struct{}
}

// NewClient creates a new Client instance
func NewClient(hub *Hub, conn *websocket.Conn, logger *slog.Logger) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		logger:  logger,
		done:    make(chan struct{}),
		watched: make(map[int64]struct{}),
	}
}

// close marks the client as detached from the hub. Safe to call more than once.
func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// closed reports whether the hub has detached the client
func (c *Client) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// wants reports whether a change to record id should be delivered
func (c *Client) wants(id int64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.watched) == 0 {
		return true
	}
	_, ok := c.watched[id]
	return ok
}

func (c *Client) watch(id int64) {
	c.mu.Lock()
	c.watched[id] = struct{}{}
	c.mu.Unlock()
}

func (c *Client) unwatch(id int64) {
	c.mu.Lock()
	delete(c.watched, id)
	c.mu.Unlock()
}

// ReadPump processes client commands until the connection closes
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) && c.logger != nil {
				c.logger.Warn("websocket read error", slog.Any("error", err))
			}
			return
		}
		c.handleCommand(data)
	}
}

// WritePump delivers queued events and keeps the connection alive with pings
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleCommand(data []byte) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		c.sendError("invalid message format")
		return
	}

	switch cmd.Type {
	case "ping":
		c.sendEvent(Event{Type: EventPong})
	case "watch", "unwatch":
		if cmd.ID <= 0 {
			c.sendError("id must be a positive integer")
			return
		}
		if cmd.Type == "watch" {
			c.watch(cmd.ID)
			c.sendEvent(Event{Type: EventWatching, Mail: RecordRef{ID: cmd.ID}})
		} else {
			c.unwatch(cmd.ID)
			c.sendEvent(Event{Type: EventUnwatched, Mail: RecordRef{ID: cmd.ID}})
		}
	default:
		c.sendError("unknown message type")
	}
}

func (c *Client) sendError(msg string) {
	c.sendEvent(Event{Type: EventError, Error: msg})
}

// sendEvent queues a reply; replies are dropped when the client is backed up or detached
func (c *Client) sendEvent(event Event) {
	if c.closed() {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
