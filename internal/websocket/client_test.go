package websocket

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewClient_CreatesClient(t *testing.T) {
	hub := NewHub(nil)
	client := NewClient(hub, nil, nil)

	assert.NotNil(t, client)
	assert.Equal(t, hub, client.hub)
	assert.Equal(t, 256, cap(client.send))
}

func TestClient_HandleCommand_AnswersPing(t *testing.T) {
	client := NewClient(NewHub(nil), nil, nil)

	client.handleCommand([]byte(`{"type":"ping"}`))

	assert.Equal(t, EventPong, receiveEvent(t, client).Type)
}

func TestClient_HandleCommand_SendsErrorForInvalidJSON(t *testing.T) {
	client := NewClient(NewHub(nil), nil, nil)

	client.handleCommand([]byte(`not json`))

	event := receiveEvent(t, client)
	assert.Equal(t, EventError, event.Type)
	assert.Equal(t, "invalid message format", event.Error)
}

func TestClient_HandleCommand_SendsErrorForUnknownType(t *testing.T) {
	client := NewClient(NewHub(nil), nil, nil)

	client.handleCommand([]byte(`{"type":"subscribe"}`))

	event := receiveEvent(t, client)
	assert.Equal(t, EventError, event.Type)
	assert.Equal(t, "unknown message type", event.Error)
}

func TestClient_HandleCommand_WatchAndUnwatch(t *testing.T) {
	client := NewClient(NewHub(nil), nil, nil)
	assert.True(t, client.wants(9))

	client.handleCommand([]byte(`{"type":"watch","id":5}`))
	event := receiveEvent(t, client)
	assert.Equal(t, EventWatching, event.Type)
	assert.Equal(t, map[string]interface{}{"id": float64(5)}, event.Mail)
	assert.True(t, client.wants(5))
	assert.False(t, client.wants(9))

	client.handleCommand([]byte(`{"type":"unwatch","id":5}`))
	assert.Equal(t, EventUnwatched, receiveEvent(t, client).Type)
	assert.True(t, client.wants(9))
}

func TestClient_HandleCommand_RejectsNonPositiveID(t *testing.T) {
	client := NewClient(NewHub(nil), nil, nil)

	client.handleCommand([]byte(`{"type":"watch","id":0}`))

	event := receiveEvent(t, client)
	assert.Equal(t, EventError, event.Type)
	assert.Equal(t, "id must be a positive integer", event.Error)
	assert.True(t, client.wants(1))
}

func TestClient_SendEvent_SkipsWhenBufferFull(t *testing.T) {
	client := &Client{send: make(chan []byte, 1)}

	client.sendError("first")
	client.sendError("second")

	assert.Len(t, client.send, 1)
}

func TestNewSecureUpgrader_CheckOrigin(t *testing.T) {
	upgrader := NewSecureUpgrader([]string{"http://localhost:3000", "https://app.example.com"}, slog.Default())

	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{"allowed", "http://localhost:3000", true},
		{"second allowed", "https://app.example.com", true},
		{"no origin", "", true},
		{"disallowed", "http://malicious.com", false},
		{"case sensitive", "HTTP://LOCALHOST:3000", false},
		{"with path", "http://localhost:3000/path", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, upgrader.CheckOrigin(req))
		})
	}
}

func TestNewSecureUpgrader_Wildcard(t *testing.T) {
	upgrader := NewSecureUpgrader([]string{"*"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Origin", "http://anything.example")

	assert.True(t, upgrader.CheckOrigin(req))
	assert.Equal(t, 1024, upgrader.ReadBufferSize)
}
