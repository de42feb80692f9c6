package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether the database is reachable; *sql.DB satisfies it
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ClientCounter reports connected change feed clients
type ClientCounter interface {
	ClientCount() int
}

// HealthHandler handles health check HTTP requests
type HealthHandler struct {
	db  Pinger
	hub ClientCounter
}

// NewHealthHandler creates a new HealthHandler. hub may be nil.
func NewHealthHandler(db Pinger, hub ClientCounter) *HealthHandler {
	return &HealthHandler{db: db, hub: hub}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status           string            `json:"status"`
	Services         map[string]string `json:"services"`
	WebSocketClients *int              `json:"websocket_clients,omitempty"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c echo.Context) error {
	resp := HealthResponse{
		Status:   "healthy",
		Services: map[string]string{"database": "healthy"},
	}

	if err := h.db.PingContext(c.Request().Context()); err != nil {
		resp.Status = "unhealthy"
		resp.Services["database"] = "unhealthy"
	}

	if h.hub != nil {
		count := h.hub.ClientCount()
		resp.WebSocketClients = &count
	}

	statusCode := http.StatusOK
	if resp.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	return c.JSON(statusCode, resp)
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c echo.Context) error {
	if err := h.db.PingContext(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "database ping failed",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
	})
}
