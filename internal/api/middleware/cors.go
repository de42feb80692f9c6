package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// DefaultOrigin is allowed when no origins are configured
const DefaultOrigin = "http://localhost:3000"

// SecureCORS returns CORS middleware restricted to the given origins.
// The wildcard origin is dropped in production.
func SecureCORS(origins []string, production bool) echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  AllowedOrigins(origins, production),
		AllowMethods:  []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID},
		ExposeHeaders: []string{echo.HeaderXRequestID},
		MaxAge:        300,
	})
}

// AllowedOrigins normalizes the configured origins, falling back to DefaultOrigin
func AllowedOrigins(origins []string, production bool) []string {
	filtered := make([]string, 0, len(origins))
	for _, origin := range origins {
		if origin == "" || (production && origin == "*") {
			continue
		}
		filtered = append(filtered, origin)
	}
	if len(filtered) == 0 {
		return []string{DefaultOrigin}
	}
	return filtered
}
