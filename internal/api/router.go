package api

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/welldanyogia/mailstore/internal/api/handlers"
	"github.com/welldanyogia/mailstore/internal/api/middleware"
	"github.com/welldanyogia/mailstore/internal/api/response"
	"github.com/welldanyogia/mailstore/internal/repository"
	"github.com/welldanyogia/mailstore/internal/websocket"
	"gorm.io/gorm"
)

// DefaultBodyLimit caps request bodies on the mail routes
const DefaultBodyLimit = "1M"

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterConfig holds dependencies for the router
type RouterConfig struct {
	DB *gorm.DB
	// Pinger overrides the connection check; defaults to the pool behind DB
	Pinger Pinger
	Logger *slog.Logger
	// Hub is optional; without it /ws is not served
	Hub            *websocket.Hub
	AllowedOrigins []string
	Production     bool
	StrictMethods  bool
}

// NewRouter creates and configures the Echo router with all routes
func NewRouter(cfg *RouterConfig) (*echo.Echo, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	pinger := cfg.Pinger
	if pinger == nil {
		sqlDB, err := cfg.DB.DB()
		if err != nil {
			return nil, err
		}
		pinger = sqlDB
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = response.HTTPErrorHandler(logger)

	origins := middleware.AllowedOrigins(cfg.AllowedOrigins, cfg.Production)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.SecureHeaders())
	e.Use(middleware.SecureCORS(origins, cfg.Production))
	e.Use(middleware.RequestLogger(logger))

	mailRepo := repository.NewMailRepository(cfg.DB)

	var notifier handlers.Notifier
	var counter handlers.ClientCounter
	if cfg.Hub != nil {
		notifier = cfg.Hub
		counter = cfg.Hub
	}

	healthHandler := handlers.NewHealthHandler(pinger, counter)
	mailHandler := handlers.NewMailHandler(handlers.MailHandlerConfig{
		Repo:          mailRepo,
		Notifier:      notifier,
		Logger:        logger,
		StrictMethods: cfg.StrictMethods,
	})

	e.GET("/health", healthHandler.Health)
	e.GET("/ready", healthHandler.Ready)

	if cfg.Hub != nil {
		wsHandler := handlers.NewWebSocketHandler(cfg.Hub, origins, logger)
		e.GET("/ws", wsHandler.Serve)
	}

	// Invalid ids are rejected before the connection check
	mail := e.Group("/mail",
		echomw.BodyLimit(DefaultBodyLimit),
		middleware.RequireDatabaseWithConfig(middleware.RequireDatabaseConfig{
			Skipper: handlers.InvalidItemID,
			Pinger:  pinger,
			Logger:  logger,
		}),
	)
	mail.Any("", mailHandler.Collection)
	mail.Any("/*", mailHandler.Item)

	// Methods outside Any's list land here; the handlers answer them like any unsupported method
	mail.RouteNotFound("", mailHandler.Collection)
	mail.RouteNotFound("/*", mailHandler.Item)

	return e, nil
}
