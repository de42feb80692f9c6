package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/joho/godotenv"
	"github.com/welldanyogia/mailstore/internal/api"
	"github.com/welldanyogia/mailstore/internal/config"
	"github.com/welldanyogia/mailstore/internal/database"
	"github.com/welldanyogia/mailstore/internal/logger"
	"github.com/welldanyogia/mailstore/internal/repository"
	mailsmtp "github.com/welldanyogia/mailstore/internal/smtp"
	"github.com/welldanyogia/mailstore/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; the environment wins either way
	_ = godotenv.Load()

	cfg, err := config.LoadWithValidation()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.New(cfg.SlogLevel())
	slog.SetDefault(log)

	slog.Info("Starting mailstore server...")
	cfg.LogConfig(log)

	db, err := database.Connect(database.Options{
		Driver:       cfg.DatabaseDriver,
		DSN:          cfg.DatabaseURL,
		Production:   cfg.IsProduction(),
		MaxIdleConns: cfg.DBMaxIdleConns,
		MaxOpenConns: cfg.DBMaxOpenConns,
		LogLevel:     logger.GormLevel(cfg.SlogLevel()),
	})
	if err != nil {
		return err
	}
	defer database.Close(db)

	if cfg.DBAutoMigrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := websocket.NewHub(log)
	go hub.Run(ctx)

	e, err := api.NewRouter(&api.RouterConfig{
		DB:             db,
		Logger:         log,
		Hub:            hub,
		AllowedOrigins: cfg.Origins(),
		Production:     cfg.IsProduction(),
		StrictMethods:  cfg.StrictMethodCheck,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 2)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.APIPort)
		slog.Info("HTTP server listening", slog.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var smtpServer *smtp.Server
	if cfg.SMTPEnabled {
		backend := mailsmtp.NewBackend(&mailsmtp.BackendConfig{
			Repo:     repository.NewMailRepository(db),
			Notifier: hub,
			Logger:   log,
		})
		smtpServer = mailsmtp.NewSecureServer(backend, &mailsmtp.ServerConfig{
			Addr:           fmt.Sprintf(":%d", cfg.SMTPPort),
			Domain:         cfg.SMTPDomain,
			MaxMessageSize: cfg.SMTPMaxMessageSize,
		})

		go func() {
			slog.Info("SMTP server listening", slog.String("addr", smtpServer.Addr))
			if err := smtpServer.ListenAndServe(); err != nil && !errors.Is(err, smtp.ErrServerClosed) {
				errCh <- fmt.Errorf("smtp server: %w", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-quit:
		slog.Info("Shutting down server...", slog.String("signal", sig.String()))
	case runErr = <-errCh:
		slog.Error("Server failed, shutting down", slog.String("error", runErr.Error()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown failed", slog.String("error", err.Error()))
	}
	if smtpServer != nil {
		if err := smtpServer.Close(); err != nil {
			slog.Error("SMTP close failed", slog.String("error", err.Error()))
		}
	}
	cancel()

	slog.Info("Server stopped")
	return runErr
}
