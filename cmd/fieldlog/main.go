package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/meridianbio/fieldlog/internal/agent"
	"github.com/meridianbio/fieldlog/internal/api"
	"github.com/meridianbio/fieldlog/internal/config"
	"github.com/meridianbio/fieldlog/internal/events"
	"github.com/meridianbio/fieldlog/internal/llm"
	"github.com/meridianbio/fieldlog/internal/store"
)

func main() {
	// Local development convenience; in deployment the env is set directly.
	_ = godotenv.Load()

	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("fieldlog starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.EnsureSchema(ctx); err != nil {
		slog.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}
	slog.Info("database connected")

	// Model client
	if cfg.GroqAPIKey == "" {
		slog.Error("GROQ_API_KEY is required")
		os.Exit(1)
	}
	model := llm.NewGroqClient(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.Model)
	slog.Info("model client ready", "model", cfg.Model)

	// NATS (optional — fieldlog works without eventing)
	var announce agent.Announcer
	var publisher *events.Publisher
	if cfg.NatsURL != "" {
		publisher, err = events.NewPublisher(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		announce = publisher
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS not configured — running without eventing")
	}

	// Chat orchestrator
	timeout := time.Duration(cfg.ChatTimeoutSeconds) * time.Second
	orchestrator := agent.New(db, model, announce, slog.Default(), timeout)

	// HTTP API
	srv := api.NewServer(cfg.Port, db, orchestrator, announce)
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	// Announce registration
	if publisher != nil {
		if err := publisher.Publish(events.SubjectServiceRegistered, map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"port":      cfg.Port,
			"model":     cfg.Model,
		}); err != nil {
			slog.Warn("failed to publish registration", "error", err)
		}
	}

	slog.Info("fieldlog ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("fieldlog stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
