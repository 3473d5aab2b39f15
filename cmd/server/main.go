package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fotocoach/coachd/internal/notify"
	"github.com/fotocoach/coachd/internal/relay"
	"github.com/fotocoach/coachd/internal/server"
	"github.com/fotocoach/coachd/internal/usage"
	"github.com/fotocoach/coachd/pkg/config"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Initialize counter store
	var counters usage.CounterStore
	switch cfg.Limits.Store {
	case "redis":
		logger.Info("Using Redis counter store", zap.String("addr", cfg.Redis.Addr))
		counters, err = usage.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	case "postgres":
		logger.Info("Using PostgreSQL counter store")
		counters, err = usage.NewPostgresStore(usage.PostgresConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		})
	default:
		logger.Info("Usage limits disabled (no counter store configured)")
	}
	if err != nil {
		// Fail open: the limiter treats a missing store as limits disabled.
		logger.Warn("Failed to initialize counter store, running without limits", zap.Error(err))
		counters = nil
	}
	if counters != nil {
		defer counters.Close()
	}
	limiter := usage.NewLimiter(counters, cfg.Limits.Daily, cfg.Limits.Monthly, cfg.Limits.Enabled, logger)

	// Initialize operator alerting
	var sinks []notify.Sink
	if cfg.Notify.ResendAPIKey != "" && cfg.Notify.Email != "" {
		sinks = append(sinks, notify.NewEmailSink(cfg.Notify.ResendAPIKey, cfg.Notify.Email))
	}
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != 0 {
		tg, err := notify.NewTelegramSink(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID)
		if err != nil {
			logger.Warn("Failed to initialize telegram alerts", zap.Error(err))
		} else {
			sinks = append(sinks, tg)
		}
	}
	if len(sinks) == 0 {
		logger.Info("Operator alerting not configured")
	}
	dispatcher := notify.NewDispatcher(logger, sinks...)
	defer dispatcher.Close()

	// Initialize relay
	rly := relay.New(
		cfg.OpenAI.APIKey,
		cfg.OpenAI.BaseURL,
		cfg.OpenAI.Model,
		cfg.OpenAI.MaxTokens,
		time.Duration(cfg.OpenAI.TimeoutSeconds)*time.Second,
		dispatcher,
		logger,
	)

	srv := server.New(rly, limiter, cfg.OpenAI.APIKey != "", logger)

	// Streaming responses need an unbounded write timeout.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      srv.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Server listening", zap.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
}
