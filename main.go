package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backoffice/internal/config"
	"backoffice/internal/database"
	"backoffice/internal/repositories"
	"backoffice/internal/server"
	"backoffice/internal/services"
	"backoffice/pkg/logger"
	"backoffice/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{Env: "production"}).Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.LogLevel})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	var storage server.Storage
	if cfg.DB.Driver == "memory" {
		storage = server.MemoryStorage(repositories.NewMemoryStore())
		log.Warn().Msg("using in-memory storage; data is lost on exit")
	} else {
		db, err := database.Open(ctx, cfg.DB.Driver, cfg.DB.DSN)
		if err != nil {
			log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("failed to open database")
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		storage = server.GORMStorage(db)
	}

	// --- Events (optional) ---
	var publisher services.EventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQ.URL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Queue: cfg.RabbitMQ.Queue})
		if err != nil {
			log.Warn().Err(err).Msg("RabbitMQ unavailable; sale events disabled")
		} else {
			defer mqClient.Close()
			publisher = mqClient
			if err := mqClient.Consume(rabbitmq.AuditLog); err != nil {
				log.Warn().Err(err).Msg("failed to start audit consumer")
			}
		}
	} else {
		log.Info().Msg("RABBITMQ_URL not set; sale events disabled")
	}

	deps := server.NewDeps(cfg, storage, publisher)
	if mqClient != nil {
		deps.Events = mqClient
	}
	app := server.NewApp(deps)

	// --- Start HTTP Server ---
	go func() {
		log.Info().Str("addr", cfg.App.Port).Str("env", cfg.App.Env).Msg("starting server")
		if err := app.Listen(cfg.App.Port); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("server stopped")
}
