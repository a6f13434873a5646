package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/collabsphere/internal/api"
	"github.com/lalith-99/collabsphere/internal/config"
	"github.com/lalith-99/collabsphere/internal/db"
	"github.com/lalith-99/collabsphere/internal/observ"
	"github.com/lalith-99/collabsphere/internal/repository"
	"github.com/lalith-99/collabsphere/internal/repository/badgerdb"
	"github.com/lalith-99/collabsphere/internal/repository/memory"
	"github.com/lalith-99/collabsphere/internal/repository/postgres"
	"github.com/lalith-99/collabsphere/internal/repository/redis"
	"github.com/lalith-99/collabsphere/internal/seed"
	"github.com/lalith-99/collabsphere/internal/session"
	"go.uber.org/zap"
)

const (
	shutdownTimeout = 10 * time.Second
	janitorInterval = time.Minute
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slot, health, closeSlot, err := openSlot(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open identity slot: %w", err)
	}
	defer closeSlot()

	data, err := seed.Load()
	if err != nil {
		return fmt.Errorf("load seed data: %w", err)
	}

	registry := session.NewRegistry(session.RegistryConfig{
		Slot:        slot,
		Seed:        data,
		Prefix:      cfg.SlotPrefix,
		AuthDelay:   cfg.AuthDelay,
		IdleTimeout: cfg.SessionIdleTimeout,
		Logger:      logger,
	})
	go registry.RunJanitor(ctx, janitorInterval)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.RouterConfig{
		Sessions:   registry,
		JWTSecret:  cfg.JWTSecret,
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
		Health:     health,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting CollabSphere",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.Env),
			zap.String("slot_backend", cfg.SlotBackend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openSlot connects the configured identity slot backend and returns it with
// a health probe and a close func.
func openSlot(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.IdentitySlot, func(context.Context) error, func(), error) {
	switch cfg.SlotBackend {
	case config.SlotBadger:
		bdb, err := badgerdb.Open(cfg.BadgerPath)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("identity slot on badger", zap.String("path", cfg.BadgerPath))
		return badgerdb.NewIdentityStore(bdb), nil, func() { _ = bdb.Close() }, nil

	case config.SlotRedis:
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("identity slot on redis")
		health := func(ctx context.Context) error { return client.Ping(ctx).Err() }
		return redis.NewIdentityStore(client), health, func() { _ = client.Close() }, nil

	case config.SlotPostgres:
		database, err := db.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, nil, nil, err
		}
		return postgres.NewIdentityStore(database.Pool()), database.Health, database.Close, nil

	default:
		logger.Info("identity slot in memory; identities are lost on restart")
		return memory.NewIdentityStore(), nil, func() {}, nil
	}
}
