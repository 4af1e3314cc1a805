package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/deficit-slayer/internal/config"
	"github.com/jwebster45206/deficit-slayer/internal/game"
	"github.com/jwebster45206/deficit-slayer/internal/handlers"
	"github.com/jwebster45206/deficit-slayer/internal/logger"
	"github.com/jwebster45206/deficit-slayer/internal/middleware"
	"github.com/jwebster45206/deficit-slayer/internal/services/events"
	"github.com/jwebster45206/deficit-slayer/internal/storage"
	"github.com/jwebster45206/deficit-slayer/pkg/roster"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Deficit Slayer API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"storage_driver", cfg.StorageDriver)

	monsters, err := loadRoster(cfg.RosterPath)
	if err != nil {
		log.Error("Failed to load monster roster", "error", err, "path", cfg.RosterPath)
		os.Exit(1)
	}
	log.Info("Monster roster ready", "monsters", monsters.Len(), "total_hp", monsters.TotalHP())

	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	var store storage.Storage
	var opts []game.Option
	var redisStore *storage.RedisStorage
	switch cfg.StorageDriver {
	case config.StorageSQLite:
		sqliteStore, err := storage.OpenSQLite(cfg.SQLitePath, log)
		if err != nil {
			log.Error("Failed to open SQLite storage", "error", err)
			os.Exit(1)
		}
		store = sqliteStore
	default:
		redisStore, err = storage.NewRedisStorage(cfg.RedisURL, log)
		if err != nil {
			log.Error("Failed to configure Redis storage", "error", err)
			os.Exit(1)
		}
		if err := redisStore.WaitForConnection(storageCtx); err != nil {
			log.Error("Failed to connect to storage", "error", err)
			os.Exit(1)
		}
		store = redisStore
		opts = append(opts, game.WithPublisher(events.NewBroadcaster(redisStore.Client(), log)))
	}
	log.Info("Storage connection established successfully")

	opts = append(opts, game.WithKey(cfg.StateKey))
	ctrl, err := game.Load(storageCtx, monsters, store, log, opts...)
	if err != nil {
		log.Error("Failed to load game", "error", err)
		os.Exit(1)
	}

	routes := handlers.RouterConfig{
		Logger:  log,
		Game:    ctrl,
		Storage: store,
	}
	if redisStore != nil {
		routes.Events = redisStore.Client()
	}
	mux := handlers.NewRouter(routes)

	// Event streams never finish on their own; end them when shutdown begins.
	streamCtx, endStreams := context.WithCancel(context.Background())
	defer endStreams()

	handler := middleware.LoggerWith(log, mux)
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: /v1/events holds its connection open.
		IdleTimeout: 60 * time.Second,
		BaseContext: func(net.Listener) context.Context { return streamCtx },
	}
	server.RegisterOnShutdown(endStreams)

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Server exited")
}

// loadRoster reads a roster file, or returns the built-in roster when path
// is empty.
func loadRoster(path string) (*roster.Roster, error) {
	if path == "" {
		return roster.Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return roster.Load(f)
}
