package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jwebster45206/deficit-slayer/internal/storage"
	"github.com/redis/go-redis/v9"
)

// RouterConfig holds what the API routes need.
type RouterConfig struct {
	Logger  *slog.Logger
	Game    Game
	Storage storage.Storage

	// Events enables GET /v1/events when set.
	Events *redis.Client
}

// NewRouter mounts every API route on a new ServeMux.
func NewRouter(cfg RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("/health", NewHealthHandler(cfg.Storage, cfg.Logger))
	mux.Handle("/v1/gamestate", NewGameStateHandler(cfg.Logger, cfg.Game))

	battleHandler := NewBattleHandler(cfg.Logger, cfg.Game)
	mux.Handle("/v1/battle/log", battleHandler)
	mux.Handle("/v1/battle/advance", battleHandler)

	logsHandler := NewLogsHandler(cfg.Logger, cfg.Game)
	mux.Handle("/v1/logs", logsHandler)
	mux.Handle("/v1/logs.pdf", logsHandler)

	monsterHandler := NewMonsterHandler(cfg.Logger, cfg.Game.Roster())
	mux.Handle("/v1/monsters", monsterHandler)
	mux.Handle("/v1/monsters/", monsterHandler)

	if cfg.Events != nil {
		mux.Handle("/v1/events", NewEventsHandler(cfg.Events, cfg.Game, cfg.Logger))
	}

	return mux
}
