package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jwebster45206/deficit-slayer/internal/logger"
	"github.com/jwebster45206/deficit-slayer/pkg/battle"
	"github.com/jwebster45206/deficit-slayer/pkg/roster"
	"github.com/jwebster45206/deficit-slayer/pkg/state"
	"github.com/jwebster45206/deficit-slayer/pkg/view"
)

// Game is the controller the handlers drive. Handlers never touch state
// fields directly; they read snapshots and request transitions.
type Game interface {
	Snapshot() state.GameState
	View() view.GameState
	Roster() *roster.Roster
	LogIntake(ctx context.Context, caloriesConsumed int) (state.GameState, battle.Result, error)
	Advance(ctx context.Context) (state.GameState, error)
}

type GameStateHandler struct {
	game   Game
	logger *slog.Logger
}

func NewGameStateHandler(logger *slog.Logger, game Game) *GameStateHandler {
	return &GameStateHandler{
		logger: logger,
		game:   game,
	}
}

// ServeHTTP handles HTTP requests for the game state
// Routes:
// GET /v1/gamestate - Current snapshot with derived flags
func (h *GameStateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r, h.logger)
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		log.Warn("Method not allowed for game state endpoint", "method", r.Method)
		writeError(w, log, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET")
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(h.game.View()); err != nil {
		log.Error("Failed to encode game state", "error", err)
	}
}

// writeError writes an ErrorResponse with the given status.
// requestLogger is the logger tagged by the request middleware, when present.
func requestLogger(r *http.Request, fallback *slog.Logger) *slog.Logger {
	return logger.FromContext(r.Context(), fallback)
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(view.ErrorResponse{Error: msg}); err != nil {
		logger.Error("Failed to encode error response", "error", err)
	}
}
