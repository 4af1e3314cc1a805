package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jwebster45206/deficit-slayer/pkg/battle"
	"github.com/jwebster45206/deficit-slayer/pkg/display"
	"github.com/jwebster45206/deficit-slayer/pkg/view"
)

const maxRequestBytes = 1 << 16

type BattleHandler struct {
	game   Game
	logger *slog.Logger
}

func NewBattleHandler(logger *slog.Logger, game Game) *BattleHandler {
	return &BattleHandler{
		logger: logger,
		game:   game,
	}
}

// ServeHTTP handles battle actions
// Routes:
// POST /v1/battle/log     - Log a day's intake: {"calories": 1800}
// POST /v1/battle/advance - Move on to the next monster after a victory
func (h *BattleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r, h.logger)
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		log.Warn("Method not allowed for battle endpoint", "method", r.Method, "path", r.URL.Path)
		writeError(w, log, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
		return
	}

	switch r.URL.Path {
	case "/v1/battle/log":
		h.handleLog(w, r)
	case "/v1/battle/advance":
		h.handleAdvance(w, r)
	default:
		writeError(w, log, http.StatusNotFound, "Unknown battle action")
	}
}

func (h *BattleHandler) handleLog(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r, h.logger)
	var req view.LogRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		log.Warn("Invalid JSON in request body", "error", err)
		writeError(w, log, http.StatusBadRequest, "Request body must be JSON with a whole-number calories field")
		return
	}
	if req.Calories == nil {
		log.Warn("Missing required field: calories")
		writeError(w, log, http.StatusBadRequest, "calories field is required")
		return
	}
	if err := battle.CheckIntake(*req.Calories); err != nil {
		log.Warn("Calories out of range", "error", err)
		writeError(w, log, http.StatusBadRequest, "calories must be between -1,000,000 and 1,000,000")
		return
	}

	gs, res, err := h.game.LogIntake(r.Context(), *req.Calories)
	if err != nil {
		if errors.Is(err, battle.ErrRosterExhausted) {
			writeError(w, log, http.StatusConflict, "Every monster has been defeated")
			return
		}
		log.Error("Failed to log intake", "error", err)
		writeError(w, log, http.StatusInternalServerError, "Failed to save battle")
		return
	}

	roster := h.game.Roster()
	entry := view.History(roster, gs)[0]
	response := view.LogResponse{
		GameState:    view.Build(roster, gs),
		Log:          entry,
		Effect:       res.Effect,
		Deficit:      res.Deficit,
		FloatingText: display.CombatText(res),
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("Failed to encode log response", "error", err)
	}
}

func (h *BattleHandler) handleAdvance(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r, h.logger)
	gs, err := h.game.Advance(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, battle.ErrNotDefeated):
			writeError(w, log, http.StatusConflict, "The current monster is still standing")
		case errors.Is(err, battle.ErrNoNextMonster):
			writeError(w, log, http.StatusConflict, "There is no monster left to face")
		default:
			log.Error("Failed to advance", "error", err)
			writeError(w, log, http.StatusInternalServerError, "Failed to save battle")
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(view.Build(h.game.Roster(), gs)); err != nil {
		log.Error("Failed to encode game state", "error", err)
	}
}
