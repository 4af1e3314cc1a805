package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jwebster45206/deficit-slayer/internal/report"
	"github.com/jwebster45206/deficit-slayer/pkg/view"
)

type LogsHandler struct {
	game   Game
	logger *slog.Logger
	now    func() time.Time
}

func NewLogsHandler(logger *slog.Logger, game Game) *LogsHandler {
	return &LogsHandler{
		logger: logger,
		game:   game,
		now:    time.Now,
	}
}

// ServeHTTP handles the battle log
// Routes:
// GET /v1/logs     - History, newest first
// GET /v1/logs.pdf - Printable battle log
func (h *LogsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r, h.logger)
	if r.Method != http.MethodGet {
		log.Warn("Method not allowed for logs endpoint", "method", r.Method)
		writeError(w, log, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET")
		return
	}

	if r.URL.Path == "/v1/logs.pdf" {
		h.servePDF(w, log)
		return
	}

	entries := view.History(h.game.Roster(), h.game.Snapshot())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(view.HistoryResponse{Logs: entries, Count: len(entries)}); err != nil {
		log.Error("Failed to encode history", "error", err)
	}
}

func (h *LogsHandler) servePDF(w http.ResponseWriter, log *slog.Logger) {
	now := h.now()
	data, err := report.BattleLog(h.game.Roster(), h.game.Snapshot(), now)
	if err != nil {
		log.Error("Failed to render battle log", "error", err)
		writeError(w, log, http.StatusInternalServerError, "Failed to render battle log")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"battle-log-%s.pdf\"", now.Format("2006-01-02")))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Error("Failed to write battle log", "error", err)
	}
}
