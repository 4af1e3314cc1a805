package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/jwebster45206/deficit-slayer/pkg/roster"
)

type MonsterHandler struct {
	logger *slog.Logger
	roster *roster.Roster
}

func NewMonsterHandler(logger *slog.Logger, r *roster.Roster) *MonsterHandler {
	return &MonsterHandler{
		logger: logger,
		roster: r,
	}
}

// ServeHTTP serves the read-only roster
// Routes:
// GET /v1/monsters      - All monsters in battle order
// GET /v1/monsters/{id} - One monster by id
func (h *MonsterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r, h.logger)
	switch r.Method {
	case http.MethodGet:
		if r.URL.Path == "/v1/monsters" || r.URL.Path == "/v1/monsters/" {
			h.ListMonsters(w, r)
		} else {
			h.GetMonster(w, r)
		}
	default:
		writeError(w, log, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET")
	}
}

func (h *MonsterHandler) ListMonsters(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r, h.logger)
	response := map[string]interface{}{
		"monsters": h.roster.List(),
		"total_hp": h.roster.TotalHP(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

func (h *MonsterHandler) GetMonster(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r, h.logger)
	idStr := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/v1/monsters/"))
	id, err := strconv.Atoi(idStr)
	if err != nil {
		writeError(w, log, http.StatusBadRequest, "Monster ID must be a number (e.g., /v1/monsters/1)")
		return
	}

	for _, m := range h.roster.List() {
		if m.ID == id {
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(m); err != nil {
				log.Error("Failed to encode response", "error", err)
			}
			return
		}
	}

	log.Debug("Monster not found", "id", id)
	writeError(w, log, http.StatusNotFound, "Monster not found")
}
