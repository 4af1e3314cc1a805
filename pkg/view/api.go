package view

import (
	"github.com/jwebster45206/deficit-slayer/pkg/battle"
	"github.com/jwebster45206/deficit-slayer/pkg/display"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// LogRequest is the body of POST /v1/battle/log.
// Calories is a pointer so a missing value can be told apart from zero.
type LogRequest struct {
	Calories *int `json:"calories"`
}

// LogResponse is returned after a day is logged.
type LogResponse struct {
	GameState    GameState              `json:"game_state"`
	Log          HistoryEntry           `json:"log"`
	Effect       battle.Effect          `json:"effect"`
	Deficit      int                    `json:"deficit"`
	FloatingText []display.FloatingText `json:"floating_text"`
}

// HistoryResponse is returned by GET /v1/logs.
type HistoryResponse struct {
	Logs  []HistoryEntry `json:"logs"`
	Count int            `json:"count"`
}
