package state

import (
	"slices"
	"time"

	"github.com/jwebster45206/deficit-slayer/pkg/roster"
)

// GameLog is one logged day. It is created once per attack and never edited.
type GameLog struct {
	ID               string    `json:"id"`
	Date             time.Time `json:"date"` // when the entry was logged, not the day reported
	CaloriesConsumed int       `json:"caloriesConsumed"`
	Deficit          int       `json:"deficit"`
	MonsterID        int       `json:"monsterId"`
}

// GameState is the full persisted progress of a player.
// Field names follow the persisted blob so older records keep loading.
type GameState struct {
	CurrentMonsterIndex int       `json:"currentMonsterIndex"`
	CurrentMonsterHP    int       `json:"currentMonsterHp"` // unclamped below zero; overkill is kept
	TotalDeficit        int       `json:"totalDeficit"`     // lifetime sum of every logged deficit
	Logs                []GameLog `json:"logs"`             // append-only, chronological
	LastLogin           time.Time `json:"lastLogin"`
}

// New returns the initial state: first monster at full HP and no history.
func New(r *roster.Roster, now time.Time) GameState {
	gs := GameState{
		CurrentMonsterIndex: 0,
		TotalDeficit:        0,
		Logs:                make([]GameLog, 0),
		LastLogin:           now,
	}
	if m, ok := r.At(0); ok {
		gs.CurrentMonsterHP = m.TotalHP
	}
	return gs
}

// Clone returns a copy that shares no backing array with gs.
func (gs GameState) Clone() GameState {
	out := gs
	out.Logs = slices.Clone(gs.Logs)
	if out.Logs == nil {
		out.Logs = make([]GameLog, 0)
	}
	return out
}

// WithLog returns a copy of gs with entry appended to the history.
func (gs GameState) WithLog(entry GameLog) GameState {
	out := gs
	out.Logs = make([]GameLog, len(gs.Logs), len(gs.Logs)+1)
	copy(out.Logs, gs.Logs)
	out.Logs = append(out.Logs, entry)
	return out
}
