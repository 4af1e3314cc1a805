package view

import (
	"time"

	"github.com/jwebster45206/deficit-slayer/pkg/display"
	"github.com/jwebster45206/deficit-slayer/pkg/roster"
	"github.com/jwebster45206/deficit-slayer/pkg/state"
)

// HistoryEntry is one row of the battle log.
type HistoryEntry struct {
	ID               string    `json:"id"`
	Date             time.Time `json:"date"`
	CaloriesConsumed int       `json:"calories_consumed"`
	Deficit          int       `json:"deficit"`
	MonsterID        int       `json:"monster_id"`
	MonsterName      string    `json:"monster_name,omitempty"`
	Burned           bool      `json:"burned"` // ate under the baseline
	Amount           string    `json:"amount"` // |deficit| with separators
}

// History returns the battle log newest first.
func History(r *roster.Roster, gs state.GameState) []HistoryEntry {
	names := make(map[int]string, r.Len())
	for _, m := range r.List() {
		names[m.ID] = m.Name
	}

	logs := gs.HistoryNewestFirst()
	out := make([]HistoryEntry, 0, len(logs))
	for _, l := range logs {
		out = append(out, HistoryEntry{
			ID:               l.ID,
			Date:             l.Date,
			CaloriesConsumed: l.CaloriesConsumed,
			Deficit:          l.Deficit,
			MonsterID:        l.MonsterID,
			MonsterName:      names[l.MonsterID],
			Burned:           l.Deficit > 0,
			Amount:           display.Number(abs(l.Deficit)),
		})
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
