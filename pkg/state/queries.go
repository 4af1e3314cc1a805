package state

import "github.com/jwebster45206/deficit-slayer/pkg/roster"

// Derived flags shared by every consumer of a snapshot. Defeat and completion
// are only ever decided here.

// CurrentMonster returns the monster being fought. ok is false once the
// roster is exhausted.
func (gs GameState) CurrentMonster(r *roster.Roster) (roster.Monster, bool) {
	return r.At(gs.CurrentMonsterIndex)
}

// IsDefeated reports whether the current monster is at or below zero HP.
func (gs GameState) IsDefeated() bool {
	return gs.CurrentMonsterHP <= 0
}

func (gs GameState) IsLastMonster(r *roster.Roster) bool {
	return r.IsLast(gs.CurrentMonsterIndex)
}

// IsExhausted reports whether the index points past the roster.
func (gs GameState) IsExhausted(r *roster.Roster) bool {
	return gs.CurrentMonsterIndex >= r.Len()
}

// IsCompleted reports the terminal progression condition: the final monster
// is defeated, or there is no monster left at all.
func (gs GameState) IsCompleted(r *roster.Roster) bool {
	if gs.IsExhausted(r) {
		return true
	}
	return gs.IsLastMonster(r) && gs.IsDefeated()
}

// CanAdvance reports whether the current monster is defeated and a next one
// exists.
func (gs GameState) CanAdvance(r *roster.Roster) bool {
	if gs.CurrentMonsterIndex < 0 {
		return false
	}
	return gs.IsDefeated() && gs.CurrentMonsterIndex+1 < r.Len()
}

// DisplayHP is the HP to show: the stored value floored at zero.
func (gs GameState) DisplayHP() int {
	return max(0, gs.CurrentMonsterHP)
}

// Progress is TotalDeficit over the roster goal, clamped to [0, 1].
func (gs GameState) Progress(r *roster.Roster) float64 {
	goal := r.TotalHP()
	if goal <= 0 {
		return 0
	}
	p := float64(gs.TotalDeficit) / float64(goal)
	return min(1, max(0, p))
}

// HistoryNewestFirst returns the logs in reverse chronological order.
func (gs GameState) HistoryNewestFirst() []GameLog {
	out := make([]GameLog, len(gs.Logs))
	for i, l := range gs.Logs {
		out[len(gs.Logs)-1-i] = l
	}
	return out
}

// LoggedDeficit sums the deficit of every log entry.
func (gs GameState) LoggedDeficit() int {
	total := 0
	for _, l := range gs.Logs {
		total += l.Deficit
	}
	return total
}
