// Package view builds the read-only presentation of a game snapshot shared
// by the HTTP API and the console client.
package view

import (
	"time"

	"github.com/jwebster45206/deficit-slayer/pkg/battle"
	"github.com/jwebster45206/deficit-slayer/pkg/display"
	"github.com/jwebster45206/deficit-slayer/pkg/roster"
	"github.com/jwebster45206/deficit-slayer/pkg/state"
)

// GameState is a snapshot plus every flag a client needs to decide what to
// render. Clients never derive defeat or completion themselves.
type GameState struct {
	CurrentMonsterIndex int             `json:"current_monster_index"`
	MonsterNumber       int             `json:"monster_number"` // 1-based, for "3 of 7"
	MonsterCount        int             `json:"monster_count"`
	Monster             *roster.Monster `json:"monster,omitempty"`
	CurrentMonsterHP    int             `json:"current_monster_hp"`
	DisplayHP           int             `json:"display_hp"`
	HPFraction          float64         `json:"hp_fraction"`
	HPLabel             string          `json:"hp_label"`

	TotalDeficit      int     `json:"total_deficit"`
	TotalDeficitLabel string  `json:"total_deficit_label"`
	Goal              int     `json:"goal"`
	GoalLabel         string  `json:"goal_label"`
	Progress          float64 `json:"progress"`
	ProgressLabel     string  `json:"progress_label"`

	Defeated      bool `json:"defeated"`
	IsLastMonster bool `json:"is_last_monster"`
	Completed     bool `json:"completed"`
	CanAdvance    bool `json:"can_advance"`
	CanAttack     bool `json:"can_attack"`

	Baseline  int       `json:"baseline"`
	LogCount  int       `json:"log_count"`
	LastLogin time.Time `json:"last_login"`
}

// Build derives the view of gs against r.
func Build(r *roster.Roster, gs state.GameState) GameState {
	v := GameState{
		CurrentMonsterIndex: gs.CurrentMonsterIndex,
		MonsterNumber:       min(gs.CurrentMonsterIndex+1, r.Len()),
		MonsterCount:        r.Len(),
		CurrentMonsterHP:    gs.CurrentMonsterHP,
		DisplayHP:           gs.DisplayHP(),
		TotalDeficit:        gs.TotalDeficit,
		TotalDeficitLabel:   display.Number(gs.TotalDeficit),
		Goal:                r.TotalHP(),
		GoalLabel:           display.Number(r.TotalHP()),
		Progress:            gs.Progress(r),
		ProgressLabel:       display.Percent(gs.Progress(r)),
		Defeated:            gs.IsDefeated(),
		IsLastMonster:       gs.IsLastMonster(r),
		Completed:           gs.IsCompleted(r),
		CanAdvance:          gs.CanAdvance(r),
		Baseline:            battle.Baseline,
		LogCount:            len(gs.Logs),
		LastLogin:           gs.LastLogin,
	}

	if m, ok := gs.CurrentMonster(r); ok {
		v.Monster = &m
		v.HPLabel = display.HPLabel(gs.CurrentMonsterHP, m.TotalHP)
		v.HPFraction = min(1, float64(v.DisplayHP)/float64(m.TotalHP))
		// Attacks wait for the victory confirmation, except after the final
		// monster where logging carries on.
		v.CanAttack = !v.Defeated || v.Completed
	}

	return v
}
