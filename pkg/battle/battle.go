// Package battle holds the rules that turn a day's calorie intake into
// damage or healing against the current monster, and the progression from
// one monster to the next.
//
// Every operation is a pure function of its inputs: the state passed in is
// never modified and the same inputs always produce the same result.
package battle

import (
	"errors"
	"fmt"
	"time"

	"github.com/jwebster45206/deficit-slayer/pkg/roster"
	"github.com/jwebster45206/deficit-slayer/pkg/state"
)

const (
	// Baseline is the fixed daily maintenance intake in kcal.
	Baseline = 2200

	// CritThreshold is the largest deficit that still counts as a normal hit.
	CritThreshold = 800

	// MaxIntake bounds a logged intake in either direction, keeping every
	// deficit and running total well inside int range.
	MaxIntake = 1_000_000
)

var (
	ErrRosterExhausted = errors.New("no monster left to fight")
	ErrNotDefeated     = errors.New("current monster is not defeated")
	ErrNoNextMonster   = errors.New("current monster is the last in the roster")
	ErrIntakeRange     = errors.New("intake out of range")
)

// Result describes what a logged day did, for feedback rendering.
type Result struct {
	Effect    Effect `json:"effect"`
	Deficit   int    `json:"deficit"`
	Defeated  bool   `json:"defeated"`  // current monster is at or below zero HP afterwards
	Completed bool   `json:"completed"` // the final monster is defeated
}

// Engine applies battle rules against a fixed roster.
type Engine struct {
	roster *roster.Roster
}

func NewEngine(r *roster.Roster) *Engine {
	return &Engine{roster: r}
}

func (e *Engine) Roster() *roster.Roster {
	return e.roster
}

// Deficit is the signed difference between the baseline and the intake.
func Deficit(caloriesConsumed int) int {
	return Baseline - caloriesConsumed
}

// CheckIntake rejects intakes whose magnitude exceeds MaxIntake.
func CheckIntake(caloriesConsumed int) error {
	if caloriesConsumed > MaxIntake || caloriesConsumed < -MaxIntake {
		return fmt.Errorf("%d kcal (limit ±%d): %w", caloriesConsumed, MaxIntake, ErrIntakeRange)
	}
	return nil
}

// LogIntake records one day's intake against the current monster.
//
// A positive deficit damages the monster with no floor, so HP may go
// arbitrarily negative (overkill). A surplus heals it, clamped at the
// monster's TotalHP. The monster index never changes here.
//
// An intake rejected by CheckIntake returns gs unchanged with ErrIntakeRange.
// A state whose index is past the roster returns gs unchanged with
// ErrRosterExhausted.
func (e *Engine) LogIntake(gs state.GameState, caloriesConsumed int, now time.Time, id string) (state.GameState, Result, error) {
	if err := CheckIntake(caloriesConsumed); err != nil {
		return gs, Result{Effect: EffectNone}, fmt.Errorf("log intake: %w", err)
	}
	monster, ok := gs.CurrentMonster(e.roster)
	if !ok {
		return gs, Result{Effect: EffectNone}, fmt.Errorf("log intake at index %d: %w", gs.CurrentMonsterIndex, ErrRosterExhausted)
	}

	deficit := Deficit(caloriesConsumed)
	effect := Classify(deficit)

	hp := gs.CurrentMonsterHP - deficit
	if deficit < 0 {
		hp = min(hp, monster.TotalHP)
	}

	next := gs.WithLog(state.GameLog{
		ID:               id,
		Date:             now,
		CaloriesConsumed: caloriesConsumed,
		Deficit:          deficit,
		MonsterID:        monster.ID,
	})
	next.CurrentMonsterHP = hp
	next.TotalDeficit = gs.TotalDeficit + deficit

	return next, Result{
		Effect:    effect,
		Deficit:   deficit,
		Defeated:  next.IsDefeated(),
		Completed: next.IsCompleted(e.roster),
	}, nil
}

// Advance moves to the next monster at full HP. Overkill on the defeated
// monster does not carry over. Logs and TotalDeficit are untouched.
//
// When the current monster is still alive, or it is the last one, gs is
// returned unchanged with ErrNotDefeated or ErrNoNextMonster.
func (e *Engine) Advance(gs state.GameState) (state.GameState, error) {
	if gs.IsExhausted(e.roster) || gs.IsLastMonster(e.roster) {
		return gs, fmt.Errorf("advance from index %d: %w", gs.CurrentMonsterIndex, ErrNoNextMonster)
	}
	if !gs.IsDefeated() {
		return gs, fmt.Errorf("advance from index %d (hp %d): %w", gs.CurrentMonsterIndex, gs.CurrentMonsterHP, ErrNotDefeated)
	}

	nextIndex := gs.CurrentMonsterIndex + 1
	monster, ok := e.roster.At(nextIndex)
	if !ok {
		return gs, fmt.Errorf("advance from index %d: %w", gs.CurrentMonsterIndex, ErrNoNextMonster)
	}

	next := gs.Clone()
	next.CurrentMonsterIndex = nextIndex
	next.CurrentMonsterHP = monster.TotalHP
	return next, nil
}
