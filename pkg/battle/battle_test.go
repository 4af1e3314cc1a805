package battle

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/jwebster45206/deficit-slayer/pkg/roster"
	"github.com/jwebster45206/deficit-slayer/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 1, 5, 20, 0, 0, 0, time.UTC)

func newTestEngine() (*Engine, state.GameState) {
	r := roster.Default()
	return NewEngine(r), state.New(r, testNow)
}

func mustLog(t *testing.T, e *Engine, gs state.GameState, calories int) (state.GameState, Result) {
	t.Helper()
	next, res, err := e.LogIntake(gs, calories, testNow, fmt.Sprintf("log-%d", len(gs.Logs)+1))
	require.NoError(t, err)
	return next, res
}

func TestLogIntake_Scenario(t *testing.T) {
	e, gs := newTestEngine()
	require.Equal(t, 2000, gs.CurrentMonsterHP)

	steps := []struct {
		calories int
		deficit  int
		effect   Effect
		hp       int
		total    int
		defeated bool
	}{
		{1200, 1000, EffectCrit, 1000, 1000, false},
		{2200, 0, EffectMiss, 1000, 1000, false},
		{2600, -400, EffectHeal, 1400, 600, false},
		{600, 1600, EffectCrit, -200, 2200, true},
	}

	for i, s := range steps {
		var res Result
		gs, res = mustLog(t, e, gs, s.calories)

		assert.Equal(t, s.deficit, res.Deficit, "step %d deficit", i)
		assert.Equal(t, s.effect, res.Effect, "step %d effect", i)
		assert.Equal(t, s.hp, gs.CurrentMonsterHP, "step %d hp", i)
		assert.Equal(t, s.total, gs.TotalDeficit, "step %d total", i)
		assert.Equal(t, s.defeated, res.Defeated, "step %d defeated", i)
		assert.False(t, res.Completed)
		assert.Equal(t, 0, gs.CurrentMonsterIndex, "log intake never advances")
	}

	next, err := e.Advance(gs)
	require.NoError(t, err)

	second, _ := roster.Default().At(1)
	assert.Equal(t, 1, next.CurrentMonsterIndex)
	assert.Equal(t, second.TotalHP, next.CurrentMonsterHP)
	assert.Equal(t, 2200, next.TotalDeficit)
	assert.Len(t, next.Logs, 4)
}

func TestLogIntake_AppendsLog(t *testing.T) {
	e, gs := newTestEngine()

	next, _, err := e.LogIntake(gs, 1900, testNow, "abc")
	require.NoError(t, err)

	require.Len(t, next.Logs, 1)
	assert.Equal(t, state.GameLog{
		ID:               "abc",
		Date:             testNow,
		CaloriesConsumed: 1900,
		Deficit:          300,
		MonsterID:        1,
	}, next.Logs[0])
}

func TestLogIntake_AcrossInputs(t *testing.T) {
	e, gs := newTestEngine()
	intakes := []int{1500, 3100, 0, -250, 2200, 2199, 2201, 900, 4000, 1000, 10000}

	for i, calories := range intakes {
		prev := gs
		var err error
		gs, _, err = e.LogIntake(gs, calories, testNow.Add(time.Duration(i)*time.Hour), fmt.Sprint(i))
		require.NoError(t, err)

		require.Len(t, gs.Logs, len(prev.Logs)+1)
		assert.Equal(t, prev.Logs, gs.Logs[:len(prev.Logs)], "earlier logs must not change")
		assert.Equal(t, gs.LoggedDeficit(), gs.TotalDeficit)

		m, _ := gs.CurrentMonster(e.Roster())
		assert.LessOrEqual(t, gs.CurrentMonsterHP, m.TotalHP)
	}
}

func TestLogIntake_HealClampsAtTotalHP(t *testing.T) {
	e, gs := newTestEngine()

	for _, calories := range []int{2201, 5000, 100000} {
		next, res := mustLog(t, e, gs, calories)
		assert.Equal(t, EffectHeal, res.Effect)
		assert.Equal(t, 2000, next.CurrentMonsterHP)
		assert.Equal(t, Deficit(calories), next.TotalDeficit, "total is not clamped")
	}
}

func TestLogIntake_HealCannotRevive(t *testing.T) {
	e, gs := newTestEngine()
	gs.CurrentMonsterHP = -1500

	next, res := mustLog(t, e, gs, 3000)

	assert.Equal(t, EffectHeal, res.Effect)
	assert.Equal(t, -700, next.CurrentMonsterHP)
	assert.True(t, res.Defeated)
}

func TestLogIntake_NoDamageFloor(t *testing.T) {
	e, gs := newTestEngine()

	next, res := mustLog(t, e, gs, -50000)

	assert.Equal(t, 52200, res.Deficit)
	assert.Equal(t, 2000-52200, next.CurrentMonsterHP)
	assert.Equal(t, 0, next.DisplayHP())
	assert.True(t, res.Defeated)
}

func TestLogIntake_Deterministic(t *testing.T) {
	e, gs := newTestEngine()
	gs, _ = mustLog(t, e, gs, 1800)

	a, resA, errA := e.LogIntake(gs, 1234, testNow, "same")
	b, resB, errB := e.LogIntake(gs, 1234, testNow, "same")

	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.Equal(t, a, b)
	assert.Equal(t, resA, resB)
}

func TestLogIntake_DoesNotMutateInput(t *testing.T) {
	e, gs := newTestEngine()
	gs, _ = mustLog(t, e, gs, 2000)
	before := gs.Clone()

	_, _, err := e.LogIntake(gs, 500, testNow, "x")
	require.NoError(t, err)

	assert.Equal(t, before, gs)
}

func TestLogIntake_RosterExhausted(t *testing.T) {
	e, gs := newTestEngine()
	gs.CurrentMonsterIndex = e.Roster().Len()
	gs.CurrentMonsterHP = 0

	next, res, err := e.LogIntake(gs, 1000, testNow, "x")

	assert.True(t, errors.Is(err, ErrRosterExhausted))
	assert.Equal(t, EffectNone, res.Effect)
	assert.Equal(t, gs, next)
}

func TestLogIntake_IntakeBounds(t *testing.T) {
	e, gs := newTestEngine()

	for _, calories := range []int{MaxIntake, -MaxIntake} {
		_, _, err := e.LogIntake(gs, calories, testNow, "edge")
		assert.NoError(t, err, "%d kcal", calories)
	}

	for _, calories := range []int{MaxIntake + 1, -MaxIntake - 1, math.MaxInt, math.MinInt + 100} {
		next, res, err := e.LogIntake(gs, calories, testNow, "x")
		assert.True(t, errors.Is(err, ErrIntakeRange), "%d kcal", calories)
		assert.Equal(t, EffectNone, res.Effect)
		assert.Equal(t, gs, next)
	}
}

func TestLogIntake_LargeDeficitStaysDamage(t *testing.T) {
	e, gs := newTestEngine()

	gs, res := mustLog(t, e, gs, -MaxIntake)
	gs, _ = mustLog(t, e, gs, -MaxIntake)

	assert.Equal(t, EffectCrit, res.Effect)
	assert.Equal(t, 2*(Baseline+MaxIntake), gs.TotalDeficit)
	assert.Equal(t, 2000-2*(Baseline+MaxIntake), gs.CurrentMonsterHP)
}

func TestAdvance_NoOverkillCarryover(t *testing.T) {
	e, gs := newTestEngine()
	gs.CurrentMonsterHP = -500

	next, err := e.Advance(gs)
	require.NoError(t, err)

	m, _ := e.Roster().At(1)
	assert.Equal(t, m.TotalHP, next.CurrentMonsterHP)
	assert.Equal(t, -500, gs.CurrentMonsterHP, "input must not change")
}

func TestAdvance_NotDefeated(t *testing.T) {
	e, gs := newTestEngine()
	gs.CurrentMonsterHP = 1

	next, err := e.Advance(gs)

	assert.True(t, errors.Is(err, ErrNotDefeated))
	assert.Equal(t, gs, next)
}

func TestAdvance_ExactlyZeroIsDefeated(t *testing.T) {
	e, gs := newTestEngine()
	gs, _ = mustLog(t, e, gs, 200) // deficit 2000

	require.Equal(t, 0, gs.CurrentMonsterHP)
	next, err := e.Advance(gs)
	require.NoError(t, err)
	assert.Equal(t, 1, next.CurrentMonsterIndex)
}

func TestProgression_ToCompletion(t *testing.T) {
	e, gs := newTestEngine()
	r := e.Roster()

	for i := 0; i < r.Len(); i++ {
		m, ok := gs.CurrentMonster(r)
		require.True(t, ok)

		// One day with exactly enough deficit to finish the monster.
		var res Result
		gs, res = mustLog(t, e, gs, Baseline-gs.CurrentMonsterHP)
		require.True(t, res.Defeated)
		assert.Equal(t, m.ID, gs.Logs[len(gs.Logs)-1].MonsterID)

		if r.IsLast(i) {
			assert.True(t, res.Completed)
			break
		}
		assert.False(t, res.Completed)

		var err error
		gs, err = e.Advance(gs)
		require.NoError(t, err)
	}

	assert.Equal(t, r.Len()-1, gs.CurrentMonsterIndex)
	assert.Equal(t, r.TotalHP(), gs.TotalDeficit)
	assert.True(t, gs.IsCompleted(r))

	// No further monster transition.
	after, err := e.Advance(gs)
	assert.True(t, errors.Is(err, ErrNoNextMonster))
	assert.Equal(t, r.Len()-1, after.CurrentMonsterIndex)

	// Logging continues after completion.
	logs := len(gs.Logs)
	gs, res := mustLog(t, e, gs, 1700)
	assert.Len(t, gs.Logs, logs+1)
	assert.Equal(t, r.TotalHP()+500, gs.TotalDeficit)
	assert.True(t, res.Completed)
	assert.Equal(t, r.Len()-1, gs.CurrentMonsterIndex)
}

func TestAdvance_CustomRoster(t *testing.T) {
	r, err := roster.New([]roster.Monster{
		{ID: 7, Name: "Boss", TotalHP: 900},
		{ID: 3, Name: "Minion", TotalHP: 50},
	})
	require.NoError(t, err)
	e := NewEngine(r)
	gs := state.New(r, testNow)

	gs, res, err := e.LogIntake(gs, 1000, testNow, "1")
	require.NoError(t, err)
	assert.Equal(t, EffectCrit, res.Effect)
	assert.Equal(t, 7, gs.Logs[0].MonsterID)

	gs, err = e.Advance(gs)
	require.NoError(t, err)
	assert.Equal(t, 50, gs.CurrentMonsterHP)
}
