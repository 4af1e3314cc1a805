package state

import (
	"testing"
	"time"

	"github.com/jwebster45206/deficit-slayer/pkg/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func TestNew(t *testing.T) {
	r := roster.Default()
	gs := New(r, testNow)

	assert.Equal(t, 0, gs.CurrentMonsterIndex)
	assert.Equal(t, 2000, gs.CurrentMonsterHP)
	assert.Equal(t, 0, gs.TotalDeficit)
	assert.NotNil(t, gs.Logs)
	assert.Empty(t, gs.Logs)
	assert.Equal(t, testNow, gs.LastLogin)
}

func TestGameState_Clone(t *testing.T) {
	gs := New(roster.Default(), testNow)
	gs.Logs = append(gs.Logs, GameLog{ID: "a", Deficit: 100})

	clone := gs.Clone()
	clone.Logs[0].Deficit = 999
	clone.CurrentMonsterHP = 1

	assert.Equal(t, 100, gs.Logs[0].Deficit, "clone must not share logs")
	assert.Equal(t, 2000, gs.CurrentMonsterHP)
}

func TestGameState_CloneNilLogs(t *testing.T) {
	gs := GameState{}
	clone := gs.Clone()
	assert.NotNil(t, clone.Logs)
}

func TestGameState_WithLog(t *testing.T) {
	gs := New(roster.Default(), testNow)
	gs.Logs = make([]GameLog, 1, 8) // spare capacity would let a naive append alias
	gs.Logs[0] = GameLog{ID: "first"}

	a := gs.WithLog(GameLog{ID: "a"})
	b := gs.WithLog(GameLog{ID: "b"})

	require.Len(t, gs.Logs, 1)
	require.Len(t, a.Logs, 2)
	require.Len(t, b.Logs, 2)
	assert.Equal(t, "a", a.Logs[1].ID)
	assert.Equal(t, "b", b.Logs[1].ID)
}
