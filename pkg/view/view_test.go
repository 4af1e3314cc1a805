package view

import (
	"testing"
	"time"

	"github.com/jwebster45206/deficit-slayer/pkg/roster"
	"github.com/jwebster45206/deficit-slayer/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 2, 1, 7, 0, 0, 0, time.UTC)

func TestBuild_Initial(t *testing.T) {
	r := roster.Default()
	v := Build(r, state.New(r, testNow))

	require.NotNil(t, v.Monster)
	assert.Equal(t, "Gluttonous Slime", v.Monster.Name)
	assert.Equal(t, 1, v.MonsterNumber)
	assert.Equal(t, 7, v.MonsterCount)
	assert.Equal(t, "2,000 / 2,000", v.HPLabel)
	assert.InDelta(t, 1.0, v.HPFraction, 1e-9)
	assert.Equal(t, 70000, v.Goal)
	assert.Equal(t, "70,000", v.GoalLabel)
	assert.Equal(t, 2200, v.Baseline)
	assert.True(t, v.CanAttack)
	assert.False(t, v.Defeated)
	assert.False(t, v.CanAdvance)
	assert.False(t, v.Completed)
}

func TestBuild_DefeatedAwaitingAdvance(t *testing.T) {
	r := roster.Default()
	gs := state.New(r, testNow)
	gs.CurrentMonsterHP = -200
	gs.TotalDeficit = 2200

	v := Build(r, gs)

	assert.Equal(t, -200, v.CurrentMonsterHP)
	assert.Equal(t, 0, v.DisplayHP)
	assert.Equal(t, "0 / 2,000", v.HPLabel)
	assert.InDelta(t, 0.0, v.HPFraction, 1e-9)
	assert.True(t, v.Defeated)
	assert.True(t, v.CanAdvance)
	assert.False(t, v.CanAttack)
	assert.Equal(t, "3%", v.ProgressLabel)
}

func TestBuild_Completed(t *testing.T) {
	r := roster.Default()
	gs := state.New(r, testNow)
	gs.CurrentMonsterIndex = r.Len() - 1
	gs.CurrentMonsterHP = -10

	v := Build(r, gs)

	assert.True(t, v.Completed)
	assert.True(t, v.IsLastMonster)
	assert.False(t, v.CanAdvance)
	assert.True(t, v.CanAttack, "logging continues after completion")
	assert.Equal(t, 7, v.MonsterNumber)
}

func TestBuild_Exhausted(t *testing.T) {
	r := roster.Default()
	gs := state.GameState{CurrentMonsterIndex: r.Len()}

	v := Build(r, gs)

	assert.Nil(t, v.Monster)
	assert.True(t, v.Completed)
	assert.False(t, v.CanAttack)
	assert.Equal(t, 7, v.MonsterNumber)
}

func TestHistory(t *testing.T) {
	r := roster.Default()
	gs := state.New(r, testNow)
	gs.Logs = []state.GameLog{
		{ID: "a", CaloriesConsumed: 1200, Deficit: 1000, MonsterID: 1},
		{ID: "b", CaloriesConsumed: 3400, Deficit: -1200, MonsterID: 2},
		{ID: "c", CaloriesConsumed: 2200, Deficit: 0, MonsterID: 99},
	}

	h := History(r, gs)

	require.Len(t, h, 3)
	assert.Equal(t, "c", h[0].ID)
	assert.Equal(t, "", h[0].MonsterName)
	assert.False(t, h[0].Burned)

	assert.Equal(t, "b", h[1].ID)
	assert.Equal(t, "Sugar Goblin", h[1].MonsterName)
	assert.False(t, h[1].Burned)
	assert.Equal(t, "1,200", h[1].Amount)

	assert.Equal(t, "a", h[2].ID)
	assert.True(t, h[2].Burned)
	assert.Equal(t, "1,000", h[2].Amount)
}
