package report

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/jwebster45206/deficit-slayer/pkg/battle"
	"github.com/jwebster45206/deficit-slayer/pkg/roster"
	"github.com/jwebster45206/deficit-slayer/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func TestBattleLog_Empty(t *testing.T) {
	r := roster.Default()

	out, err := BattleLog(r, state.New(r, testNow), testNow)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")), "output should be a PDF document")
}

func TestBattleLog_ManyPages(t *testing.T) {
	r := roster.Default()
	e := battle.NewEngine(r)
	gs := state.New(r, testNow)

	// Enough rows to force page breaks.
	for i := 0; i < 120; i++ {
		var err error
		gs, _, err = e.LogIntake(gs, 1800+i%3*300, testNow.AddDate(0, 0, i), fmt.Sprint(i))
		require.NoError(t, err)
	}

	small, err := BattleLog(r, state.New(r, testNow), testNow)
	require.NoError(t, err)
	big, err := BattleLog(r, gs, testNow)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(big, []byte("%PDF-")))
	assert.Greater(t, len(big), len(small))
}

func TestBattleLog_Completed(t *testing.T) {
	r := roster.Default()
	gs := state.New(r, testNow)
	gs.CurrentMonsterIndex = r.Len()

	out, err := BattleLog(r, gs, testNow)

	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
