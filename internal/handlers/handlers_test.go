package handlers

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jwebster45206/deficit-slayer/internal/game"
	"github.com/jwebster45206/deficit-slayer/internal/storage"
	"github.com/jwebster45206/deficit-slayer/pkg/roster"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestGame returns a controller over in-memory storage, optionally seeded
// with a saved blob.
func newTestGame(t *testing.T, saved string) (*game.Controller, *storage.MockStorage) {
	t.Helper()
	store := storage.NewMockStorage()
	if saved != "" {
		store.Put(storage.StateKey, []byte(saved))
	}
	ctrl, err := game.Load(context.Background(), roster.Default(), store, testLogger(),
		game.WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)
	return ctrl, store
}
