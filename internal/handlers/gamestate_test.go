package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jwebster45206/deficit-slayer/internal/storage"
	"github.com/jwebster45206/deficit-slayer/pkg/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameStateHandler_Get(t *testing.T) {
	ctrl, _ := newTestGame(t, "")
	h := NewGameStateHandler(testLogger(), ctrl)

	req := httptest.NewRequest(http.MethodGet, "/v1/gamestate", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var gs view.GameState
	require.NoError(t, json.NewDecoder(w.Body).Decode(&gs))
	assert.Equal(t, 0, gs.CurrentMonsterIndex)
	assert.Equal(t, 1, gs.MonsterNumber)
	assert.Equal(t, 7, gs.MonsterCount)
	require.NotNil(t, gs.Monster)
	assert.Equal(t, 2000, gs.Monster.TotalHP)
	assert.Equal(t, 2000, gs.CurrentMonsterHP)
	assert.Equal(t, "2,000 / 2,000", gs.HPLabel)
	assert.Equal(t, 70000, gs.Goal)
	assert.True(t, gs.CanAttack)
	assert.False(t, gs.CanAdvance)
}

func TestGameStateHandler_MethodNotAllowed(t *testing.T) {
	ctrl, _ := newTestGame(t, "")
	h := NewGameStateHandler(testLogger(), ctrl)

	req := httptest.NewRequest(http.MethodDelete, "/v1/gamestate", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHealthHandler(t *testing.T) {
	store := storage.NewMockStorage()
	h := NewHealthHandler(store, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "deficit-slayer", resp.Service)
	assert.Equal(t, "healthy", resp.Components["storage"])

	store.SetPingError(errors.New("connection refused"))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "unhealthy", resp.Components["storage"])
}
