package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pageObject/internal/config"
	"pageObject/internal/logger"
	"pageObject/internal/recording"
)

func newTestServer(t *testing.T) (http.Handler, *recording.MemoryStore) {
	t.Helper()
	log, err := logger.New("prod", "error", logger.WithoutConsole())
	require.NoError(t, err)
	store := recording.NewMemoryStore()
	return New(&config.Cfg{}, log, store).Handler(), store
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealth(t *testing.T) {
	h, _ := newTestServer(t)
	w := get(t, h, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRuns(t *testing.T) {
	h, store := newTestServer(t)
	ctx := context.Background()
	run := &recording.Run{Name: "search", Browser: "chrome", Status: recording.StatusRunning, StartedAt: time.Now()}
	require.NoError(t, store.CreateRun(ctx, run))
	require.NoError(t, store.CreateRun(ctx, &recording.Run{Name: "login", Browser: "firefox"}))
	require.NoError(t, store.AddInteraction(ctx, &recording.Interaction{RunID: run.ID, Type: "click", Selector: "button"}))

	w := get(t, h, "/api/runs?limit=1")
	require.Equal(t, http.StatusOK, w.Code)
	var runs []recording.Run
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "login", runs[0].Name)

	w = get(t, h, "/api/runs/1")
	require.Equal(t, http.StatusOK, w.Code)
	var got recording.Run
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "search", got.Name)

	w = get(t, h, "/api/runs/1/interactions")
	require.Equal(t, http.StatusOK, w.Code)
	var ins []recording.Interaction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ins))
	require.Len(t, ins, 1)
	assert.Equal(t, "button", ins[0].Selector)
}

func TestRunErrors(t *testing.T) {
	h, _ := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/runs/9").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/runs/9/interactions").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/runs/abc").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/runs?limit=0").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/runs?offset=-1").Code)
}
