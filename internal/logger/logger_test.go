package logger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	log, err := New("dev", "debug")
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(-1))
	require.NoError(t, log.Close())

	_, err = New("prod", "loud")
	assert.Error(t, err)
}

func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	log, err := New("prod", "info", WithFile(path), WithoutConsole())
	require.NoError(t, err)

	log.Info("hello")
	log.Debug("hidden")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestRunDirName(t *testing.T) {
	start := time.Date(2024, time.May, 3, 14, 5, 9, 42*int(time.Millisecond), time.Local)
	name := RunDirName(start)
	assert.Equal(t, "log-2024_05_03-14_05_09_042", name)

	parsed, ok := parseRunDirName(name)
	require.True(t, ok)
	assert.True(t, start.Equal(parsed))

	_, ok = parseRunDirName("downloads")
	assert.False(t, ok)
}

func TestNewRunDirAndPrune(t *testing.T) {
	root := t.TempDir()
	now := time.Date(2024, time.May, 3, 12, 0, 0, 0, time.Local)

	old, err := NewRunDir(root, now.Add(-2*time.Hour))
	require.NoError(t, err)
	recent, err := NewRunDir(root, now.Add(-10*time.Minute))
	require.NoError(t, err)
	current, err := NewRunDir(root, now)
	require.NoError(t, err)
	assert.DirExists(t, current.Downloads)
	assert.DirExists(t, current.Screenshots)
	require.NoError(t, os.Mkdir(filepath.Join(root, "keep-me"), 0o755))

	removed, err := Prune(root, 0, now, current.Path)
	require.NoError(t, err)
	assert.Empty(t, removed)

	removed, err = Prune(root, time.Hour, now, current.Path)
	require.NoError(t, err)
	assert.Equal(t, []string{old.Path}, removed)
	assert.NoDirExists(t, old.Path)
	assert.DirExists(t, recent.Path)
	assert.DirExists(t, filepath.Join(root, "keep-me"))
}
