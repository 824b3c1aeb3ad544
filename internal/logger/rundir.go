package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	runDirPrefix = "log-"
	runDirLayout = "2006_01_02-15_04_05"
)

// RunDir is the log directory of one run with its download and screenshot folders.
type RunDir struct {
	Path        string
	Downloads   string
	Screenshots string
	LogFile     string
}

// RunDirName names the directory of a run started at t, millisecond precision.
func RunDirName(t time.Time) string {
	return fmt.Sprintf("%s%s_%03d", runDirPrefix, t.Format(runDirLayout), t.Nanosecond()/int(time.Millisecond))
}

func parseRunDirName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, runDirPrefix) || len(name) < len(runDirPrefix)+len(runDirLayout)+4 {
		return time.Time{}, false
	}
	stamp := strings.TrimPrefix(name, runDirPrefix)
	sep := strings.LastIndex(stamp, "_")
	t, err := time.ParseInLocation(runDirLayout, stamp[:sep], time.Local)
	if err != nil {
		return time.Time{}, false
	}
	ms, err := strconv.Atoi(stamp[sep+1:])
	if err != nil {
		return time.Time{}, false
	}
	return t.Add(time.Duration(ms) * time.Millisecond), true
}

// NewRunDir creates the run directory under root.
func NewRunDir(root string, now time.Time) (*RunDir, error) {
	path := filepath.Join(root, RunDirName(now))
	rd := &RunDir{
		Path:        path,
		Downloads:   filepath.Join(path, "downloads"),
		Screenshots: filepath.Join(path, "screenshots"),
		LogFile:     filepath.Join(path, "run.log"),
	}
	for _, dir := range []string{rd.Downloads, rd.Screenshots} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create run directory: %w", err)
		}
	}
	return rd, nil
}

// Prune removes run directories under root started more than keep before now, except keepPath.
// A zero keep disables pruning.
func Prune(root string, keep time.Duration, now time.Time, keepPath string) ([]string, error) {
	if keep <= 0 {
		return nil, nil
	}
	entries, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		started, ok := parseRunDirName(e.Name())
		if !ok || now.Sub(started) <= keep {
			continue
		}
		path := filepath.Join(root, e.Name())
		if filepath.Clean(path) == filepath.Clean(keepPath) {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			return removed, fmt.Errorf("remove %s: %w", path, err)
		}
		removed = append(removed, path)
	}
	return removed, nil
}
