package component

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"pageObject/internal/wait"
)

// DownloadTimeout is how long a link download may take.
const DownloadTimeout = 60 * time.Second

var partialSuffixes = []string{".crdownload", ".part", ".tmp", ".download"}

// DownloadQuery selects a finished download by name. Empty fields match every file.
type DownloadQuery struct {
	Prefix    string
	Pattern   *regexp.Regexp
	Extension string
}

func (q DownloadQuery) matches(name string) bool {
	for _, s := range partialSuffixes {
		if strings.HasSuffix(name, s) {
			return false
		}
	}
	if q.Prefix != "" && !strings.HasPrefix(name, q.Prefix) {
		return false
	}
	if q.Pattern != nil && !q.Pattern.MatchString(name) {
		return false
	}
	if q.Extension != "" && !strings.EqualFold(filepath.Ext(name), "."+strings.TrimPrefix(q.Extension, ".")) {
		return false
	}
	return true
}

type DownloadFile struct {
	Path string
}

func (f DownloadFile) Name() string { return filepath.Base(f.Path) }

// Extension returns the extension without the dot.
func (f DownloadFile) Extension() string {
	return strings.TrimPrefix(filepath.Ext(f.Path), ".")
}

// BaseName returns the name without the extension.
func (f DownloadFile) BaseName() string {
	name := f.Name()
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// WaitForDownload polls dir for a file matching q.
func WaitForDownload(ctx context.Context, dir string, q DownloadQuery, timeout time.Duration) (*DownloadFile, error) {
	return (&DownloadWatch{dir: dir}).Wait(ctx, q, timeout)
}

// DownloadWatch remembers the files of a download directory so Wait only reports files written
// after it was taken.
type DownloadWatch struct {
	dir    string
	before map[string]time.Time
}

// WatchDownloads records the current content of dir.
func WatchDownloads(dir string) (*DownloadWatch, error) {
	if dir == "" {
		return nil, errNoDownloadDir
	}
	w := &DownloadWatch{dir: dir, before: map[string]time.Time{}}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return w, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read download directory: %w", err)
	}
	for _, e := range entries {
		if info, err := e.Info(); err == nil {
			w.before[e.Name()] = info.ModTime()
		}
	}
	return w, nil
}

var errNoDownloadDir = errors.New("download directory is not set")

// fresh reports whether e appeared or changed since the watch was taken.
func (w *DownloadWatch) fresh(e os.DirEntry) bool {
	mod, seen := w.before[e.Name()]
	if !seen {
		return true
	}
	info, err := e.Info()
	return err == nil && info.ModTime().After(mod)
}

// Wait polls the directory for a new file matching q.
func (w *DownloadWatch) Wait(ctx context.Context, q DownloadQuery, timeout time.Duration) (*DownloadFile, error) {
	if w.dir == "" {
		return nil, errNoDownloadDir
	}
	f, err := wait.UntilValue(ctx, timeout, func(ctx context.Context) (*DownloadFile, bool, error) {
		entries, err := os.ReadDir(w.dir)
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		for _, e := range entries {
			if !e.IsDir() && q.matches(e.Name()) && w.fresh(e) {
				return &DownloadFile{Path: filepath.Join(w.dir, e.Name())}, true, nil
			}
		}
		return nil, false, nil
	})
	if err != nil {
		return nil, fmt.Errorf("wait for download in %s: %w", w.dir, err)
	}
	return f, nil
}
