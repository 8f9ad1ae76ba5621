package cssaudit

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a change triggers a re-run
const DefaultDebounce = 200 * time.Millisecond

// WatchConfig configures Watch
type WatchConfig struct {
	Root     string        // Styles root to watch recursively
	Debounce time.Duration // Quiet period before running
	Logger   *slog.Logger
}

// Watch runs fn once, then again after every debounced change to a .css file
// below cfg.Root, until ctx is cancelled. Runs never overlap. Errors from fn
// are logged, not returned.
func Watch(ctx context.Context, cfg WatchConfig, fn func(context.Context) error) error {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirRecursive(watcher, cfg.Root); err != nil {
		return fmt.Errorf("watch %s: %w", cfg.Root, err)
	}

	run := func() {
		if err := fn(ctx); err != nil {
			cfg.Logger.Error("run failed", "error", err)
		}
	}
	run()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !skippedDirs[info.Name()] {
					if err := watchDirRecursive(watcher, event.Name); err != nil {
						cfg.Logger.Warn("failed to watch new directory", "dir", event.Name, "error", err)
					}
				}
			}

			if !isStylesheetEvent(event) {
				continue
			}
			cfg.Logger.Debug("stylesheet changed", "file", event.Name, "op", event.Op.String())

			if timer == nil {
				timer = time.NewTimer(cfg.Debounce)
			} else {
				timer.Reset(cfg.Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			run()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cfg.Logger.Error("watcher error", "error", err)
		}
	}
}

func isStylesheetEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return strings.HasSuffix(event.Name, ".css")
}

// watchDirRecursive adds a directory and all subdirectories to the watcher
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && skippedDirs[d.Name()] {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
