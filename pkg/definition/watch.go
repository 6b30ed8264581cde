package definition

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadFunc receives the definitions after each reload, or the load error.
type ReloadFunc func(defs []Definition, err error)

// WatchOption customises Watch.
type WatchOption func(*watchConfig)

type watchConfig struct {
	debounce time.Duration
	logger   *slog.Logger
}

// WithDebounce sets how long Watch waits for further events before reloading.
func WithDebounce(d time.Duration) WatchOption {
	return func(cfg *watchConfig) {
		if d > 0 {
			cfg.debounce = d
		}
	}
}

// WithWatchLogger attaches a logger.
func WithWatchLogger(logger *slog.Logger) WatchOption {
	return func(cfg *watchConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Watch reloads the definitions in dir whenever a definition file changes and
// passes the result to fn. Subdirectories are watched too, including ones
// created while watching. It blocks until ctx is done.
func Watch(ctx context.Context, dir string, fn ReloadFunc, options ...WatchOption) error {
	cfg := watchConfig{
		debounce: 150 * time.Millisecond,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("definition: watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchTree(watcher, dir); err != nil {
		return fmt.Errorf("definition: watch %s: %w", dir, err)
	}

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := watchTree(watcher, event.Name); err != nil {
					cfg.logger.Warn("definition watcher add failed", slog.String("dir", event.Name), slog.Any("error", err))
				}
			} else if !isDefinitionFile(event.Name) || event.Op == fsnotify.Chmod {
				continue
			}
			cfg.logger.Debug("definition change", slog.String("file", event.Name), slog.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(cfg.debounce)
			} else {
				timer.Reset(cfg.debounce)
			}
			pending = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cfg.logger.Warn("definition watcher error", slog.Any("error", err))
		case <-pending:
			pending = nil
			defs, err := LoadFS(os.DirFS(dir))
			if err != nil {
				cfg.logger.Warn("definition reload failed", slog.String("dir", dir), slog.Any("error", err))
			} else {
				cfg.logger.Info("definitions reloaded", slog.String("dir", dir), slog.Int("count", len(defs)))
			}
			fn(defs, err)
		}
	}
}

// watchTree adds root and every directory below it to watcher.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		return watcher.Add(path)
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
