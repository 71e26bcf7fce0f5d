package loader

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/marmos91/dsomm/internal/logger"
	"github.com/marmos91/dsomm/pkg/model"
	"github.com/marmos91/dsomm/pkg/source"
)

// DefaultDebounce is how long YAML changes must settle before a reload.
const DefaultDebounce = 500 * time.Millisecond

// ReloadFunc receives the outcome of a reload triggered by a file change.
type ReloadFunc func(data *model.DataStore, err error)

// Watch reloads the data whenever a YAML file below the source directory
// changes. It blocks until ctx is cancelled.
func (s *Service) Watch(ctx context.Context, debounce time.Duration, onReload ReloadFunc) error {
	return s.WatchChanges(ctx, debounce, func(ctx context.Context) {
		data, err := s.ForceReload(ctx)
		if err != nil {
			logger.Error("Reload after change failed", logger.KeyError, err)
		}
		if onReload != nil {
			onReload(data, err)
		}
	})
}

// WatchChanges calls onChange once YAML changes below the source directory
// have settled for debounce. Callers that guard the data with their own lock
// use it to reload under that lock. It blocks until ctx is cancelled.
func (s *Service) WatchChanges(ctx context.Context, debounce time.Duration, onChange func(context.Context)) error {
	local, ok := s.src.(source.Local)
	if !ok || local.Dir() == "" {
		return ErrNotWatchable
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addDirs(watcher, local.Dir()); err != nil {
		return err
	}
	logger.Info("Watching data directory", "dir", local.Dir())

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addDirs(watcher, event.Name)
				}
			}
			if !isYAML(event.Name) || event.Op == fsnotify.Chmod {
				continue
			}
			logger.Debug("Data file changed", logger.KeyFile, event.Name, "op", event.Op.String())
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Data watcher error", logger.KeyError, err)

		case <-timer.C:
			onChange(ctx)
		}
	}
}

func addDirs(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
