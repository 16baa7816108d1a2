package seed

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/Lixing-Zhang/food-dashboard/internal/models"
	"github.com/fsnotify/fsnotify"
)

// Replacer receives the freshly parsed collection after the seed file changes
type Replacer interface {
	ReplaceFoods(ctx context.Context, foods []models.Food) error
}

// FileWatcher reloads the seed file into the backend whenever it is written
type FileWatcher struct {
	path     string
	target   Replacer
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	reloaded chan struct{}
}

// NewFileWatcher watches the directory holding path. Editors often replace a
// file instead of writing it in place, so the directory is watched, not the file.
func NewFileWatcher(path string, target Replacer, logger *slog.Logger) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}

	return &FileWatcher{
		path:     abs,
		target:   target,
		watcher:  w,
		logger:   logger,
		reloaded: make(chan struct{}, 1),
	}, nil
}

// Watch blocks until ctx is done or the watcher is closed
func (fw *FileWatcher) Watch(ctx context.Context) {
	defer fw.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fw.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				fw.logger.Info("seed file changed", "path", event.Name, "op", event.Op.String())
				fw.HandleFileChange(ctx)
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Error("seed watcher error", "error", err)
		}
	}
}

// HandleFileChange reparses the seed file and pushes it into the backend.
// A file that fails to parse leaves the current collection untouched.
func (fw *FileWatcher) HandleFileChange(ctx context.Context) {
	foods, err := LoadFile(fw.path)
	if err != nil {
		fw.logger.Error("failed to reload seed file", "path", fw.path, "error", err)
		return
	}

	if err := fw.target.ReplaceFoods(ctx, foods); err != nil {
		fw.logger.Error("failed to replace foods", "error", err)
		return
	}

	fw.logger.Info("seed file reloaded", "foods", len(foods))
	select {
	case fw.reloaded <- struct{}{}:
	default:
	}
}

// Reloaded signals after each successful reload; used to observe the watcher
func (fw *FileWatcher) Reloaded() <-chan struct{} {
	return fw.reloaded
}
