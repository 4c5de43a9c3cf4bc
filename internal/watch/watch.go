// Package watch re-runs the scan pipeline whenever the target tree changes.
package watch

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/qualitygate/qualitygate/internal/target"
	"github.com/qualitygate/qualitygate/internal/util"
)

// DefaultDebounce is how long the watcher waits after the last event
// before re-running the pipeline.
const DefaultDebounce = 500 * time.Millisecond

// Run watches root recursively and invokes fn after each debounced burst
// of filesystem events. It returns when ctx is cancelled.
func Run(ctx context.Context, root string, debounce time.Duration, logger *zap.Logger, fn func(context.Context) error) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addRecursive(watcher, root); err != nil {
		return err
	}

	logger.Info("watching for changes", zap.String("root", root))

	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if skipEvent(event) {
				continue
			}
			// New directories need their own watch.
			if event.Op.Has(fsnotify.Create) && util.DirExists(event.Name) {
				_ = addRecursive(watcher, event.Name)
			}
			if timer == nil {
				timer = time.AfterFunc(debounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))

		case <-fire:
			timer = nil
			logger.Info("change detected, rescanning")
			if err := fn(ctx); err != nil {
				logger.Warn("scan after change failed", zap.Error(err))
			}
		}
	}
}

func skipEvent(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)
	if target.IgnoredDirs[strings.ToLower(base)] || strings.HasPrefix(base, ".") {
		return true
	}
	// Temp files from atomic report writes would otherwise retrigger scans.
	return strings.Contains(base, ".tmp")
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != root && (target.IgnoredDirs[strings.ToLower(name)] || strings.HasPrefix(name, ".")) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
