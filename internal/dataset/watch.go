package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// writes to the snapshot usually arrive as a burst of events
var watchDebounce = 500 * time.Millisecond

// Watch reloads the workbook at path whenever it changes and passes every workbook
// that parses to apply. A broken workbook is logged and the previous data stays in use.
// Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, logger *zap.Logger, apply func(*Dataset)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	path = filepath.Clean(path)
	// the directory, not the file: editors and copy tools replace files by rename
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}
	logger.Info("Watching snapshot", zap.String("path", path))

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Snapshot watcher error", zap.Error(err))

		case <-timer.C:
			ds, err := LoadFile(path)
			if err != nil {
				logger.Error("Failed to reload snapshot, keeping previous data", zap.Error(err))
				continue
			}
			logger.Info("Snapshot reloaded",
				zap.Int("settlements", len(ds.Settlements)),
				zap.Int("offers", len(ds.Offers)),
				zap.Int("coverage", len(ds.Coverage)))
			apply(ds)
		}
	}
}
