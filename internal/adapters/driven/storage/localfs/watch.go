package localfs

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/sdindex/internal/logger"
)

// DefaultDebounce is how long Watch waits for changes to settle.
const DefaultDebounce = 500 * time.Millisecond

// Watch calls fn whenever a document or its metadata under dir changes.
// Bursts of events within debounce collapse into one call. Watch blocks
// until ctx is cancelled; errors from fn are logged and watching continues.
func Watch(ctx context.Context, dir string, debounce time.Duration, fn func(context.Context) error) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := addRecursive(watcher, dir); err != nil {
		return err
	}
	logger.Info("watching %s", dir)

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
				return fmt.Errorf("watcher events channel closed")
			}
			if !handleFsEvent(watcher, dir, event) {
				continue
			}
			logger.Debug("change detected: %s %s", event.Op, event.Name)
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			logger.Warn("watcher error: %v", err)

		case <-timer.C:
			if err := fn(ctx); err != nil {
				logger.Error("rebuild after change: %v", err)
			}
		}
	}
}

// handleFsEvent reports whether an event should trigger fn. New
// directories are added to the watcher as they appear and trigger fn, since
// files may land in them before the watch is in place.
func handleFsEvent(watcher *fsnotify.Watcher, root string, event fsnotify.Event) bool {
	if event.Has(fsnotify.Create) && isDir(event.Name) {
		if err := addRecursive(watcher, event.Name); err != nil {
			logger.Warn("%v", err)
		}
		return true
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return isWatchedFile(root, event.Name)
}

// isWatchedFile reports whether path is a document or metadata file.
func isWatchedFile(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range []string{DocumentPattern, "**/" + MetadataFile} {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// addRecursive adds dir and every directory below it to the watcher.
func addRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
