package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ziadkadry99/code-landscape/internal/graphdoc"
)

// DefaultDebounce is how long Watch waits for writes to settle.
const DefaultDebounce = 200 * time.Millisecond

// WatchOptions configures Watch.
type WatchOptions struct {
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watch reloads the document at path whenever it is written, created or
// renamed into place, and passes each successfully decoded document to fn.
// Decode failures are logged and the previous document is left alone. Watch
// blocks until ctx is cancelled.
//
// The parent directory is watched rather than the file so that editors that
// replace the file atomically keep triggering reloads.
func Watch(ctx context.Context, path string, opts WatchOptions, fn func(*graphdoc.Document)) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	timer := time.NewTimer(opts.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(opts.Debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "path", abs, "error", err)

		case <-timer.C:
			doc, err := graphdoc.LoadFile(abs)
			if err != nil {
				logger.Warn("reload failed, keeping previous document", "path", abs, "error", err)
				continue
			}
			logger.Info("document reloaded", "path", abs, "nodes", len(doc.Nodes), "edges", len(doc.Edges))
			fn(doc)
		}
	}
}
