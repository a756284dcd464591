package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/notebook/pkg/core"
)

const watchDebounce = 50 * time.Millisecond

// Watch implements core.Watchable.
// It reports changes to the notes file made by other writers. Writes performed
// through this repository are recognized by content and not reported.
func (r *Repository) Watch(ctx context.Context) (<-chan core.Event, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	events := make(chan core.Event, 16)
	w := newWatchWorker(r, events)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

type watchWorker struct {
	repo      *Repository
	target    string
	events    chan core.Event
	watcher   *fsnotify.Watcher
	debouncer *debouncer
}

func newWatchWorker(repo *Repository, events chan core.Event) *watchWorker {
	return &watchWorker{
		repo:   repo,
		target: filepath.Base(repo.Path),
		events: events,
	}
}

// Start watches the directory of the notes file, since atomic saves replace the
// file and would drop a watch placed on the file itself.
func (w *watchWorker) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	dir := filepath.Dir(w.repo.Path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.watcher = watcher
	w.debouncer = newDebouncer(watchDebounce)
	w.repo.setWatcherActive(true)

	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		w.reportError(fmt.Errorf("watcher panic: %w", err))
	}))
	return nil
}

// run is the main event loop for the watcher worker.
func (w *watchWorker) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)

			logger := w.repo.config.Logger
			if logger != nil && logger.Enabled(ctx, slog.LevelDebug) {
				logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else if logger != nil {
				logger.Error("watcher panic", "error", err)
			}
		}
	}()
	defer close(w.events)
	defer w.repo.setWatcherActive(false)
	defer w.watcher.Close()

	err = w.mainEventLoop(ctx)

	// Wait for in-flight debounced sends before the events channel is closed.
	w.debouncer.stopAndWait(5 * time.Second)

	return err
}

func (w *watchWorker) mainEventLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.processFilesystemEvent(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.reportError(wErr)
		}
	}
}

// processFilesystemEvent filters events down to the notes file and debounces them.
func (w *watchWorker) processFilesystemEvent(ctx context.Context, event fsnotify.Event) bool {
	if filepath.Base(event.Name) != w.target {
		return false
	}

	eType := mapEventType(event)
	if eType == "" {
		return false
	}

	if w.repo.config.Logger != nil {
		w.repo.config.Logger.Debug("notes file event", "op", event.Op.String(), "path", event.Name)
	}

	w.debouncer.add(core.Event{
		Type:      eType,
		Path:      w.repo.Path,
		Timestamp: time.Now().Unix(),
	}, func(e core.Event) {
		w.settle(ctx, e)
	})
	return true
}

// settle runs once the file has been quiet for the debounce window.
// It compares the current content with what the repository last read or wrote.
func (w *watchWorker) settle(ctx context.Context, e core.Event) {
	data, err := os.ReadFile(w.repo.Path)
	switch {
	case os.IsNotExist(err):
		data = nil
		e.Type = core.EventDelete
	case err != nil:
		w.reportError(&core.StorageError{Op: "read", Path: w.repo.Path, Err: err})
		return
	case e.Type == core.EventDelete:
		e.Type = core.EventModify
	}

	if w.repo.isOwnContent(data) {
		return
	}
	w.repo.recordExternalChange()

	defer func() {
		// Recover from panic if channel was closed (worker stopping)
		_ = recover()
	}()
	select {
	case w.events <- e:
	case <-ctx.Done():
	}
}

func (w *watchWorker) reportError(err error) {
	if w.repo.config.Logger != nil {
		w.repo.config.Logger.Error("watcher error", "error", err)
	}
	if w.repo.config.ErrorHandler != nil {
		w.repo.config.ErrorHandler(err)
	}
}

func mapEventType(event fsnotify.Event) core.EventType {
	switch {
	case event.Has(fsnotify.Create):
		return core.EventCreate
	case event.Has(fsnotify.Write):
		return core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return core.EventDelete
	default:
		return ""
	}
}
