// Package watch re-runs the organizer when files appear in the source roots.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"orgsort/internal/logging"
)

// RunFunc performs one organizer pass.
type RunFunc func(ctx context.Context) error

// Watcher debounces filesystem events on the source roots and serializes runs.
type Watcher struct {
	roots    []string
	debounce time.Duration
	run      RunFunc
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
}

// New creates a watcher over roots. Roots that cannot be watched are logged
// and skipped; it is an error when none can be watched.
func New(roots []string, debounce time.Duration, run RunFunc, logger *slog.Logger) (*Watcher, error) {
	if run == nil {
		return nil, errors.New("watch: run func is nil")
	}
	if debounce <= 0 {
		debounce = time.Second
	}
	logger = logging.NewComponentLogger(logger, "watch")

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	watched := make([]string, 0, len(roots))
	for _, root := range roots {
		if err := fsw.Add(root); err != nil {
			logging.WarnWithContext(logger, "source root not watched", "watch_add_failed",
				logging.String("source_root", root),
				logging.Error(err),
				logging.String(logging.FieldImpact, "new files in this root are not picked up automatically"),
			)
			continue
		}
		watched = append(watched, root)
	}
	if len(watched) == 0 {
		_ = fsw.Close()
		return nil, errors.New("watch: no source root could be watched")
	}
	return &Watcher{roots: watched, debounce: debounce, run: run, logger: logger, watcher: fsw}, nil
}

// Roots returns the watched directories.
func (w *Watcher) Roots() []string {
	return append([]string(nil), w.roots...)
}

// Run performs an initial pass, then re-runs after each quiet period that
// follows new or modified files. At most one pass executes at a time; events
// during a pass schedule exactly one follow-up. Run returns when ctx is done,
// after the in-flight pass finishes.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		running bool
		pending bool
		done    = make(chan error, 1)
	)
	start := func() {
		running = true
		go func() { done <- w.run(ctx) }()
	}

	w.logger.Info("watching source roots",
		logging.Strings("roots", w.roots),
		logging.Duration("debounce", w.debounce),
	)
	start()

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			if running {
				<-done
			}
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			w.logger.Debug("change detected", logging.String("file", event.Name), logging.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Stop()
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", logging.Error(err))

		case <-timerC:
			timerC = nil
			if running {
				pending = true
				continue
			}
			start()

		case err := <-done:
			running = false
			if err != nil {
				logging.ErrorWithContext(w.logger, "organizer run failed", "watch_run_failed", logging.Error(err))
			}
			if pending && ctx.Err() == nil {
				pending = false
				start()
			}
		}
	}
}

// relevant reports whether event may have brought a new file into a root.
// Removals and renames away are the organizer's own moves.
func relevant(event fsnotify.Event) bool {
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write)
}
