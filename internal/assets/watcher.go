package assets

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultQuietPeriod is how long a directory must stay unchanged before
// the watcher reports a change.
const DefaultQuietPeriod = 250 * time.Millisecond

// Watcher reports changes to the set of supported images in a directory.
// Bursts of events are coalesced into a single onChange call.
type Watcher struct {
	dir      string
	onChange func()
	quiet    time.Duration
	logger   *slog.Logger

	fsw *fsnotify.Watcher
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithQuietPeriod sets the coalescing window.
func WithQuietPeriod(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.quiet = d
		}
	}
}

// WithWatcherLogger sets the logger.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWatcher starts watching dir. Events are delivered once Run is called.
func NewWatcher(dir string, onChange func(), opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		dir:      dir,
		onChange: onChange,
		quiet:    DefaultQuietPeriod,
		logger:   slog.Default(),
		fsw:      fsw,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Run delivers coalesced change notifications until ctx is done, then
// releases the underlying watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	timer := time.NewTimer(w.quiet)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			w.logger.Debug("Directory event", "path", ev.Name, "op", ev.Op.String())
			timer.Reset(w.quiet)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Directory watch error", "dir", w.dir, "error", err)

		case <-timer.C:
			if w.onChange != nil {
				w.onChange()
			}
		}
	}
}

// relevant keeps events that change which images exist
func relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	return IsSupported(ev.Name)
}
