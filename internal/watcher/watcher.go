// Package watcher reports edits to a session file so plans can be
// recomputed as the file changes.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrBadDebounce is returned for a non-positive debounce interval.
var ErrBadDebounce = errors.New("debounce must be positive")

// ChangeKind describes the type of file change detected.
type ChangeKind int

const (
	ChangeModified ChangeKind = iota // file written or replaced
	ChangeRemoved                    // file no longer exists
)

// String returns the lowercase name used in log output.
func (k ChangeKind) String() string {
	if k == ChangeRemoved {
		return "removed"
	}
	return "modified"
}

// Change is one debounced change to the watched file.
type Change struct {
	Kind ChangeKind
	Path string
	At   time.Time
}

// Watcher monitors one session file using fsnotify. It watches the parent
// directory, since atomic saves replace the file rather than writing it in
// place.
type Watcher struct {
	Path    string
	Changes <-chan Change // Read-only external channel

	changes  chan Change
	done     chan struct{}
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger
}

// New creates a watcher for the file at path. Events closer together than
// debounce are reported once. A nil logger discards log output.
func New(path string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		return nil, fmt.Errorf("watcher: %w: %s", ErrBadDebounce, debounce)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watcher: resolve %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}

	ch := make(chan Change, 16)
	return &Watcher{
		Path:     abs,
		Changes:  ch,
		changes:  ch,
		done:     make(chan struct{}),
		watcher:  fw,
		debounce: debounce,
		logger:   logger,
	}, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		return fmt.Errorf("watcher: watch %s: %w", filepath.Dir(w.Path), err)
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.changes)
}

// Run starts the watcher and calls fn for every change until ctx is done or
// fn returns an error. The watcher is stopped before Run returns.
func (w *Watcher) Run(ctx context.Context, fn func(Change) error) error {
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case c, ok := <-w.Changes:
			if !ok {
				return nil
			}
			if err := fn(c); err != nil {
				return err
			}
		}
	}
}

func (w *Watcher) loop() {
	defer close(w.done)

	var pending time.Time
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				if !pending.IsZero() {
					w.emit()
				}
				return
			}
			if event.Name != w.Path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case <-ticker.C:
			if !pending.IsZero() && time.Since(pending) >= w.debounce {
				w.emit()
				pending = time.Time{}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal.
			w.logger.Warn("watch error", "path", w.Path, "error", err)
		}
	}
}

func (w *Watcher) emit() {
	c := Change{Kind: ChangeModified, Path: w.Path, At: time.Now()}
	if _, err := os.Stat(w.Path); errors.Is(err, os.ErrNotExist) {
		c.Kind = ChangeRemoved
	}
	select {
	case w.changes <- c:
		w.logger.Debug("session file changed", "path", w.Path, "kind", c.Kind)
	default:
		// Consumers reload the file, so a change already queued covers this one.
		w.logger.Debug("change dropped, consumer busy", "path", w.Path)
	}
}
