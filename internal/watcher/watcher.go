// Package watcher monitors the user's Claude settings file while the daemon
// runs, so hook registration can be regenerated when the user edits their own
// configuration mid-session.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce coalesces editor write bursts (truncate+write, atomic
// rename) into a single change notification.
const defaultDebounce = 500 * time.Millisecond

// Watcher watches a single settings file and invokes a callback after it
// changes.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func()
}

// New creates a Watcher for the given settings file path. onChange runs on
// the watch goroutine after each debounced change.
func New(settingsPath string, onChange func()) *Watcher {
	return &Watcher{
		path:     settingsPath,
		debounce: defaultDebounce,
		onChange: onChange,
	}
}

// SetDebounce overrides the debounce interval. Intended for tests.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run blocks until ctx is cancelled, invoking the callback whenever the
// settings file is written, created, or replaced. The parent directory is
// watched rather than the file itself: editors and Claude Code both replace
// settings.json by rename, which drops a direct file watch.
func (w *Watcher) Run(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("settings dir %s: %w", dir, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	name := filepath.Base(w.path)
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if w.onChange != nil {
				w.onChange()
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch error: %w", err)
		}
	}
}
