// Package watcher observes the bookmark database file for external
// mutations. Importers, sync daemons and other bdk processes rewrite the
// database out from under the running TUI; the watcher turns those rewrites
// into debounced change signals so the board can refetch. It prefers
// fsnotify and falls back to stat polling on filesystems that do not
// deliver events.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is the stat cadence used when polling.
const DefaultPollInterval = 2 * time.Second

var (
	ErrFileRemoved    = errors.New("watched database file was removed")
	ErrPermission     = errors.New("permission denied")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounceDuration sets the quiet period before a change fires.
func WithDebounceDuration(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithPollInterval sets the stat cadence for polling mode.
func WithPollInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.pollInterval = d }
}

// WithOnChange sets the callback invoked after a debounced change.
func WithOnChange(fn func()) WatcherOption {
	return func(w *Watcher) { w.onChange = fn }
}

// WithOnError sets the callback invoked on watch errors.
func WithOnError(fn func(error)) WatcherOption {
	return func(w *Watcher) { w.onError = fn }
}

// WithForcePoll skips fsnotify entirely and polls.
func WithForcePoll(force bool) WatcherOption {
	return func(w *Watcher) { w.forcePoll = force }
}

// Watcher monitors one file, normally the bdk SQLite database.
type Watcher struct {
	path         string
	debounce     time.Duration
	pollInterval time.Duration
	onChange     func()
	onError      func(error)
	forcePoll    bool
	fsType       FilesystemType

	notifier  *fsnotify.Watcher
	debouncer *Debouncer
	polling   bool
	lastMod   time.Time
	lastSize  int64

	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	mu       sync.RWMutex
	changeCh chan struct{}
}

// NewWatcher prepares a watcher for path. Nothing runs until Start.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:         abs,
		debounce:     DefaultDebounceDuration,
		pollInterval: DefaultPollInterval,
		onChange:     func() {},
		onError:      func(error) {},
		changeCh:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.debouncer = NewDebouncer(w.debounce)
	return w, nil
}

// Start picks a watch mode and begins observing. Polling is chosen when
// forced (option or BDK_FORCE_POLLING / BDK_FORCE_POLL), when the database
// sits on a filesystem that swallows inotify events (NFS, SMB, FUSE), or
// when fsnotify setup fails; otherwise the database's directory is watched
// so atomic replace-by-rename writes are still seen.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}

	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.fsType = DetectFilesystemType(w.path)

	forced := w.forcePoll || envBool("BDK_FORCE_POLLING") || envBool("BDK_FORCE_POLL")
	w.polling = forced || isRemoteFilesystem(w.fsType)

	// Baseline stat for the poll comparison. A missing database is fine;
	// the first import will create it.
	if info, err := os.Stat(w.path); err != nil {
		if os.IsPermission(err) {
			return ErrPermission
		}
		w.lastMod = time.Time{}
		w.lastSize = 0
	} else {
		w.lastMod = info.ModTime()
		w.lastSize = info.Size()
	}

	if !w.polling {
		if fsw, err := fsnotify.NewWatcher(); err != nil {
			w.polling = true
		} else if err := fsw.Add(filepath.Dir(w.path)); err != nil {
			fsw.Close()
			w.polling = true
		} else {
			w.notifier = fsw
			go w.runEvents()
		}
	}
	if w.polling {
		go w.runPolling()
	}

	w.started = true
	return nil
}

// Stop cancels the watch goroutines. The change channel stays open: closing
// it would race with pending notifications and wake any command blocked on
// Changed into a busy loop, and Stop only happens at program exit anyway.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}
	if w.cancel != nil {
		w.cancel()
	}
	if w.notifier != nil {
		w.notifier.Close()
		w.notifier = nil
	}
	w.debouncer.Cancel()
	w.started = false
}

// IsPolling reports whether the watcher runs in polling mode.
func (w *Watcher) IsPolling() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.polling
}

// IsStarted reports whether Start has run.
func (w *Watcher) IsStarted() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.started
}

// Changed returns a channel that receives after each debounced change, as an
// alternative to the OnChange callback. The TUI's watch command blocks on it.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changeCh
}

// Path returns the watched database path.
func (w *Watcher) Path() string {
	return w.path
}

// FilesystemType returns the classification made at Start, for the debug
// overlay.
func (w *Watcher) FilesystemType() FilesystemType {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.fsType
}

// PollInterval returns the stat cadence used when polling.
func (w *Watcher) PollInterval() time.Duration {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.pollInterval
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// runEvents consumes fsnotify events for the database's directory and keeps
// only the ones naming the database itself. SQLite and importers write
// siblings (journals, temp files for atomic renames) that must not trigger
// a refetch.
func (w *Watcher) runEvents() {
	target := filepath.Base(w.path)

	// Snapshot the channels; Stop nils out the notifier under the lock.
	w.mu.RLock()
	if w.notifier == nil {
		w.mu.RUnlock()
		return
	}
	events, errs := w.notifier.Events, w.notifier.Errors
	w.mu.RUnlock()

	for {
		select {
		case <-w.ctx.Done():
			return

		case ev, ok := <-events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != target {
				continue
			}
			switch {
			case ev.Op&fsnotify.Remove != 0:
				w.onError(ErrFileRemoved)
			case ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				w.debouncer.Trigger(w.fire)
			}

		case err, ok := <-errs:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

// runPolling stats the database on a ticker and fires when mtime or size
// move.
func (w *Watcher) runPolling() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				switch {
				case os.IsNotExist(err):
					// Removal only matters if the database ever existed.
					w.mu.RLock()
					had := !w.lastMod.IsZero()
					w.mu.RUnlock()
					if had {
						w.onError(ErrFileRemoved)
					}
				case os.IsPermission(err):
					w.onError(ErrPermission)
				default:
					w.onError(err)
				}
				continue
			}

			w.mu.Lock()
			changed := info.ModTime().After(w.lastMod) || info.Size() != w.lastSize
			if changed {
				w.lastMod = info.ModTime()
				w.lastSize = info.Size()
			}
			w.mu.Unlock()

			if changed {
				w.debouncer.Trigger(w.fire)
			}
		}
	}
}

// fire invokes the change callback and signals the channel without blocking.
func (w *Watcher) fire() {
	w.mu.RLock()
	started := w.started
	w.mu.RUnlock()
	// Best-effort suppression after Stop; the callbacks are idempotent, so
	// losing the race is harmless.
	if !started {
		return
	}

	w.onChange()

	select {
	case w.changeCh <- struct{}{}:
	default:
	}
}
