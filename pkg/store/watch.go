package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType describes the nature of a persistence change notification.
type EventType int

const (
	// EventProjectChanged indicates the stored copy of ProjectID was written
	// or removed.
	EventProjectChanged EventType = iota

	// EventLibraryInvalidated signals a change that could not be tied to a
	// single project; callers should refresh their full view.
	EventLibraryInvalidated
)

// Event is emitted by Persistence.Watch when underlying storage changes.
type Event struct {
	Type      EventType
	ProjectID uint64
}

// Watch streams change events until ctx is cancelled. Callers should drain the
// returned channel to avoid blocking the watcher. The channel is closed once
// ctx is done or the watcher encounters an unrecoverable error.
func (p *persistence) Watch(ctx context.Context) (<-chan Event, error) {
	if p.basePath == "" {
		return nil, errors.New("store: persistence base path unknown")
	}

	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				p.log().Debug("store: watcher close", "error", err)
			}
		})
	}

	dirs, err := collectDirs(p.basePath)
	if err != nil {
		closeWatcher()
		return nil, fmt.Errorf("store: enumerate directories: %w", err)
	}

	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			closeWatcher()
			return nil, fmt.Errorf("store: watch %s: %w", dir, err)
		}
	}

	events := make(chan Event, 64)

	go func() {
		defer close(events)
		defer closeWatcher()

		// Track directories we already watch so we can add new ones at runtime
		// without duplicating watches.
		watched := make(map[string]struct{}, len(dirs))
		for _, dir := range dirs {
			watched[dir] = struct{}{}
		}

		send := func(ev Event) {
			select {
			case events <- ev:
			default:
				// Drop events if the consumer is not ready; a later
				// refresh picks up the change.
			}
		}

		throttle := newEventThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				throttle.Enqueue(p.watchError(err), send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}

				if evt.Op&fsnotify.Create == fsnotify.Create {
					// If a new directory appears, start watching it to capture
					// subsequent file writes.
					if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
						absDir := filepath.Clean(evt.Name)
						if _, found := watched[absDir]; !found {
							if err := watcher.Add(absDir); err != nil {
								p.log().Debug("store: watch directory", "dir", absDir, "error", err)
							} else {
								watched[absDir] = struct{}{}
							}
						}
						throttle.Enqueue(Event{Type: EventLibraryInvalidated}, send)
						continue
					}
				}

				id, ok := projectForPath(evt.Name)
				if !ok {
					throttle.Enqueue(Event{Type: EventLibraryInvalidated}, send)
					continue
				}

				throttle.Enqueue(Event{Type: EventProjectChanged, ProjectID: id}, send)
			}
		}
	}()

	return events, nil
}

// watchError logs a watcher failure and surfaces it as a full refresh.
func (p *persistence) watchError(err error) Event {
	p.log().Debug("store: watcher error", "path", p.basePath, "error", err)
	return Event{Type: EventLibraryInvalidated}
}

// collectDirs walks base and returns all directories that should be watched.
func collectDirs(base string) ([]string, error) {
	dirs := []string{base}
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() && path != base {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

// projectForPath derives the project id from a library file path. Temporary
// files written by diskv do not map to a project.
func projectForPath(path string) (uint64, bool) {
	name, ok := strings.CutSuffix(filepath.Base(path), projectSuffix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(name, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// eventThrottle coalesces rapid change notifications into one event per
// project per burst of filesystem activity.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[EventType]map[uint64]struct{}
	delay   time.Duration
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[EventType]map[uint64]struct{}),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	if t.pending[ev.Type] == nil {
		t.pending[ev.Type] = make(map[uint64]struct{})
	}
	t.pending[ev.Type][ev.ProjectID] = struct{}{}

	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	pending := t.pending
	t.pending = make(map[EventType]map[uint64]struct{})
	t.timer = nil
	t.mu.Unlock()

	for eventType, ids := range pending {
		if eventType == EventLibraryInvalidated {
			send(Event{Type: eventType})
			continue
		}
		for id := range ids {
			send(Event{Type: eventType, ProjectID: id})
		}
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
