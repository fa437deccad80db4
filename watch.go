package memfs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// EventKind classifies a single WatchEvent.
type EventKind int

const (
	EventCreate EventKind = iota
	EventDelete
	EventModify
)

func (k EventKind) String() string {
	switch k {
	case EventCreate:
		return "CREATE"
	case EventDelete:
		return "DELETE"
	case EventModify:
		return "MODIFY"
	default:
		return "UNKNOWN"
	}
}

// WatchEvent describes one detected change within a watched directory.
type WatchEvent struct {
	Kind EventKind
	Name Name
}

// WatchKey represents one registered directory, accumulating WatchEvents
// between Take/Poll calls.
type WatchKey struct {
	id       string
	dir      *File
	path     Path
	mu       sync.Mutex
	baseline map[string]watchedEntry
	events   []WatchEvent
	queued   bool
}

// ID returns a process-unique identifier for this key: a random UUID minted
// once at registration and carried for the key's lifetime, useful for
// correlating watch activity in logs across many registered directories.
func (k *WatchKey) ID() string { return k.id }

// watchedEntry is one baseline row: the displayed Name and last-modified
// time of an entry, keyed by canonical form so renames-by-case don't get
// misread as a create+delete pair under a case-insensitive filesystem.
type watchedEntry struct {
	name    Name
	modTime int64
}

// Path returns the watched directory's path as registered.
func (k *WatchKey) Path() Path { return k.path }

// PollEvents drains and returns the events accumulated on this key since the
// last call.
func (k *WatchKey) PollEvents() []WatchEvent {
	k.mu.Lock()
	defer k.mu.Unlock()
	out := k.events
	k.events = nil
	return out
}

func snapshotOf(dir *File) map[string]watchedEntry {
	out := make(map[string]watchedEntry)
	for _, e := range dir.Directory().Snapshot() {
		out[e.Name.Canonical()] = watchedEntry{name: e.Name, modTime: e.File.ModifiedMillis()}
	}
	return out
}

// WatchService runs a polling watch model: a background worker periodically
// re-snapshots every registered directory concurrently (fanned out with
// golang.org/x/sync/errgroup), diffs against each key's baseline, and
// transfers keys with new events onto a ready queue that Take/Poll consume.
type WatchService struct {
	interval time.Duration

	mu      sync.RWMutex
	keys    map[*WatchKey]struct{}
	ready   chan *WatchKey
	closed  bool
	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewWatchService starts a WatchService polling every interval.
func NewWatchService(interval time.Duration) *WatchService {
	ctx, cancel := context.WithCancel(context.Background())
	s := &WatchService{
		interval: interval,
		keys:     make(map[*WatchKey]struct{}),
		ready:    make(chan *WatchKey, 64),
		cancel:   cancel,
		stopped:  make(chan struct{}),
	}
	go s.run(ctx)
	return s
}

// Register begins watching dir, returning a WatchKey holding its initial
// snapshot.
func (s *WatchService) Register(dir *File, path Path) (*WatchKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, newErr(CodeClosedWatchService, path.String(), "watch service is closed")
	}
	key := &WatchKey{id: uuid.NewString(), dir: dir, path: path, baseline: snapshotOf(dir)}
	s.keys[key] = struct{}{}
	return key, nil
}

// Cancel stops watching the directory associated with key.
func (s *WatchService) Cancel(key *WatchKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
}

func (s *WatchService) run(ctx context.Context) {
	defer close(s.stopped)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pollOnce(ctx)
		}
	}
}

func (s *WatchService) pollOnce(ctx context.Context) {
	s.mu.RLock()
	keys := make([]*WatchKey, 0, len(s.keys))
	for k := range s.keys {
		keys = append(keys, k)
	}
	s.mu.RUnlock()

	g, _ := errgroup.WithContext(ctx)
	for _, key := range keys {
		key := key
		g.Go(func() error {
			s.refreshKey(key)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *WatchService) refreshKey(key *WatchKey) {
	current := snapshotOf(key.dir)

	key.mu.Lock()
	var events []WatchEvent
	for _, e := range key.dir.Directory().Snapshot() {
		canon := e.Name.Canonical()
		old, existed := key.baseline[canon]
		if !existed {
			events = append(events, WatchEvent{Kind: EventCreate, Name: e.Name})
		} else if old.modTime != current[canon].modTime {
			events = append(events, WatchEvent{Kind: EventModify, Name: e.Name})
		}
	}
	for canon, old := range key.baseline {
		if _, stillThere := current[canon]; !stillThere {
			events = append(events, WatchEvent{Kind: EventDelete, Name: old.name})
		}
	}
	key.baseline = current
	hadNone := len(key.events) == 0
	key.events = append(key.events, events...)
	shouldQueue := len(events) > 0 && (hadNone && !key.queued)
	if shouldQueue {
		key.queued = true
	}
	key.mu.Unlock()

	if shouldQueue {
		select {
		case s.ready <- key:
		default:
		}
	}
}

// Take blocks until a key with pending events is ready, or returns
// CodeClosedWatchService if the service is closed while waiting.
func (s *WatchService) Take() (*WatchKey, error) {
	key, ok := <-s.ready
	if !ok {
		return nil, newErr(CodeClosedWatchService, "", "watch service is closed")
	}
	s.clearQueued(key)
	return key, nil
}

// Poll waits up to timeout for a ready key, returning (nil, nil) on timeout.
func (s *WatchService) Poll(timeout time.Duration) (*WatchKey, error) {
	select {
	case key, ok := <-s.ready:
		if !ok {
			return nil, newErr(CodeClosedWatchService, "", "watch service is closed")
		}
		s.clearQueued(key)
		return key, nil
	case <-time.After(timeout):
		return nil, nil
	}
}

func (s *WatchService) clearQueued(key *WatchKey) {
	key.mu.Lock()
	key.queued = false
	key.mu.Unlock()
}

// Close stops the background poller and unblocks every consumer currently
// parked in Take/Poll with CodeClosedWatchService, by closing the ready
// queue under the write lock: every blocked receive observes the close in
// the same atomic step.
func (s *WatchService) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.cancel()
	close(s.ready)
	s.mu.Unlock()

	<-s.stopped
	return nil
}
