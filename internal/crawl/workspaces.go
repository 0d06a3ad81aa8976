package crawl

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"linkchecker/internal/history"
	"linkchecker/internal/storage"
)

const (
	DefaultMaxVisitors = 1000
	DefaultIdleTimeout = 30 * time.Minute
)

// Workspaces hands out one orchestrator per visitor, each over its own
// persisted history. Entries are a cache over the blob: idle ones are dropped
// and reloaded on the next visit.
type Workspaces struct {
	svc      Service
	blob     history.Blob
	limit    int
	log      *zap.Logger
	notifier Notifier

	maxVisitors int
	idleTimeout time.Duration
	now         func() time.Time

	mu      sync.Mutex
	entries map[string]*workspace
}

type workspace struct {
	o        *Orchestrator
	lastUsed time.Time
}

// WorkspacesOption configures Workspaces.
type WorkspacesOption func(*Workspaces)

// WithMaxVisitors caps how many visitors are kept in memory. When full the
// least recently used idle visitor is dropped.
func WithMaxVisitors(n int) WorkspacesOption {
	return func(w *Workspaces) {
		if n > 0 {
			w.maxVisitors = n
		}
	}
}

// WithIdleTimeout drops visitors not seen for d.
func WithIdleTimeout(d time.Duration) WorkspacesOption {
	return func(w *Workspaces) {
		if d > 0 {
			w.idleTimeout = d
		}
	}
}

// WithWorkspacesClock overrides the time source used for idle tracking.
func WithWorkspacesClock(now func() time.Time) WorkspacesOption {
	return func(w *Workspaces) {
		w.now = now
	}
}

// NewWorkspaces creates an empty registry. limit caps each visitor's history
// (0 = unbounded).
func NewWorkspaces(svc Service, blob history.Blob, limit int, log *zap.Logger, notifier Notifier, opts ...WorkspacesOption) *Workspaces {
	if log == nil {
		log = zap.NewNop()
	}
	w := &Workspaces{
		svc:         svc,
		blob:        blob,
		limit:       limit,
		log:         log,
		notifier:    notifier,
		maxVisitors: DefaultMaxVisitors,
		idleTimeout: DefaultIdleTimeout,
		now:         time.Now,
		entries:     make(map[string]*workspace),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Get returns the visitor's orchestrator with its history freshly read from
// the blob. ref is the deep-linked session id, honored when the visitor is
// loaded into memory.
func (w *Workspaces) Get(ctx context.Context, visitor, ref string) (*Orchestrator, error) {
	w.mu.Lock()
	now := w.now()
	w.evictIdle(now)
	e, ok := w.entries[visitor]
	if !ok {
		if len(w.entries) >= w.maxVisitors {
			w.evictOldest()
		}
		e = &workspace{o: w.newOrchestrator(visitor)}
		w.entries[visitor] = e
	}
	e.lastUsed = now
	w.mu.Unlock()

	if err := e.o.Load(ctx, ref); err != nil {
		return nil, err
	}
	return e.o, nil
}

func (w *Workspaces) newOrchestrator(visitor string) *Orchestrator {
	store := history.NewStore(w.blob, storage.Key(visitor),
		history.WithLimit(w.limit),
		history.WithLogger(w.log),
	)
	return NewOrchestrator(w.svc, store,
		WithLogger(w.log.With(zap.String("visitor", visitor))),
		WithNotifier(w.notifier),
	)
}

// evictIdle drops visitors unseen for longer than the idle timeout. Visitors
// with a crawl in flight are kept. Called with w.mu held.
func (w *Workspaces) evictIdle(now time.Time) {
	for visitor, e := range w.entries {
		if now.Sub(e.lastUsed) > w.idleTimeout && !e.o.Busy() {
			delete(w.entries, visitor)
		}
	}
}

// evictOldest drops the least recently used visitor that is not crawling.
// Called with w.mu held.
func (w *Workspaces) evictOldest() {
	var (
		oldest string
		at     time.Time
	)
	for visitor, e := range w.entries {
		if e.o.Busy() {
			continue
		}
		if oldest == "" || e.lastUsed.Before(at) {
			oldest, at = visitor, e.lastUsed
		}
	}
	if oldest != "" {
		delete(w.entries, oldest)
		w.log.Debug("dropped least recently used visitor", zap.String("visitor", oldest))
	}
}

// Stats returns the number of visitors held in memory and the sessions they
// hold.
func (w *Workspaces) Stats() (visitors, sessions int) {
	w.mu.Lock()
	w.evictIdle(w.now())
	entries := make([]*Orchestrator, 0, len(w.entries))
	for _, e := range w.entries {
		entries = append(entries, e.o)
	}
	w.mu.Unlock()

	for _, o := range entries {
		sessions += o.store.Len()
	}
	return len(entries), sessions
}
