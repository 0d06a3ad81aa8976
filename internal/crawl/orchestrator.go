package crawl

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"linkchecker/internal/history"
	"linkchecker/internal/metrics"
	"linkchecker/internal/models"
	"linkchecker/internal/validation"
)

var (
	ErrEmptyURL        = errors.New("url is required")
	ErrCrawlInProgress = errors.New("a crawl is already running")
	ErrCrawlFailed     = errors.New("crawl failed")
)

// Notifier is told about every successful crawl.
type Notifier interface {
	CrawlCompleted(ctx context.Context, session models.CrawlSession)
}

// Orchestrator turns submitted URLs into crawl sessions for one visitor.
// At most one crawl runs at a time; further submissions are rejected.
type Orchestrator struct {
	svc      Service
	store    *history.Store
	log      *zap.Logger
	notifier Notifier
	now      func() time.Time
	newID    func() string

	mu       sync.Mutex
	crawling bool

	loadMu sync.Mutex
	loaded bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

// WithNotifier sets the notifier called after successful crawls.
func WithNotifier(n Notifier) Option {
	return func(o *Orchestrator) {
		o.notifier = n
	}
}

// WithClock overrides the time source used to date sessions.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// WithIDGenerator overrides session id generation.
func WithIDGenerator(newID func() string) Option {
	return func(o *Orchestrator) {
		o.newID = newID
	}
}

// NewOrchestrator creates an orchestrator recording into store.
func NewOrchestrator(svc Service, store *history.Store, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		svc:   svc,
		store: store,
		log:   zap.NewNop(),
		now:   time.Now,
		newID: newSessionID,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// newSessionID returns a time-ordered UUIDv7.
func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// History returns the store the orchestrator records into.
func (o *Orchestrator) History() *history.Store {
	return o.store
}

// Load reads the persisted history. ref selects a session on the first
// successful load; later calls re-read the blob and keep the selection.
func (o *Orchestrator) Load(ctx context.Context, ref string) error {
	o.loadMu.Lock()
	defer o.loadMu.Unlock()

	if o.loaded {
		return o.store.Reload(ctx)
	}
	if err := o.store.Load(ctx, ref); err != nil {
		return err
	}
	o.loaded = true
	return nil
}

// Busy reports whether a crawl is in flight.
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.crawling
}

// State reports the current phase of the workflow.
func (o *Orchestrator) State() State {
	if o.Busy() {
		return State{Phase: PhaseCrawling}
	}
	if id := o.store.SelectedID(); id != "" {
		return State{Phase: PhaseViewing, SessionID: id}
	}
	return State{Phase: PhaseIdle}
}

// View selects a past session. Unknown ids change nothing and return false.
func (o *Orchestrator) View(id string) bool {
	return o.store.Select(id)
}

// Submit crawls the normalized form of raw and records the result as the new,
// selected session. Once started the crawl is not canceled with ctx.
func (o *Orchestrator) Submit(ctx context.Context, raw string) (models.CrawlSession, error) {
	target := validation.NormalizeCrawlURL(raw)
	if target == "" {
		return models.CrawlSession{}, ErrEmptyURL
	}

	o.mu.Lock()
	if o.crawling {
		o.mu.Unlock()
		return models.CrawlSession{}, ErrCrawlInProgress
	}
	o.crawling = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.crawling = false
		o.mu.Unlock()
	}()

	ctx = context.WithoutCancel(ctx)
	log := o.log.With(zap.String("url", target), zap.String("history", o.store.Name()))
	start := time.Now()

	records, err := o.svc.Crawl(ctx, target)
	if err != nil {
		log.Error("crawl failed", zap.Error(err))
		metrics.RecordCrawl(metrics.OutcomeFailed, time.Since(start))
		return models.CrawlSession{}, fmt.Errorf("%w: %w", ErrCrawlFailed, err)
	}

	session := models.CrawlSession{
		ID:      o.newID(),
		URL:     target,
		Date:    o.now().UTC().Truncate(time.Millisecond),
		Results: append([]models.LinkRecord(nil), records...),
	}

	if err := o.store.Append(ctx, session); err != nil {
		log.Error("failed to record crawl", zap.Error(err))
		metrics.RecordCrawl(metrics.OutcomePersistFailed, time.Since(start))
		return models.CrawlSession{}, fmt.Errorf("%w: %w", ErrCrawlFailed, err)
	}
	o.store.Select(session.ID)
	metrics.RecordCrawl(metrics.OutcomeSucceeded, time.Since(start))

	log.Info("crawl completed",
		zap.String("session_id", session.ID),
		zap.Int("links", len(session.Results)),
		zap.Int("broken", session.BrokenCount()),
	)

	if o.notifier != nil {
		o.notifier.CrawlCompleted(ctx, session)
	}

	return session, nil
}
