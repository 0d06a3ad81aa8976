// Package history keeps a visitor's ordered crawl history and the session
// currently on screen, persisted as a single named blob.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"linkchecker/internal/models"
)

// ErrPersist is returned when the history could not be written back.
var ErrPersist = errors.New("failed to persist crawl history")

// Blob reads and writes one named chunk of bytes. Read returns nil data and a
// nil error when nothing has been stored under name.
type Blob interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
}

// Store is the in-memory history of one visitor, written through to a Blob on
// every mutation.
type Store struct {
	mu       sync.RWMutex
	blob     Blob
	name     string
	limit    int
	log      *zap.Logger
	sessions []models.CrawlSession
	selected string
}

// Option configures a Store.
type Option func(*Store)

// WithLimit caps the history at n sessions, evicting the oldest first.
// Zero or a negative value keeps the history unbounded.
func WithLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithLogger sets the logger used for load warnings.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// NewStore creates an empty store persisting under the given blob name.
func NewStore(blob Blob, name string, opts ...Option) *Store {
	s := &Store{
		blob: blob,
		name: name,
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the blob name the store persists under.
func (s *Store) Name() string {
	return s.name
}

// Load replaces the in-memory history with the persisted one. A missing or
// unreadable blob yields an empty history. If ref names a loaded session it
// becomes selected; otherwise nothing is selected.
func (s *Store) Load(ctx context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, ref)
}

// Reload re-reads the persisted history, keeping the current selection when
// that session is still present. Another process may have appended to the
// blob since the last read.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, s.selected)
}

// load must be called with s.mu held so a concurrent Append cannot be lost
// between the read and the swap.
func (s *Store) load(ctx context.Context, ref string) error {
	data, err := s.blob.Read(ctx, s.name)
	if err != nil {
		return fmt.Errorf("failed to read crawl history: %w", err)
	}

	var sessions []models.CrawlSession
	if len(data) > 0 {
		if err := json.Unmarshal(data, &sessions); err != nil {
			s.log.Warn("discarding unreadable crawl history",
				zap.String("blob", s.name),
				zap.Error(err),
			)
			sessions = nil
		}
	}

	s.sessions = sessions
	s.selected = ""
	if ref != "" && s.indexOf(ref) >= 0 {
		s.selected = ref
	}
	return nil
}

// Append puts session at the front of the history and persists the full list.
// If the write fails the in-memory history is restored and ErrPersist is
// returned.
func (s *Store) Append(ctx context.Context, session models.CrawlSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevSessions := s.sessions
	prevSelected := s.selected

	next := make([]models.CrawlSession, 0, len(s.sessions)+1)
	next = append(next, session)
	next = append(next, s.sessions...)
	if s.limit > 0 && len(next) > s.limit {
		next = next[:s.limit]
	}
	s.sessions = next
	if s.selected != "" && s.indexOf(s.selected) < 0 {
		s.selected = ""
	}

	if err := s.persist(ctx); err != nil {
		s.sessions = prevSessions
		s.selected = prevSelected
		return err
	}
	return nil
}

// Select marks the session with id as selected. Unknown ids leave the current
// selection untouched and return false.
func (s *Store) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) < 0 {
		return false
	}
	s.selected = id
	return true
}

// Selected returns the selected session, if any.
func (s *Store) Selected() (models.CrawlSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selected == "" {
		return models.CrawlSession{}, false
	}
	i := s.indexOf(s.selected)
	if i < 0 {
		return models.CrawlSession{}, false
	}
	return s.sessions[i], true
}

// SelectedID returns the selected session id or "".
func (s *Store) SelectedID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Get returns the session with id.
func (s *Store) Get(id string) (models.CrawlSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.CrawlSession{}, false
	}
	return s.sessions[i], true
}

// Sessions returns a copy of the history, most recent first.
func (s *Store) Sessions() []models.CrawlSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.CrawlSession, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// Len returns the number of sessions in the history.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// persist writes the full history. Callers hold s.mu.
func (s *Store) persist(ctx context.Context) error {
	sessions := s.sessions
	if sessions == nil {
		sessions = []models.CrawlSession{}
	}

	data, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := s.blob.Write(ctx, s.name, data); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

// indexOf returns the position of id in the history or -1. Callers hold s.mu.
func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			return i
		}
	}
	return -1
}
