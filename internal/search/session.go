package search

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"tecawayBack/internal/models"
)

// Session is one client's search: its store and the data it was loaded with.
// Everything is dropped when the session ends.
type Session struct {
	ID          string
	Store       *Store
	Memberships []models.UserKnowledge
	Catalog     models.Catalog
	CreatedAt   time.Time

	ops      sync.Mutex
	mu       sync.Mutex
	sort     models.SortType
	lastSeen time.Time
}

// Lock serialises operations that read and then rewrite the store, such as
// applying or clearing filters.
func (s *Session) Lock()   { s.ops.Lock() }
func (s *Session) Unlock() { s.ops.Unlock() }

func (s *Session) SortType() models.SortType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sort
}

func (s *Session) SetSortType(t models.SortType) {
	s.mu.Lock()
	s.sort = t
	s.mu.Unlock()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Sessions is the in-memory registry of live search sessions.
type Sessions struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
	onChange func(count int)
}

func NewSessions() *Sessions {
	return &Sessions{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// OnChange registers a callback receiving the session count after each create/delete/sweep.
func (r *Sessions) OnChange(fn func(count int)) {
	r.mu.Lock()
	r.onChange = fn
	r.mu.Unlock()
}

func (r *Sessions) Create() *Session {
	now := r.now()
	store := NewStore()
	s := &Session{
		ID:        uuid.NewString(),
		Store:     store,
		sort:      models.SortRecent,
		CreatedAt: now,
		lastSeen:  now,
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	count, cb := len(r.sessions), r.onChange
	r.mu.Unlock()

	if cb != nil {
		cb(count)
	}
	return s
}

// Get returns the session and marks it as used.
func (r *Sessions) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	s.touch(r.now())
	return s, nil
}

// Touch marks the session as used without returning it.
func (r *Sessions) Touch(id string) error {
	_, err := r.Get(id)
	return err
}

func (r *Sessions) Delete(id string) error {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	count, cb := len(r.sessions), r.onChange
	r.mu.Unlock()

	if !ok {
		return models.ErrSessionNotFound
	}
	if cb != nil {
		cb(count)
	}
	return nil
}

// Sweep deletes sessions idle for longer than idle and returns how many were removed.
func (r *Sessions) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	removed := 0
	for id, s := range r.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	count, cb := len(r.sessions), r.onChange
	r.mu.Unlock()

	if removed > 0 && cb != nil {
		cb(count)
	}
	return removed
}

func (r *Sessions) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
