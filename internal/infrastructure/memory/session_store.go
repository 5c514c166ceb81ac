package memory

import (
	"context"
	"sync"
	"time"

	"devqa.backend/internal/domain/entities"
	domainerrors "devqa.backend/internal/domain/errors"
	"devqa.backend/internal/domain/repositories"
)

// SessionStore keeps sessions in process memory
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]entities.Session
	now      func() time.Time
}

var _ repositories.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates an empty session store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]entities.Session),
		now:      time.Now,
	}
}

func (s *SessionStore) Init(context.Context) error { return nil }

func (s *SessionStore) Create(_ context.Context, session *entities.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.ID]; ok {
		return domainerrors.ErrAlreadyExists
	}
	s.sessions[session.ID] = *session
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (*entities.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok || session.Expired(s.now()) {
		return nil, domainerrors.ErrNotFound
	}
	return &session, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

func (s *SessionStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}
