// Package memory keeps sessions in a map with the same contract as the
// Firestore store: absence is a nil result, replaces are revision-checked.
// Used for tests and local mode.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/tvonment/tarot-backend/internal/domain"
)

type SessionStore struct {
	mu        sync.RWMutex
	sessions  map[domain.SessionID]*domain.Session
	revisions map[domain.SessionID]domain.Revision
	tick      int64
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions:  make(map[domain.SessionID]*domain.Session),
		revisions: make(map[domain.SessionID]domain.Revision),
	}
}

func (s *SessionStore) Create(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; exists {
		return domain.ErrSessionExists
	}

	s.sessions[session.ID] = session.Clone()
	s.revisions[session.ID] = s.nextRevision()
	return nil
}

func (s *SessionStore) Get(_ context.Context, id domain.SessionID) (*domain.Session, domain.Revision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.Revision{}, nil
	}
	return sess.Clone(), s.revisions[id], nil
}

func (s *SessionStore) Replace(_ context.Context, session *domain.Session, rev domain.Revision) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; !exists {
		return domain.ErrSessionNotFound
	}
	if !s.revisions[session.ID].UpdateTime.Equal(rev.UpdateTime) {
		return domain.ErrStaleWrite
	}

	s.sessions[session.ID] = session.Clone()
	s.revisions[session.ID] = s.nextRevision()
	return nil
}

// nextRevision is strictly monotonic even when the wall clock does not
// advance between writes. Callers hold s.mu.
func (s *SessionStore) nextRevision() domain.Revision {
	s.tick++
	return domain.Revision{UpdateTime: time.Unix(0, s.tick)}
}
