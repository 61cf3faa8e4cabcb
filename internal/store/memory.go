package store

import (
	"context"
	"sync"

	"github.com/hussleai/chatd/internal/domain"
)

// memoryStore implements Store with a mutex-guarded map. Used by tests and
// throwaway deployments; nothing survives a restart.
type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memoryRecord
}

type memoryRecord struct {
	session  domain.Session
	messages []domain.Message
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: make(map[string]*memoryRecord)}
}

func (s *memoryStore) CreateSession(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.SessionID] = &memoryRecord{session: *session}
	return nil
}

func (s *memoryStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	session := rec.session
	return &session, nil
}

func (s *memoryStore) UpdateSession(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.sessions[session.SessionID]
	if !ok {
		return ErrNotFound
	}
	rec.session = *session
	return nil
}

func (s *memoryStore) AppendMessage(ctx context.Context, msg *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.sessions[msg.SessionID]
	if !ok {
		return ErrNotFound
	}
	rec.messages = append(rec.messages, *msg)
	return nil
}

func (s *memoryStore) GetMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	messages := rec.messages
	if limit > 0 && len(messages) > limit {
		messages = messages[:limit]
	}
	out := make([]domain.Message, len(messages))
	copy(out, messages)
	return out, nil
}

func (s *memoryStore) DeleteMessages(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.sessions[sessionID]; ok {
		rec.messages = nil
	}
	return nil
}

func (s *memoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = nil
	return nil
}
