// Package service owns the conversation session state: the message log, the
// remote thread handle, and the single-flight rule that at most one assistant
// exchange is in flight per session.
package service

import (
	"context"
	"sync"

	"github.com/hussleai/chatd/internal/assistant"
	"github.com/hussleai/chatd/internal/config"
	"github.com/hussleai/chatd/internal/i18n"
	"github.com/hussleai/chatd/internal/policy"
	"github.com/hussleai/chatd/internal/store"
	"github.com/hussleai/chatd/internal/tracker"
)

// completer is the stateless chat-completions fallback, used when no
// assistant persona is configured.
type completer interface {
	Complete(ctx context.Context, model string, messages []assistant.ChatMessage) (string, error)
}

type Service struct {
	store     store.Store
	converser assistant.Converser
	completer completer
	tracker   tracker.Tracker
	policy    *policy.Engine
	catalog   *i18n.Catalog
	config    *config.Config

	mu       sync.Mutex
	inflight map[string]struct{}
}

// New creates the session service. If the converser also supports plain chat
// completions, that path is kept available as the fallback for deployments
// without an assistant persona.
func New(st store.Store, conv assistant.Converser, tr tracker.Tracker, eng *policy.Engine, catalog *i18n.Catalog, cfg *config.Config) *Service {
	s := &Service{
		store:     st,
		converser: conv,
		tracker:   tr,
		policy:    eng,
		catalog:   catalog,
		config:    cfg,
		inflight:  make(map[string]struct{}),
	}
	if c, ok := conv.(completer); ok {
		s.completer = c
	}
	return s
}

// acquire takes the single-flight slot for a session. Returns false if an
// exchange is already in flight.
func (s *Service) acquire(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[sessionID]; busy {
		return false
	}
	s.inflight[sessionID] = struct{}{}
	return true
}

func (s *Service) release(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, sessionID)
}
