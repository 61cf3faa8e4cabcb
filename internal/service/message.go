package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hussleai/chatd/internal/assistant"
	"github.com/hussleai/chatd/internal/domain"
	"github.com/hussleai/chatd/internal/policy"
	"github.com/hussleai/chatd/internal/tracker"
)

// SendMessage runs one conversation turn: it appends the user message, asks
// the assistant for a reply, and appends that reply. The user message is
// appended before any remote call and is never rolled back — on failure the
// user still sees what they sent.
//
// At most one exchange per session is in flight at a time; concurrent calls
// fail fast with ErrBusy.
func (s *Service) SendMessage(ctx context.Context, sessionID, content string) (*domain.Message, *domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil, ErrEmptyMessage
	}

	if !s.acquire(sessionID) {
		return nil, nil, ErrBusy
	}
	defer s.release(sessionID)

	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	decision, err := s.policy.Evaluate(ctx, policy.Input{
		Content:   content,
		Locale:    session.Locale,
		MaxLength: s.config.MaxMessageLength,
	})
	if err != nil {
		log.Printf("WARN: policy evaluation failed, admitting message: %v", err)
	} else if decision != policy.DecisionAllow {
		return nil, nil, ErrMessageRejected
	}

	generation := session.Generation

	userMsg := &domain.Message{
		MessageID: "msg_" + uuid.New().String()[:8],
		SessionID: sessionID,
		Role:      domain.RoleUser,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.AppendMessage(ctx, userMsg); err != nil {
		return nil, nil, fmt.Errorf("failed to append user message: %w", err)
	}
	s.tracker.Track(tracker.Event{
		UserID:    sessionID,
		Type:      tracker.TypeMessageSent,
		MessageID: userMsg.MessageID,
		Metadata:  map[string]any{"locale": session.Locale},
	})

	result, err := s.exchange(ctx, session, content)
	if err != nil {
		// The user message stays in the log.
		return userMsg, nil, fmt.Errorf("assistant exchange failed: %w", err)
	}

	// Re-read the session: a clear issued while the exchange was in flight
	// bumped the generation, and the stale reply must not be applied.
	current, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return userMsg, nil, fmt.Errorf("failed to reload session: %w", err)
	}
	if current == nil || current.Generation != generation {
		return userMsg, nil, ErrSessionCleared
	}

	assistantMsg := &domain.Message{
		MessageID: "msg_" + uuid.New().String()[:8],
		SessionID: sessionID,
		Role:      domain.RoleAssistant,
		Content:   result.Reply,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.AppendMessage(ctx, assistantMsg); err != nil {
		return userMsg, nil, fmt.Errorf("failed to append assistant message: %w", err)
	}

	if current.ThreadID != result.ThreadID {
		current.ThreadID = result.ThreadID
		current.UpdatedAt = time.Now().UTC()
		if err := s.store.UpdateSession(ctx, current); err != nil {
			return userMsg, nil, fmt.Errorf("failed to persist thread handle: %w", err)
		}
	}

	s.tracker.Track(tracker.Event{
		UserID:    sessionID,
		Type:      tracker.TypeMessageReceived,
		MessageID: assistantMsg.MessageID,
	})
	return userMsg, assistantMsg, nil
}

// exchange performs the remote round trip. With an assistant persona
// configured it runs the thread/run protocol; otherwise it falls back to a
// stateless chat completion over the full session history.
func (s *Service) exchange(ctx context.Context, session *domain.Session, content string) (*assistant.ConverseResult, error) {
	if s.config.AssistantID != "" || s.completer == nil {
		return s.converser.Converse(ctx, content, session.ThreadID)
	}

	history, err := s.store.GetMessages(ctx, session.SessionID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	messages := make([]assistant.ChatMessage, 0, len(history))
	for _, m := range history {
		messages = append(messages, assistant.ChatMessage{Role: string(m.Role), Content: m.Content})
	}

	reply, err := s.completer.Complete(ctx, s.config.ChatModel, messages)
	if err != nil {
		return nil, err
	}
	return &assistant.ConverseResult{Reply: reply, ThreadID: session.ThreadID}, nil
}
