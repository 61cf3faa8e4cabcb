package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hussleai/chatd/internal/domain"
	"github.com/hussleai/chatd/internal/tracker"
)

// CreateSession mints a new session after the user identification step. An
// empty locale is negotiated down to the catalog fallback.
func (s *Service) CreateSession(ctx context.Context, name, email, locale string) (*domain.Session, error) {
	if locale == "" {
		locale = s.catalog.Fallback()
	}
	if !s.catalog.Has(locale) {
		return nil, ErrUnsupportedLocale
	}

	now := time.Now().UTC()
	session := &domain.Session{
		SessionID: "sess_" + uuid.New().String()[:8],
		UserName:  name,
		UserEmail: email,
		Locale:    locale,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.tracker.Track(tracker.Event{
		UserID: session.SessionID,
		Type:   tracker.TypeChatStarted,
		Metadata: map[string]any{
			"locale": locale,
		},
	})
	return session, nil
}

// GetSession returns the session record.
func (s *Service) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// GetMessages returns the session log in conversation order.
func (s *Service) GetMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	messages, err := s.store.GetMessages(ctx, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	return messages, nil
}

// SetLocale switches the session locale.
func (s *Service) SetLocale(ctx context.Context, sessionID, locale string) (*domain.Session, error) {
	if !s.catalog.Has(locale) {
		return nil, ErrUnsupportedLocale
	}
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	previous := session.Locale
	if previous == locale {
		return session, nil
	}

	session.Locale = locale
	session.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	s.tracker.Track(tracker.Event{
		UserID: session.SessionID,
		Type:   tracker.TypeLanguageChanged,
		Metadata: map[string]any{
			"from": previous,
			"to":   locale,
		},
	})
	return session, nil
}

// ClearSession empties the message log and discards the thread handle, so
// the next exchange starts a brand-new remote thread. The generation bump
// makes any in-flight reply for this session land in the void.
func (s *Service) ClearSession(ctx context.Context, sessionID string) error {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteMessages(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}

	session.ThreadID = ""
	session.Generation++
	session.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateSession(ctx, session); err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}
	return nil
}
