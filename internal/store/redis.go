package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hussleai/chatd/internal/domain"
)

// redisStore implements Store on Redis, for deployments where several chatd
// instances share session state. Each session is one JSON blob holding the
// record and its message log; TTL is refreshed on every read.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

type redisRecord struct {
	Session  domain.Session   `json:"session"`
	Messages []domain.Message `json:"messages"`
}

func sessionKey(sessionID string) string {
	return "chat:session:" + sessionID
}

func (s *redisStore) load(ctx context.Context, sessionID string) (*redisRecord, error) {
	val, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	var rec redisRecord
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &rec, nil
}

func (s *redisStore) save(ctx context.Context, rec *redisRecord) error {
	val, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(rec.Session.SessionID), val, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *redisStore) CreateSession(ctx context.Context, session *domain.Session) error {
	return s.save(ctx, &redisRecord{Session: *session})
}

func (s *redisStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	rec, err := s.load(ctx, sessionID)
	if err != nil || rec == nil {
		return nil, err
	}
	_ = s.client.Expire(ctx, sessionKey(sessionID), s.ttl).Err()
	session := rec.Session
	return &session, nil
}

func (s *redisStore) UpdateSession(ctx context.Context, session *domain.Session) error {
	rec, err := s.load(ctx, session.SessionID)
	if err != nil {
		return err
	}
	if rec == nil {
		return ErrNotFound
	}
	rec.Session = *session
	return s.save(ctx, rec)
}

func (s *redisStore) AppendMessage(ctx context.Context, msg *domain.Message) error {
	rec, err := s.load(ctx, msg.SessionID)
	if err != nil {
		return err
	}
	if rec == nil {
		return ErrNotFound
	}
	rec.Messages = append(rec.Messages, *msg)
	return s.save(ctx, rec)
}

func (s *redisStore) GetMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	rec, err := s.load(ctx, sessionID)
	if err != nil || rec == nil {
		return nil, err
	}
	messages := rec.Messages
	if limit > 0 && len(messages) > limit {
		messages = messages[:limit]
	}
	return messages, nil
}

func (s *redisStore) DeleteMessages(ctx context.Context, sessionID string) error {
	rec, err := s.load(ctx, sessionID)
	if err != nil || rec == nil {
		return err
	}
	rec.Messages = nil
	return s.save(ctx, rec)
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
