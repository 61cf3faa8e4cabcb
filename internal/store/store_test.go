package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/hussleai/chatd/internal/domain"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := New(DriverSQLite, WithSQLiteDSN(":memory:"))
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}
	memory, err := New(DriverMemory)
	if err != nil {
		t.Fatalf("failed to create memory store: %v", err)
	}
	return map[string]Store{"sqlite": sqlite, "memory": memory}
}

func newSession(id string) *domain.Session {
	now := time.Now().UTC()
	return &domain.Session{
		SessionID: id,
		UserName:  "Aline",
		UserEmail: "aline@example.com",
		Locale:    "fr",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestStoreSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			if err := s.CreateSession(ctx, newSession("s1")); err != nil {
				t.Fatalf("CreateSession failed: %v", err)
			}

			got, err := s.GetSession(ctx, "s1")
			if err != nil {
				t.Fatalf("GetSession failed: %v", err)
			}
			if got == nil || got.Locale != "fr" || got.ThreadID != "" {
				t.Fatalf("unexpected session: %+v", got)
			}

			missing, err := s.GetSession(ctx, "nope")
			if err != nil || missing != nil {
				t.Fatalf("expected nil for missing session, got %+v, %v", missing, err)
			}

			got.ThreadID = "thread_abc"
			got.Generation = 1
			got.UpdatedAt = time.Now().UTC()
			if err := s.UpdateSession(ctx, got); err != nil {
				t.Fatalf("UpdateSession failed: %v", err)
			}

			again, err := s.GetSession(ctx, "s1")
			if err != nil {
				t.Fatalf("GetSession failed: %v", err)
			}
			if again.ThreadID != "thread_abc" || again.Generation != 1 {
				t.Fatalf("update not persisted: %+v", again)
			}

			if err := s.UpdateSession(ctx, newSession("ghost")); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestStoreMessageLog(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			if err := s.CreateSession(ctx, newSession("s1")); err != nil {
				t.Fatalf("CreateSession failed: %v", err)
			}

			base := time.Now().UTC()
			for i := 0; i < 3; i++ {
				role := domain.RoleUser
				if i%2 == 1 {
					role = domain.RoleAssistant
				}
				msg := &domain.Message{
					MessageID: fmt.Sprintf("m%d", i),
					SessionID: "s1",
					Role:      role,
					Content:   fmt.Sprintf("turn %d", i),
					CreatedAt: base.Add(time.Duration(i) * time.Millisecond),
				}
				if err := s.AppendMessage(ctx, msg); err != nil {
					t.Fatalf("AppendMessage failed: %v", err)
				}
			}

			messages, err := s.GetMessages(ctx, "s1", 0)
			if err != nil {
				t.Fatalf("GetMessages failed: %v", err)
			}
			if len(messages) != 3 {
				t.Fatalf("expected 3 messages, got %d", len(messages))
			}
			for i, msg := range messages {
				if msg.Content != fmt.Sprintf("turn %d", i) {
					t.Fatalf("log out of order at %d: %+v", i, msg)
				}
			}

			limited, err := s.GetMessages(ctx, "s1", 2)
			if err != nil || len(limited) != 2 {
				t.Fatalf("expected 2 messages, got %d, %v", len(limited), err)
			}
			if limited[0].Content != "turn 0" || limited[1].Content != "turn 1" {
				t.Fatalf("limit must keep the head of the log: %+v", limited)
			}

			if err := s.DeleteMessages(ctx, "s1"); err != nil {
				t.Fatalf("DeleteMessages failed: %v", err)
			}
			messages, err = s.GetMessages(ctx, "s1", 0)
			if err != nil || len(messages) != 0 {
				t.Fatalf("expected empty log, got %d, %v", len(messages), err)
			}
		})
	}
}

func TestNewStoreValidation(t *testing.T) {
	if _, err := New(Driver("bogus")); !errors.Is(err, ErrInvalidDriver) {
		t.Fatalf("expected ErrInvalidDriver, got %v", err)
	}
	if _, err := New(DriverSQLite); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if _, err := New(DriverRedis); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
