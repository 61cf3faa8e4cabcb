// Package domain defines the core domain models for the chat service.
package domain

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversation turn. Messages are immutable once created
// and the session log is append-only; insertion order is conversation order.
type Message struct {
	MessageID string    `json:"message_id"`
	SessionID string    `json:"session_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Session holds the state owned by the application for one visitor: who they
// are, which locale they picked, and the remote thread handle. ThreadID is
// empty until the first successful exchange and is discarded on clear.
type Session struct {
	SessionID string `json:"session_id"`
	UserName  string `json:"user_name,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
	Locale    string `json:"locale"`
	ThreadID  string `json:"thread_id,omitempty"`

	// Generation increments on every clear. A reply computed against an older
	// generation is discarded instead of being applied to the reset log.
	Generation int64 `json:"generation"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
