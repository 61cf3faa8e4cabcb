// Package tracker records interaction events to an append-only analytics
// sink. Tracking is a side channel: enqueueing never blocks the chat flow
// and write failures are logged and swallowed.
package tracker

// Type enumerates the interactions that can be tracked.
type Type string

const (
	TypeMessageSent     Type = "message_sent"
	TypeMessageReceived Type = "message_received"
	TypeChatStarted     Type = "chat_started"
	TypeLanguageChanged Type = "language_changed"
)

// Event is one interaction record. UserID is empty for anonymous visitors
// and stored as null.
type Event struct {
	UserID    string
	Type      Type
	MessageID string
	Metadata  map[string]any
}

// Tracker is the fire-and-forget interaction sink.
type Tracker interface {
	// Track enqueues an event. It never blocks and never fails.
	Track(event Event)

	// Close stops accepting events and drains the queue.
	Close() error
}

// Noop is a Tracker that discards everything. Used when no sink is configured.
type Noop struct{}

func (Noop) Track(Event) {}

func (Noop) Close() error { return nil }

var (
	_ Tracker = Noop{}
	_ Tracker = (*Supabase)(nil)
)
