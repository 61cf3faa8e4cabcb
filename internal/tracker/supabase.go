package tracker

import (
	"fmt"
	"log"
	"time"

	"github.com/supabase-community/supabase-go"
)

const interactionsTable = "user_interactions"

// Supabase writes interaction events to the user_interactions table.
type Supabase struct {
	client *supabase.Client
	*async
}

// NewSupabase creates a tracker backed by a Supabase table.
func NewSupabase(url, apiKey string) (*Supabase, error) {
	if url == "" || apiKey == "" {
		return nil, fmt.Errorf("supabase URL and API key are required")
	}
	client, err := supabase.NewClient(url, apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	t := &Supabase{client: client}
	t.async = newAsync(t.insert)
	return t, nil
}

// insert writes one row. Called from the worker goroutine only.
func (t *Supabase) insert(event Event) {
	metadata := map[string]any{
		"timestamp_client": time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range event.Metadata {
		metadata[k] = v
	}

	row := map[string]any{
		"user_id":          nil,
		"interaction_type": string(event.Type),
		"metadata":         metadata,
	}
	if event.UserID != "" {
		row["user_id"] = event.UserID
	}
	if event.MessageID != "" {
		row["message_id"] = event.MessageID
	}

	if _, _, err := t.client.From(interactionsTable).Insert(row, false, "", "", "").Execute(); err != nil {
		log.Printf("tracker: failed to store %s interaction: %v", event.Type, err)
	}
}

// Interaction is a stored interaction row, read back for diagnostics.
type Interaction struct {
	ID              string         `json:"id"`
	UserID          *string        `json:"user_id"`
	InteractionType string         `json:"interaction_type"`
	MessageID       *string        `json:"message_id"`
	Metadata        map[string]any `json:"metadata"`
	Timestamp       time.Time      `json:"timestamp"`
}

// Recent returns up to limit stored interactions.
func (t *Supabase) Recent(limit int) ([]Interaction, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []Interaction
	_, err := t.client.From(interactionsTable).
		Select("*", "", false).
		Limit(limit, "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve interactions: %w", err)
	}
	return rows, nil
}
