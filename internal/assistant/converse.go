package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hussleai/chatd/internal/domain"
)

// ConverseResult is one completed exchange: the assistant's reply and the
// thread handle the caller must persist to keep conversational continuity.
type ConverseResult struct {
	Reply    string
	ThreadID string
}

// Converse turns one user utterance into one assistant utterance.
//
// If threadID is empty a new thread is created; that is the only step that
// changes which thread subsequent calls target. The utterance is posted to
// the thread, a run is started with the configured assistant, and the run is
// polled at the configured interval until it reaches a terminal status or
// the poll bound elapses. On completion the transcript is fetched and the
// text segments of the newest assistant message are concatenated in order.
//
// A single attempt is made; there are no internal retries. The caller may
// retry by invoking Converse again with the returned thread handle.
func (c *Client) Converse(ctx context.Context, utterance, threadID string) (*ConverseResult, error) {
	if threadID == "" {
		thread, err := c.CreateThread(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrThreadCreationFailed, err)
		}
		threadID = thread.ID
	}

	if err := c.CreateMessage(ctx, threadID, string(domain.RoleUser), utterance); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	run, err := c.CreateRun(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRunCreationFailed, err)
	}

	status, err := c.waitForRun(ctx, threadID, run.ID)
	if err != nil {
		return nil, err
	}
	if !status.Succeeded() {
		return nil, &RunFailedError{Status: status}
	}

	reply, err := c.latestAssistantReply(ctx, threadID)
	if err != nil {
		return nil, err
	}
	return &ConverseResult{Reply: reply, ThreadID: threadID}, nil
}

// waitForRun polls the run until it reaches a terminal status. The wait is
// bounded: exceeding the configured poll timeout fails with ErrTimeout
// instead of polling forever.
func (c *Client) waitForRun(ctx context.Context, threadID, runID string) (domain.RunStatus, error) {
	deadline := time.NewTimer(c.pollTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		run, err := c.GetRun(ctx, threadID, runID)
		if err != nil {
			return "", fmt.Errorf("failed to poll run %s: %w", runID, err)
		}
		if run.Status.Terminal() {
			return run.Status, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-deadline.C:
			return "", ErrTimeout
		case <-ticker.C:
		}
	}
}

// latestAssistantReply extracts the reply text from the thread transcript.
// The transcript arrives most-recent-first, so the first assistant-authored
// entry is the message produced by the run that just completed.
func (c *Client) latestAssistantReply(ctx context.Context, threadID string) (string, error) {
	messages, err := c.ListMessages(ctx, threadID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch transcript: %w", err)
	}

	for _, msg := range messages {
		if msg.Role != string(domain.RoleAssistant) {
			continue
		}
		var b strings.Builder
		for _, part := range msg.Content {
			if part.Type == "text" && part.Text != nil {
				b.WriteString(part.Text.Value)
			}
		}
		if b.Len() == 0 {
			return "", ErrEmptyReply
		}
		return b.String(), nil
	}
	return "", ErrEmptyReply
}
