// Package assistant implements the client for the hosted conversational
// assistant API: thread and run management, bounded run polling, transcript
// retrieval, and a plain chat-completions call.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hussleai/chatd/internal/domain"
)

// The thread/run family of endpoints requires this feature header in
// addition to bearer auth. Plain chat completions do not.
const betaHeader = "assistants=v2"

const (
	defaultPollInterval = time.Second
	defaultPollTimeout  = 90 * time.Second
	requestTimeout      = 30 * time.Second
)

// Client talks to the remote assistant service.
type Client struct {
	baseURL      string
	apiKey       string
	assistantID  string
	pollInterval time.Duration
	pollTimeout  time.Duration
	httpClient   *http.Client
}

// NewClient creates a new assistant client. assistantID is the preconfigured
// persona used for every run. Non-positive poll settings fall back to the
// defaults (1s interval, 90s bound).
func NewClient(baseURL, apiKey, assistantID string, pollInterval, pollTimeout time.Duration) *Client {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	if pollTimeout <= 0 {
		pollTimeout = defaultPollTimeout
	}
	return &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		apiKey:       apiKey,
		assistantID:  assistantID,
		pollInterval: pollInterval,
		pollTimeout:  pollTimeout,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Thread is the remote continuity handle grouping a conversation.
type Thread struct {
	ID string `json:"id"`
}

// Run is the remote job composing the next assistant message for a thread.
type Run struct {
	ID     string           `json:"id"`
	Status domain.RunStatus `json:"status"`
}

// ThreadMessage is one entry of a thread transcript.
type ThreadMessage struct {
	ID      string        `json:"id"`
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// ContentPart is one segment of a thread message body. Only text-typed
// segments carry extractable reply text.
type ContentPart struct {
	Type string    `json:"type"`
	Text *TextPart `json:"text,omitempty"`
}

// TextPart holds the text value of a text-typed content segment.
type TextPart struct {
	Value string `json:"value"`
}

type messageList struct {
	Data []ThreadMessage `json:"data"`
}

type errorResponse struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// CreateThread requests a new thread from the remote service.
func (c *Client) CreateThread(ctx context.Context) (*Thread, error) {
	var thread Thread
	if err := c.do(ctx, http.MethodPost, "/v1/threads", struct{}{}, &thread, true); err != nil {
		return nil, err
	}
	return &thread, nil
}

// CreateMessage appends a message to the thread and waits for the server to
// acknowledge the write.
func (c *Client) CreateMessage(ctx context.Context, threadID, role, content string) error {
	body := map[string]string{"role": role, "content": content}
	return c.do(ctx, http.MethodPost, "/v1/threads/"+threadID+"/messages", body, nil, true)
}

// CreateRun asks the remote service to start composing a reply for the
// thread using the configured assistant.
func (c *Client) CreateRun(ctx context.Context, threadID string) (*Run, error) {
	body := map[string]string{"assistant_id": c.assistantID}
	var run Run
	if err := c.do(ctx, http.MethodPost, "/v1/threads/"+threadID+"/runs", body, &run, true); err != nil {
		return nil, err
	}
	return &run, nil
}

// GetRun fetches the current status of a run.
func (c *Client) GetRun(ctx context.Context, threadID, runID string) (*Run, error) {
	var run Run
	if err := c.do(ctx, http.MethodGet, "/v1/threads/"+threadID+"/runs/"+runID, nil, &run, true); err != nil {
		return nil, err
	}
	return &run, nil
}

// ListMessages fetches the thread transcript. The remote service returns
// entries most-recent-first.
func (c *Client) ListMessages(ctx context.Context, threadID string) ([]ThreadMessage, error) {
	var list messageList
	if err := c.do(ctx, http.MethodGet, "/v1/threads/"+threadID+"/messages", nil, &list, true); err != nil {
		return nil, err
	}
	return list.Data, nil
}

// ChatMessage is one turn of a plain chat-completions request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends a stateless chat-completions request with the full history.
// This is the fallback path when no assistant persona is configured.
func (c *Client) Complete(ctx context.Context, model string, messages []ChatMessage) (string, error) {
	req := chatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   1000,
	}
	var resp chatCompletionResponse
	if err := c.do(ctx, http.MethodPost, "/v1/chat/completions", req, &resp, false); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyReply
	}
	return resp.Choices[0].Message.Content, nil
}

// do performs one request/response round trip. API-level failures come back
// as *APIError; anything else is a transport failure.
func (c *Client) do(ctx context.Context, method, path string, body, out any, beta bool) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if beta {
		req.Header.Set("OpenAI-Beta", betaHeader)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
		var envelope errorResponse
		if err := json.Unmarshal(respBody, &envelope); err == nil && envelope.Error != nil {
			apiErr.Message = envelope.Error.Message
			apiErr.Type = envelope.Error.Type
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}
