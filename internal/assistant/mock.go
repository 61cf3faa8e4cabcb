package assistant

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockClient is a Converser that never touches the network. Used when the
// service runs in mock mode and by tests that exercise the session layer.
type MockClient struct {
	// Reply overrides the canned response when non-empty.
	Reply string
	// Err, when set, is returned from every Converse call.
	Err error

	mu    sync.Mutex
	calls []MockCall
}

// MockCall records one Converse invocation.
type MockCall struct {
	Utterance string
	ThreadID  string
}

// NewMockClient creates a new mock converser.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Converse records the call and returns a canned reply. An empty threadID is
// replaced with a freshly minted mock handle, mirroring lazy thread creation.
func (m *MockClient) Converse(ctx context.Context, utterance, threadID string) (*ConverseResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Utterance: utterance, ThreadID: threadID})
	err := m.Err
	reply := m.Reply
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if threadID == "" {
		threadID = fmt.Sprintf("thread_mock_%d", time.Now().UnixNano())
	}
	if reply == "" {
		reply = fmt.Sprintf("Mock reply to: %s", utterance)
	}
	return &ConverseResult{Reply: reply, ThreadID: threadID}, nil
}

// Calls returns a copy of the recorded invocations.
func (m *MockClient) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}
