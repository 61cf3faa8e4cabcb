package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/hussleai/chatd/internal/assistant"
)

// completionsStub backs a real assistant.Client with a fake completions
// endpoint, recording the message histories it receives.
type completionsStub struct {
	server *httptest.Server
	client *assistant.Client

	mu       sync.Mutex
	requests [][]assistant.ChatMessage
}

func newCompletionsStub(t *testing.T, reply string) *completionsStub {
	t.Helper()
	s := &completionsStub{}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req struct {
			Messages []assistant.ChatMessage `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		s.mu.Lock()
		s.requests = append(s.requests, req.Messages)
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"choices":[{"message":{"role":"assistant","content":%q}}]}`, reply)
	}))
	s.client = assistant.NewClient(s.server.URL, "test-key", "", time.Millisecond, time.Second)
	return s
}

func (s *completionsStub) close() {
	s.server.Close()
}

// seenContents returns the message contents of the last recorded request.
func (s *completionsStub) seenContents() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil
	}
	last := s.requests[len(s.requests)-1]
	out := make([]string, len(last))
	for i, m := range last {
		out[i] = m.Content
	}
	return out
}
