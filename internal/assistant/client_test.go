package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hussleai/chatd/internal/domain"
)

const transcriptBody = `{"data":[
	{"id":"msg_2","role":"assistant","content":[{"type":"text","text":{"value":"Hello, "}},{"type":"text","text":{"value":"world."}}]},
	{"id":"msg_1","role":"user","content":[{"type":"text","text":{"value":"hi"}}]}
]}`

func newTestClient(serverURL string) *Client {
	return NewClient(serverURL, "test-key", "asst_1", 5*time.Millisecond, time.Second)
}

func TestConverseNewThread(t *testing.T) {
	var threadCreates, polls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer credential")
		}
		if r.Header.Get("OpenAI-Beta") != "assistants=v2" {
			t.Errorf("missing feature header on %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/threads":
			atomic.AddInt32(&threadCreates, 1)
			fmt.Fprint(w, `{"id":"thread_abc"}`)
		case r.Method == http.MethodPost && r.URL.Path == "/v1/threads/thread_abc/messages":
			fmt.Fprint(w, `{"id":"msg_1"}`)
		case r.Method == http.MethodPost && r.URL.Path == "/v1/threads/thread_abc/runs":
			fmt.Fprint(w, `{"id":"run_1","status":"queued"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/v1/threads/thread_abc/runs/run_1":
			if atomic.AddInt32(&polls, 1) < 3 {
				fmt.Fprint(w, `{"id":"run_1","status":"in_progress"}`)
			} else {
				fmt.Fprint(w, `{"id":"run_1","status":"completed"}`)
			}
		case r.Method == http.MethodGet && r.URL.Path == "/v1/threads/thread_abc/messages":
			fmt.Fprint(w, transcriptBody)
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.Converse(context.Background(), "hi", "")
	if err != nil {
		t.Fatalf("Converse failed: %v", err)
	}
	if result.Reply != "Hello, world." {
		t.Fatalf("unexpected reply: %q", result.Reply)
	}
	if result.ThreadID != "thread_abc" {
		t.Fatalf("unexpected thread handle: %q", result.ThreadID)
	}
	if threadCreates != 1 {
		t.Fatalf("expected 1 thread creation, got %d", threadCreates)
	}
}

func TestConverseReusesThread(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/v1/threads" {
			t.Fatalf("create-thread must not be called when a handle is supplied")
		}
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/threads/thread_prev/messages":
			fmt.Fprint(w, `{"id":"msg_9"}`)
		case r.Method == http.MethodPost && r.URL.Path == "/v1/threads/thread_prev/runs":
			fmt.Fprint(w, `{"id":"run_9","status":"completed"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/v1/threads/thread_prev/runs/run_9":
			fmt.Fprint(w, `{"id":"run_9","status":"completed"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/v1/threads/thread_prev/messages":
			fmt.Fprint(w, transcriptBody)
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.Converse(context.Background(), "again", "thread_prev")
	if err != nil {
		t.Fatalf("Converse failed: %v", err)
	}
	if result.ThreadID != "thread_prev" {
		t.Fatalf("thread handle changed: %q", result.ThreadID)
	}
}

func TestConverseRunFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/threads/t1/messages":
			fmt.Fprint(w, `{"id":"msg_1"}`)
		case r.Method == http.MethodPost && r.URL.Path == "/v1/threads/t1/runs":
			fmt.Fprint(w, `{"id":"run_1","status":"queued"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/v1/threads/t1/runs/run_1":
			fmt.Fprint(w, `{"id":"run_1","status":"failed"}`)
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Converse(context.Background(), "hi", "t1")
	var runErr *RunFailedError
	if !errors.As(err, &runErr) {
		t.Fatalf("expected RunFailedError, got %v", err)
	}
	if runErr.Status != domain.RunStatusFailed {
		t.Fatalf("unexpected status: %q", runErr.Status)
	}
}

func TestConverseTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/threads/t1/messages":
			fmt.Fprint(w, `{"id":"msg_1"}`)
		case r.Method == http.MethodPost && r.URL.Path == "/v1/threads/t1/runs":
			fmt.Fprint(w, `{"id":"run_1","status":"queued"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/v1/threads/t1/runs/run_1":
			fmt.Fprint(w, `{"id":"run_1","status":"in_progress"}`)
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "asst_1", 5*time.Millisecond, 30*time.Millisecond)
	_, err := client.Converse(context.Background(), "hi", "t1")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestConverseUnknownStatusKeepsPolling(t *testing.T) {
	var polls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/threads/t1/messages":
			fmt.Fprint(w, `{"id":"msg_1"}`)
		case r.Method == http.MethodPost && r.URL.Path == "/v1/threads/t1/runs":
			fmt.Fprint(w, `{"id":"run_1","status":"queued"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/v1/threads/t1/runs/run_1":
			if atomic.AddInt32(&polls, 1) == 1 {
				fmt.Fprint(w, `{"id":"run_1","status":"requires_action"}`)
			} else {
				fmt.Fprint(w, `{"id":"run_1","status":"completed"}`)
			}
		case r.Method == http.MethodGet && r.URL.Path == "/v1/threads/t1/messages":
			fmt.Fprint(w, transcriptBody)
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.Converse(context.Background(), "hi", "t1")
	if err != nil {
		t.Fatalf("Converse failed: %v", err)
	}
	if result.Reply != "Hello, world." {
		t.Fatalf("unexpected reply: %q", result.Reply)
	}
}

func TestConverseEmptyReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/threads/t1/messages":
			fmt.Fprint(w, `{"id":"msg_1"}`)
		case r.Method == http.MethodPost && r.URL.Path == "/v1/threads/t1/runs":
			fmt.Fprint(w, `{"id":"run_1","status":"completed"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/v1/threads/t1/runs/run_1":
			fmt.Fprint(w, `{"id":"run_1","status":"completed"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/v1/threads/t1/messages":
			fmt.Fprint(w, `{"data":[{"id":"msg_1","role":"user","content":[{"type":"text","text":{"value":"hi"}}]}]}`)
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Converse(context.Background(), "hi", "t1")
	if !errors.Is(err, ErrEmptyReply) {
		t.Fatalf("expected ErrEmptyReply, got %v", err)
	}
}

func TestConverseWriteFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"bad message","type":"invalid_request_error"}}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Converse(context.Background(), "hi", "t1")
	if !errors.Is(err, ErrWriteFailed) {
		t.Fatalf("expected ErrWriteFailed, got %v", err)
	}
}

func TestConverseThreadCreationFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"invalid api key","type":"authentication_error"}}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Converse(context.Background(), "hi", "")
	if !errors.Is(err, ErrThreadCreationFailed) {
		t.Fatalf("expected ErrThreadCreationFailed, got %v", err)
	}
}

func TestComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("OpenAI-Beta") != "" {
			t.Errorf("completions call must not carry the feature header")
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"bonjour"}}]}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	reply, err := client.Complete(context.Background(), "gpt-4o-mini", []ChatMessage{{Role: "user", Content: "salut"}})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if reply != "bonjour" {
		t.Fatalf("unexpected reply: %q", reply)
	}
}
