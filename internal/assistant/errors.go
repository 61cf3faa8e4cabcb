package assistant

import (
	"errors"
	"fmt"

	"github.com/hussleai/chatd/internal/domain"
)

// Step-level failures of the conversation protocol. Converse wraps the
// underlying transport or API error inside one of these so callers can match
// with errors.Is while keeping the remote detail in the message.
var (
	ErrThreadCreationFailed = errors.New("assistant: thread creation failed")
	ErrWriteFailed          = errors.New("assistant: message write failed")
	ErrRunCreationFailed    = errors.New("assistant: run creation failed")
	ErrTimeout              = errors.New("assistant: run did not reach a terminal status within the poll bound")
	ErrEmptyReply           = errors.New("assistant: run completed but no reply text was found")
)

// RunFailedError reports a run that reached a non-success terminal status.
type RunFailedError struct {
	Status domain.RunStatus
}

func (e *RunFailedError) Error() string {
	return fmt.Sprintf("assistant: run finished with status %q", e.Status)
}

// APIError is a structured error returned by the remote service, as opposed
// to a network-level failure.
type APIError struct {
	StatusCode int
	Message    string
	Type       string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("assistant API error [%d]: %s (type: %s)", e.StatusCode, e.Message, e.Type)
	}
	return fmt.Sprintf("assistant API error [%d]: %s", e.StatusCode, e.Message)
}
