package assistant

import (
	"log"
	"os"
	"time"
)

const (
	// EnvChatdMode is the environment variable name for mode selection.
	EnvChatdMode = "CHATD_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// NewConverser creates an assistant client based on the CHATD_MODE
// environment variable. If CHATD_MODE=MOCK, returns a MockClient; otherwise
// returns a real Client.
func NewConverser(baseURL, apiKey, assistantID string, pollInterval, pollTimeout time.Duration) Converser {
	if os.Getenv(EnvChatdMode) == ModeMock {
		log.Println("CHATD_MODE=MOCK detected, using mock assistant client")
		return NewMockClient()
	}
	return NewClient(baseURL, apiKey, assistantID, pollInterval, pollTimeout)
}
