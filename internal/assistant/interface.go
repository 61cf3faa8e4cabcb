package assistant

import "context"

// Converser is the surface the session service depends on: produce one
// assistant utterance for one user utterance on a (possibly new) thread.
type Converser interface {
	Converse(ctx context.Context, utterance, threadID string) (*ConverseResult, error)
}

// Ensure both implementations satisfy the interface.
var (
	_ Converser = (*Client)(nil)
	_ Converser = (*MockClient)(nil)
)
