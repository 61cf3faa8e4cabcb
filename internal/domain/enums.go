package domain

// RunStatus is the status vocabulary of the remote assistant service for a
// run, the asynchronous job that composes the next assistant message.
type RunStatus string

const (
	RunStatusQueued     RunStatus = "queued"
	RunStatusInProgress RunStatus = "in_progress"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusFailed     RunStatus = "failed"
	RunStatusCancelled  RunStatus = "cancelled"
	RunStatusExpired    RunStatus = "expired"
)

// Terminal reports whether the run has finished, successfully or not.
// Unrecognized statuses are treated as non-terminal so that new intermediate
// states introduced by the remote service keep the poll loop going.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunStatusCompleted, RunStatusFailed, RunStatusCancelled, RunStatusExpired:
		return true
	}
	return false
}

// Succeeded reports whether the run finished with a usable reply.
func (s RunStatus) Succeeded() bool {
	return s == RunStatusCompleted
}
