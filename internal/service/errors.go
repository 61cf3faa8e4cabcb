package service

import "errors"

// Caller-facing failure outcomes. Assistant protocol errors are wrapped and
// surface alongside these; the transport layer maps every one to a single
// generic user notification while logging the specific kind.
var (
	ErrEmptyMessage      = errors.New("message is empty")
	ErrMessageRejected   = errors.New("message rejected by policy")
	ErrSessionNotFound   = errors.New("session not found")
	ErrBusy              = errors.New("a reply is already in flight for this session")
	ErrSessionCleared    = errors.New("session was cleared while awaiting the reply")
	ErrUnsupportedLocale = errors.New("unsupported locale")
)
