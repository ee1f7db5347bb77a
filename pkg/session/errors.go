package session

import "errors"

// Sentinel errors for registry and summarizer operations.
var (
	// ErrSessionNotFound is returned for operations on an unknown session id.
	ErrSessionNotFound = errors.New("session: not found")

	// ErrEmptyTranscript is returned when summarization is requested for a
	// session that recorded no turns.
	ErrEmptyTranscript = errors.New("session: transcript empty")
)
