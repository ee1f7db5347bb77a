package interview

import (
	"errors"
	"fmt"
)

// Sentinel errors for turn processing.
var (
	// ErrStallTimeout is returned by the bridge when the text producer goes
	// quiet for longer than the stall timeout. Audio already synthesized is
	// still delivered.
	ErrStallTimeout = errors.New("interview: synthesis stalled waiting for text")

	// ErrIngestorConsumed is returned when Chunks is called twice; ingestors
	// are single-turn.
	ErrIngestorConsumed = errors.New("interview: ingestor already consumed")
)

// CollaboratorError marks a fatal failure in an external capability
// (transcription, generation, or synthesis). It ends the session but must
// never take the process down.
type CollaboratorError struct {
	// Stage names the pipeline stage that failed: "generate", "synthesize",
	// or "transcribe".
	Stage string
	Err   error
}

// Error implements the error interface.
func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("interview: %s failed: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *CollaboratorError) Unwrap() error {
	return e.Err
}
