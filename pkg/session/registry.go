package session

import (
	"log/slog"
	"sync"
	"time"
)

// Registry is the process-wide store of session state.
// Mutations on the same id are linearized through a per-session mutex;
// operations on different ids never block each other.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*state
	logger   *slog.Logger
}

// state is the mutable record for one session.
// The embedded mutex is the single-writer gate for this id.
type state struct {
	mu         sync.Mutex
	turns      []Turn
	status     Status
	startedAt  time.Time
	endedAt    time.Time
	evaluation *Evaluation
	summary    *Summary
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		sessions: make(map[string]*state),
		logger:   logger.With("component", "session.registry"),
	}
}

// Create initializes a session. A second Create for the same id is a no-op.
func (r *Registry) Create(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; ok {
		return
	}
	r.sessions[id] = &state{
		status:    StatusActive,
		startedAt: time.Now(),
	}
	r.logger.Info("session initialized", "session_id", id)
}

// get returns the state for an id, or nil.
func (r *Registry) get(id string) *state {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[id]
}

// AppendTurn atomically appends a timestamped turn to the transcript.
func (r *Registry) AppendTurn(id string, speaker Speaker, text string) error {
	s := r.get(id)
	if s == nil {
		return ErrSessionNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, Turn{
		Speaker:   speaker,
		Text:      text,
		Timestamp: time.Now(),
	})
	return nil
}

// Transcript returns a point-in-time copy of the turns so far.
func (r *Registry) Transcript(id string) ([]Turn, error) {
	s := r.get(id)
	if s == nil {
		return nil, ErrSessionNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out, nil
}

// SetEvaluation stores the evaluation, overwriting any previous one.
func (r *Registry) SetEvaluation(id string, eval *Evaluation) error {
	s := r.get(id)
	if s == nil {
		return ErrSessionNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evaluation = eval
	return nil
}

// Evaluation returns the stored evaluation, nil if none was computed yet.
func (r *Registry) Evaluation(id string) (*Evaluation, error) {
	s := r.get(id)
	if s == nil {
		return nil, ErrSessionNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evaluation, nil
}

// Status returns the lifecycle status of a session.
func (r *Registry) Status(id string) (Status, error) {
	s := r.get(id)
	if s == nil {
		return 0, ErrSessionNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, nil
}

// StartedAt returns when the session was created.
func (r *Registry) StartedAt(id string) (time.Time, error) {
	s := r.get(id)
	if s == nil {
		return time.Time{}, ErrSessionNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startedAt, nil
}

// MarkEnded transitions Active → EndedPendingSummary and records the end time.
// A logged no-op if the id is unknown or already past Active.
func (r *Registry) MarkEnded(id string) {
	s := r.get(id)
	if s == nil {
		r.logger.Warn("mark ended on unknown session", "session_id", id)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusActive {
		r.logger.Debug("mark ended skipped", "session_id", id, "status", s.status.String())
		return
	}
	s.status = StatusEndedPendingSummary
	s.endedAt = time.Now()
	r.logger.Info("session ended", "session_id", id, "turns", len(s.turns))
}

// EndedAt returns when the session ended; zero while still active.
func (r *Registry) EndedAt(id string) (time.Time, error) {
	s := r.get(id)
	if s == nil {
		return time.Time{}, ErrSessionNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endedAt, nil
}

// CacheSummary stores the generated summary and transitions to Summarized.
func (r *Registry) CacheSummary(id string, summary *Summary) error {
	s := r.get(id)
	if s == nil {
		return ErrSessionNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = summary
	s.status = StatusSummarized
	return nil
}

// Summary returns the cached summary, nil if none was generated yet.
func (r *Registry) Summary(id string) (*Summary, error) {
	s := r.get(id)
	if s == nil {
		return nil, ErrSessionNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary, nil
}
