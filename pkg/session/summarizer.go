package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Analyzer scores a finished transcript. Implementations live outside the
// core (see pkg/eval); the summarizer only requires this interface.
type Analyzer interface {
	Analyze(ctx context.Context, transcript []Turn) (*Evaluation, error)
}

// Tips returned with the summary, keyed to the overall score.
var (
	improvementTips = []string{
		"Practice speaking more clearly and at a steady pace.",
		"Try to provide more specific examples when answering behavioral questions.",
		"Consider elaborating on your experiences to demonstrate depth of knowledge.",
	}
	praiseTips = []string{"Great job overall!"}
)

// tipThreshold is the overall score at which improvement tips switch to praise.
const tipThreshold = 0.7

// Summarizer produces and caches per-session summaries.
type Summarizer struct {
	registry *Registry
	analyzer Analyzer
	logger   *slog.Logger
}

// NewSummarizer creates a summarizer backed by the given registry and analyzer.
func NewSummarizer(registry *Registry, analyzer Analyzer, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{
		registry: registry,
		analyzer: analyzer,
		logger:   logger.With("component", "session.summarizer"),
	}
}

// Summarize returns the session summary, computing and caching it on first call.
// The evaluation runs at most once per session: concurrent callers serialize on
// the session's mutex, and later callers find the cached result.
// Returns ErrEmptyTranscript when the session recorded no turns.
func (sz *Summarizer) Summarize(ctx context.Context, id string) (*Summary, error) {
	s := sz.registry.get(id)
	if s == nil {
		return nil, ErrSessionNotFound
	}

	// Holding the per-session mutex across the analyzer call is what makes
	// concurrent Summarize calls at-most-once. The session is past its active
	// phase by now, so nothing else contends for this lock.
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.summary != nil {
		return s.summary, nil
	}

	if len(s.turns) == 0 {
		return nil, ErrEmptyTranscript
	}

	transcript := make([]Turn, len(s.turns))
	copy(transcript, s.turns)

	if s.evaluation == nil {
		eval, err := sz.analyzer.Analyze(ctx, transcript)
		if err != nil {
			return nil, fmt.Errorf("analyze transcript: %w", err)
		}
		s.evaluation = eval
	}

	endedAt := s.endedAt
	if endedAt.IsZero() {
		endedAt = time.Now()
	}

	tips := improvementTips
	if s.evaluation.OverallScore >= tipThreshold {
		tips = praiseTips
	}

	summary := &Summary{
		SessionID:       id,
		FullTranscript:  transcript,
		Evaluation:      *s.evaluation,
		Tips:            tips,
		DurationSeconds: endedAt.Sub(s.startedAt).Seconds(),
		StartedAt:       s.startedAt,
		EndedAt:         endedAt,
	}

	s.summary = summary
	s.status = StatusSummarized
	sz.logger.Info("summary generated",
		"session_id", id,
		"turns", len(transcript),
		"overall_score", summary.Evaluation.OverallScore,
	)
	return summary, nil
}

// Cached returns the summary if one was already generated, without computing.
func (sz *Summarizer) Cached(id string) (*Summary, error) {
	return sz.registry.Summary(id)
}
