// Package eval scores finished interview transcripts.
//
// The Heuristic analyzer derives all scores from observable text features
// (keyword coverage, answer length, filler and hedge words, vocabulary
// richness), so identical transcripts always score identically. It satisfies
// session.Analyzer; swap in a model-backed analyzer without touching callers.
package eval

import (
	"context"
	"sync"

	"github.com/vocahire/vocahire/pkg/session"
)

// Analyzer is re-exported for callers that wire evaluators explicitly.
type Analyzer = session.Analyzer

// Mock implements session.Analyzer for testing.
type Mock struct {
	// AnalyzeFunc is called when Analyze is invoked.
	// If nil, returns Evaluation (or a mid-range default).
	AnalyzeFunc func(ctx context.Context, transcript []session.Turn) (*session.Evaluation, error)

	// Evaluation is returned by the default AnalyzeFunc.
	Evaluation *session.Evaluation

	mu    sync.Mutex
	calls int
}

// Analyze calls AnalyzeFunc and counts the call.
func (m *Mock) Analyze(ctx context.Context, transcript []session.Turn) (*session.Evaluation, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, transcript)
	}
	if m.Evaluation != nil {
		return m.Evaluation, nil
	}
	return &session.Evaluation{
		Clarity:           0.5,
		Confidence:        0.5,
		Relevance:         0.5,
		Depth:             0.5,
		KeywordMatchScore: 0.5,
		AnswerLengthScore: 0.5,
		OverallScore:      0.5,
	}, nil
}

// Calls returns how many times Analyze ran.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
