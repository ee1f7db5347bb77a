// Package session provides the process-wide registry of interview sessions:
// transcripts, lifecycle status, evaluations, and cached summaries.
//
// The registry serializes mutations per session id while letting different
// sessions proceed in parallel. Exactly one orchestrator owns the appends for
// a given session; everything else reads point-in-time snapshots.
package session

import (
	"fmt"
	"time"
)

// Speaker identifies who produced a transcript turn.
type Speaker string

const (
	// SpeakerAI is the automated interviewer.
	SpeakerAI Speaker = "AI"

	// SpeakerCandidate is the human being interviewed.
	SpeakerCandidate Speaker = "Candidate"
)

// Status is the session lifecycle state.
type Status int

const (
	// StatusActive means the interview is in progress.
	StatusActive Status = iota

	// StatusEndedPendingSummary means the interview finished but no summary exists yet.
	StatusEndedPendingSummary

	// StatusSummarized means a summary has been generated and cached.
	StatusSummarized
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusEndedPendingSummary:
		return "ended_pending_summary"
	case StatusSummarized:
		return "summarized"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Turn is one contiguous utterance by either party.
// Immutable once appended to a transcript.
type Turn struct {
	Speaker   Speaker   `json:"speaker"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Evaluation holds the per-session interview scores.
// All scores are bounded to [0,1]; construct through NewEvaluation.
type Evaluation struct {
	Clarity           float64 `json:"clarity"`
	Confidence        float64 `json:"confidence"`
	Relevance         float64 `json:"relevance"`
	Depth             float64 `json:"depth"`
	KeywordMatchScore float64 `json:"keyword_match_score"`
	AnswerLengthScore float64 `json:"answer_length_score"`
	OverallScore      float64 `json:"overall_score"`
}

// NewEvaluation validates score bounds and returns the evaluation.
func NewEvaluation(e Evaluation) (*Evaluation, error) {
	for name, v := range map[string]float64{
		"clarity":             e.Clarity,
		"confidence":          e.Confidence,
		"relevance":           e.Relevance,
		"depth":               e.Depth,
		"keyword_match_score": e.KeywordMatchScore,
		"answer_length_score": e.AnswerLengthScore,
		"overall_score":       e.OverallScore,
	} {
		if v < 0 || v > 1 {
			return nil, fmt.Errorf("session: %s score %v out of [0,1]", name, v)
		}
	}
	return &e, nil
}

// Summary is the read-mostly projection of a finished session.
type Summary struct {
	SessionID       string     `json:"session_id"`
	FullTranscript  []Turn     `json:"full_transcript"`
	Evaluation      Evaluation `json:"evaluation"`
	Tips            []string   `json:"tips_for_improvement,omitempty"`
	DurationSeconds float64    `json:"duration_seconds"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         time.Time  `json:"ended_at"`
}
