package eval

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/vocahire/vocahire/pkg/session"
)

// Score weights for the overall aggregate.
const (
	weightClarity    = 0.20
	weightConfidence = 0.20
	weightRelevance  = 0.20
	weightDepth      = 0.15
	weightKeyword    = 0.15
	weightLength     = 0.10
)

// Heuristic scores transcripts from observable text features.
type Heuristic struct {
	keywords     []string
	idealWords   int
	fillerWords  []string
	hedgePhrases []string
	logger       *slog.Logger
}

// HeuristicOption configures the heuristic analyzer.
type HeuristicOption func(*Heuristic)

// WithKeywords sets the keywords whose coverage drives the keyword score.
func WithKeywords(keywords ...string) HeuristicOption {
	return func(h *Heuristic) { h.keywords = keywords }
}

// WithIdealAnswerWords sets the answer length (in words) that scores highest.
func WithIdealAnswerWords(n int) HeuristicOption {
	return func(h *Heuristic) { h.idealWords = n }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) HeuristicOption {
	return func(h *Heuristic) { h.logger = l }
}

// NewHeuristic creates the default heuristic analyzer.
func NewHeuristic(opts ...HeuristicOption) *Heuristic {
	h := &Heuristic{
		keywords:   []string{"experience", "skill"},
		idealWords: 50,
		fillerWords: []string{
			"um", "uh", "erm", "hmm", "like",
		},
		hedgePhrases: []string{
			"i think", "i guess", "maybe", "probably", "sort of", "kind of",
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With("component", "eval.heuristic")
	return h
}

// Analyze scores the transcript. All scores are in [0,1].
func (h *Heuristic) Analyze(ctx context.Context, transcript []session.Turn) (*session.Evaluation, error) {
	var questions, answers []string
	for _, turn := range transcript {
		switch turn.Speaker {
		case session.SpeakerAI:
			questions = append(questions, turn.Text)
		case session.SpeakerCandidate:
			answers = append(answers, turn.Text)
		}
	}

	clarity := h.clarityScore(answers)
	confidence := h.confidenceScore(answers)
	relevance := h.relevanceScore(questions, answers)
	depth := h.depthScore(answers)
	keyword := h.keywordScore(answers)
	length := h.lengthScore(answers)

	overall := weightClarity*clarity +
		weightConfidence*confidence +
		weightRelevance*relevance +
		weightDepth*depth +
		weightKeyword*keyword +
		weightLength*length

	eval, err := session.NewEvaluation(session.Evaluation{
		Clarity:           round2(clarity),
		Confidence:        round2(confidence),
		Relevance:         round2(relevance),
		Depth:             round2(depth),
		KeywordMatchScore: round2(keyword),
		AnswerLengthScore: round2(length),
		OverallScore:      round2(overall),
	})
	if err != nil {
		return nil, err
	}

	h.logger.Debug("transcript analyzed",
		"turns", len(transcript),
		"answers", len(answers),
		"overall_score", eval.OverallScore,
	)
	return eval, nil
}

// clarityScore penalizes filler words.
func (h *Heuristic) clarityScore(answers []string) float64 {
	words, fillers := 0, 0
	for _, a := range answers {
		for _, w := range strings.Fields(strings.ToLower(a)) {
			words++
			for _, f := range h.fillerWords {
				if strings.Trim(w, ".,!?") == f {
					fillers++
					break
				}
			}
		}
	}
	if words == 0 {
		return 0
	}
	return clamp01(1 - 4*float64(fillers)/float64(words))
}

// confidenceScore penalizes hedging phrases.
func (h *Heuristic) confidenceScore(answers []string) float64 {
	if len(answers) == 0 {
		return 0
	}
	hedges := 0
	for _, a := range answers {
		lower := strings.ToLower(a)
		for _, p := range h.hedgePhrases {
			hedges += strings.Count(lower, p)
		}
	}
	return clamp01(1 - 0.2*float64(hedges)/float64(len(answers)))
}

// relevanceScore measures content-word overlap between questions and answers.
func (h *Heuristic) relevanceScore(questions, answers []string) float64 {
	if len(questions) == 0 || len(answers) == 0 {
		return 0
	}

	questionWords := make(map[string]bool)
	for _, q := range questions {
		for _, w := range contentWords(q) {
			questionWords[w] = true
		}
	}
	if len(questionWords) == 0 {
		return 0
	}

	matched := 0
	seen := make(map[string]bool)
	for _, a := range answers {
		for _, w := range contentWords(a) {
			if questionWords[w] && !seen[w] {
				matched++
				seen[w] = true
			}
		}
	}
	// Full overlap is unrealistic; a third of the question vocabulary
	// reappearing in answers is a strong signal.
	return clamp01(3 * float64(matched) / float64(len(questionWords)))
}

// depthScore rewards vocabulary richness across all answers.
func (h *Heuristic) depthScore(answers []string) float64 {
	words := 0
	unique := make(map[string]bool)
	for _, a := range answers {
		for _, w := range strings.Fields(strings.ToLower(a)) {
			words++
			unique[strings.Trim(w, ".,!?")] = true
		}
	}
	if words == 0 {
		return 0
	}
	return clamp01(1.5 * float64(len(unique)) / float64(words))
}

// keywordScore is the fraction of answers mentioning any configured keyword.
func (h *Heuristic) keywordScore(answers []string) float64 {
	if len(answers) == 0 {
		return 0
	}
	hits := 0
	for _, a := range answers {
		lower := strings.ToLower(a)
		for _, k := range h.keywords {
			if strings.Contains(lower, k) {
				hits++
				break
			}
		}
	}
	return clamp01(float64(hits) / float64(len(answers)))
}

// lengthScore peaks at the ideal answer length and decays linearly.
func (h *Heuristic) lengthScore(answers []string) float64 {
	if len(answers) == 0 {
		return 0
	}
	total := 0
	for _, a := range answers {
		total += len(strings.Fields(a))
	}
	avg := float64(total) / float64(len(answers))
	ideal := float64(h.idealWords)
	return clamp01(1 - math.Abs(avg-ideal)/ideal)
}

// contentWords returns lowercase words longer than three characters.
func contentWords(text string) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,!?:;\"'")
		if len(w) > 3 {
			out = append(out, w)
		}
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Verify Heuristic implements session.Analyzer at compile time.
var _ session.Analyzer = (*Heuristic)(nil)
