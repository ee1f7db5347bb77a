package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// countingAnalyzer satisfies Analyzer and tracks invocations.
type countingAnalyzer struct {
	result *Evaluation
	err    error
	delay  time.Duration

	mu    sync.Mutex
	calls int
}

func (a *countingAnalyzer) Analyze(ctx context.Context, transcript []Turn) (*Evaluation, error) {
	a.mu.Lock()
	a.calls++
	a.mu.Unlock()
	if a.delay > 0 {
		time.Sleep(a.delay)
	}
	if a.err != nil {
		return nil, a.err
	}
	return a.result, nil
}

func (a *countingAnalyzer) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

func midEvaluation(overall float64) *Evaluation {
	eval, _ := NewEvaluation(Evaluation{
		Clarity:           0.5,
		Confidence:        0.5,
		Relevance:         0.5,
		Depth:             0.5,
		KeywordMatchScore: 0.5,
		AnswerLengthScore: 0.5,
		OverallScore:      overall,
	})
	return eval
}

func endedSession(t *testing.T, r *Registry, id string) {
	t.Helper()
	r.Create(id)
	r.AppendTurn(id, SpeakerAI, "Tell me about yourself?")
	r.AppendTurn(id, SpeakerCandidate, "I have ten years of experience.")
	r.MarkEnded(id)
}

func TestSummarizeGeneratesAndCaches(t *testing.T) {
	registry := NewRegistry(nil)
	endedSession(t, registry, "s1")
	analyzer := &countingAnalyzer{result: midEvaluation(0.5)}
	sz := NewSummarizer(registry, analyzer, nil)

	first, err := sz.Summarize(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if first.SessionID != "s1" || len(first.FullTranscript) != 2 {
		t.Errorf("summary = %+v, want 2-turn transcript for s1", first)
	}
	if first.DurationSeconds < 0 {
		t.Errorf("negative duration %v", first.DurationSeconds)
	}

	status, _ := registry.Status("s1")
	if status != StatusSummarized {
		t.Errorf("status = %v, want summarized", status)
	}

	second, err := sz.Summarize(context.Background(), "s1")
	if err != nil {
		t.Fatalf("second Summarize: %v", err)
	}
	if second != first {
		t.Error("second call returned a different summary instance")
	}
	if analyzer.callCount() != 1 {
		t.Errorf("analyzer ran %d times, want 1", analyzer.callCount())
	}
}

func TestSummarizeConcurrentCallsAnalyzeOnce(t *testing.T) {
	registry := NewRegistry(nil)
	endedSession(t, registry, "s1")
	analyzer := &countingAnalyzer{result: midEvaluation(0.5), delay: 20 * time.Millisecond}
	sz := NewSummarizer(registry, analyzer, nil)

	const callers = 10
	results := make([]*Summary, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := sz.Summarize(context.Background(), "s1")
			if err != nil {
				t.Errorf("Summarize: %v", err)
				return
			}
			results[i] = s
		}(i)
	}
	wg.Wait()

	if analyzer.callCount() != 1 {
		t.Fatalf("analyzer ran %d times, want exactly 1", analyzer.callCount())
	}
	for i := 1; i < callers; i++ {
		if results[i] != results[0] {
			t.Fatalf("caller %d got a different summary instance", i)
		}
	}
}

func TestSummarizeEmptyTranscript(t *testing.T) {
	registry := NewRegistry(nil)
	registry.Create("s1")
	registry.MarkEnded("s1")
	sz := NewSummarizer(registry, &countingAnalyzer{result: midEvaluation(0.5)}, nil)

	if _, err := sz.Summarize(context.Background(), "s1"); !errors.Is(err, ErrEmptyTranscript) {
		t.Errorf("error = %v, want ErrEmptyTranscript", err)
	}
}

func TestSummarizeUnknownSession(t *testing.T) {
	sz := NewSummarizer(NewRegistry(nil), &countingAnalyzer{}, nil)
	if _, err := sz.Summarize(context.Background(), "ghost"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("error = %v, want ErrSessionNotFound", err)
	}
}

func TestSummarizeAnalyzerFailureIsNotCached(t *testing.T) {
	registry := NewRegistry(nil)
	endedSession(t, registry, "s1")
	boom := errors.New("scoring backend down")
	analyzer := &countingAnalyzer{err: boom}
	sz := NewSummarizer(registry, analyzer, nil)

	if _, err := sz.Summarize(context.Background(), "s1"); !errors.Is(err, boom) {
		t.Fatalf("error = %v, want %v", err, boom)
	}

	// A later call retries instead of serving a poisoned cache.
	analyzer.err = nil
	analyzer.result = midEvaluation(0.5)
	if _, err := sz.Summarize(context.Background(), "s1"); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if analyzer.callCount() != 2 {
		t.Errorf("analyzer ran %d times, want 2", analyzer.callCount())
	}
}

func TestSummarizeTips(t *testing.T) {
	t.Run("low score gets improvement tips", func(t *testing.T) {
		registry := NewRegistry(nil)
		endedSession(t, registry, "s1")
		sz := NewSummarizer(registry, &countingAnalyzer{result: midEvaluation(0.4)}, nil)

		summary, err := sz.Summarize(context.Background(), "s1")
		if err != nil {
			t.Fatalf("Summarize: %v", err)
		}
		if len(summary.Tips) < 2 {
			t.Errorf("tips = %v, want the improvement list", summary.Tips)
		}
	})

	t.Run("high score gets praise", func(t *testing.T) {
		registry := NewRegistry(nil)
		endedSession(t, registry, "s2")
		sz := NewSummarizer(registry, &countingAnalyzer{result: midEvaluation(0.9)}, nil)

		summary, err := sz.Summarize(context.Background(), "s2")
		if err != nil {
			t.Fatalf("Summarize: %v", err)
		}
		if len(summary.Tips) != 1 {
			t.Errorf("tips = %v, want a single praise entry", summary.Tips)
		}
	})
}

func TestCachedDoesNotCompute(t *testing.T) {
	registry := NewRegistry(nil)
	endedSession(t, registry, "s1")
	analyzer := &countingAnalyzer{result: midEvaluation(0.5)}
	sz := NewSummarizer(registry, analyzer, nil)

	cached, err := sz.Cached("s1")
	if err != nil {
		t.Fatalf("Cached: %v", err)
	}
	if cached != nil {
		t.Errorf("Cached returned %+v before any Summarize", cached)
	}
	if analyzer.callCount() != 0 {
		t.Errorf("Cached triggered %d analyzer runs", analyzer.callCount())
	}
}
