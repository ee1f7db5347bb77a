package llm

import (
	"context"
	"sync"
	"time"
)

// Mock implements Generator for testing.
type Mock struct {
	// GenerateFunc is called when Generate is invoked.
	// If nil, streams Response word by word.
	GenerateFunc func(ctx context.Context, input string, history []Message) (Stream, error)

	// Response is streamed by the default GenerateFunc.
	Response string

	// HealthFunc is called when Health is invoked.
	HealthFunc func(ctx context.Context) error

	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a Generate invocation.
type MockCall struct {
	Method  string
	Input   string
	History []Message
	Time    time.Time
}

// NewMock creates a mock generator that streams the given response.
func NewMock(response string) *Mock {
	return &Mock{Response: response}
}

// Generate calls GenerateFunc and records the call.
func (m *Mock) Generate(ctx context.Context, input string, history []Message) (Stream, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{
		Method:  "Generate",
		Input:   input,
		History: history,
		Time:    time.Now(),
	})
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, input, history)
	}
	return newWordStream(m.Response), nil
}

// Health calls HealthFunc, defaulting to healthy.
func (m *Mock) Health(ctx context.Context) error {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// Close returns nil.
func (m *Mock) Close() error {
	return nil
}

// Calls returns all recorded invocations.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// ChunkStream returns a Stream that replays the given chunks verbatim,
// then reports Done. Useful for scripting exact chunk boundaries in tests.
func ChunkStream(chunks ...string) Stream {
	return &chunkStream{chunks: chunks}
}

type chunkStream struct {
	mu     sync.Mutex
	chunks []string
	next   int
}

func (s *chunkStream) Recv() (*Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.chunks) {
		return &Chunk{Done: true}, nil
	}
	c := s.chunks[s.next]
	s.next++
	return &Chunk{Delta: c}, nil
}

func (s *chunkStream) Close() error {
	return nil
}

// Verify Mock implements Generator at compile time.
var _ Generator = (*Mock)(nil)
