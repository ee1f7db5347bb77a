package stt

import (
	"context"
	"sync"
	"time"
)

// Mock implements Provider for testing.
// All methods can be customized via function fields.
type Mock struct {
	// StreamFunc is called when Stream is invoked.
	// If nil, returns a stream that replays Results.
	StreamFunc func(ctx context.Context) (Stream, error)

	// Results are replayed by the default stream, one per received chunk
	// batch, after the input side is closed.
	Results []Result

	// HealthFunc is called when Health is invoked.
	// If nil, returns nil (healthy).
	HealthFunc func(ctx context.Context) error

	// Tracking
	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a method invocation for verification.
type MockCall struct {
	Method string
	Time   time.Time
}

// NewMock creates a mock provider whose streams replay the given results.
func NewMock(results ...Result) *Mock {
	return &Mock{Results: results}
}

// Stream calls StreamFunc and records the call.
func (m *Mock) Stream(ctx context.Context) (Stream, error) {
	m.record("Stream")
	if m.StreamFunc != nil {
		return m.StreamFunc(ctx)
	}
	return &mockStream{results: m.Results}, nil
}

// Health calls HealthFunc and records the call.
func (m *Mock) Health(ctx context.Context) error {
	m.record("Health")
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// Close records the call and returns nil.
func (m *Mock) Close() error {
	m.record("Close")
	return nil
}

// record adds a call to the tracking list.
func (m *Mock) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{Method: method, Time: time.Now()})
}

// CallCount returns the number of times a method was called.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.calls {
		if c.Method == method {
			count++
		}
	}
	return count
}

// mockStream replays canned results once the input side closes.
type mockStream struct {
	mu       sync.Mutex
	results  []Result
	chunks   [][]byte
	sendDone chan struct{}
	next     int
	closed   bool
}

// Send records the chunk.
func (s *mockStream) Send(chunk []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStreamClosed
	}
	buf := make([]byte, len(chunk))
	copy(buf, chunk)
	s.chunks = append(s.chunks, buf)
	return nil
}

// CloseSend unblocks Recv.
func (s *mockStream) CloseSend() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendDone == nil {
		s.sendDone = make(chan struct{})
		close(s.sendDone)
	}
	return nil
}

// Recv replays the next canned result after CloseSend, nil when exhausted.
func (s *mockStream) Recv() (*Result, error) {
	// Wait for the input side to finish so results arrive after the audio,
	// like a real streaming recognizer finalizing an utterance.
	for {
		s.mu.Lock()
		done := s.sendDone
		s.mu.Unlock()
		if done != nil {
			<-done
			break
		}
		time.Sleep(time.Millisecond)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.next >= len(s.results) {
		return nil, nil
	}
	r := s.results[s.next]
	s.next++
	return &r, nil
}

// Close aborts the stream.
func (s *mockStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// ReceivedChunks returns the audio chunks sent so far.
func (s *mockStream) ReceivedChunks() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.chunks))
	copy(out, s.chunks)
	return out
}

// Verify Mock implements Provider at compile time.
var _ Provider = (*Mock)(nil)
