package interview

import (
	"errors"
	"sync"

	"github.com/vocahire/vocahire/pkg/protocol"
)

var errBrokenPipe = errors.New("broken pipe")

type frame struct {
	kind int
	data []byte
}

func textFrame(s string) frame {
	return frame{kind: protocol.TextFrame, data: []byte(s)}
}

func binaryFrame(b []byte) frame {
	return frame{kind: protocol.BinaryFrame, data: b}
}

// fakeTransport scripts the candidate side of a session. Inbound frames are
// queued up front (or pushed during the test); closing the queue simulates a
// dropped connection.
type fakeTransport struct {
	inbound chan frame

	mu          sync.Mutex
	texts       []string
	binary      [][]byte
	failWrites  bool
	failAfter   int
	closed      bool
	closeCode   int
	closeReason string
}

func newFakeTransport(frames ...frame) *fakeTransport {
	t := &fakeTransport{
		inbound:   make(chan frame, len(frames)+16),
		failAfter: -1,
	}
	for _, f := range frames {
		t.inbound <- f
	}
	return t
}

func (t *fakeTransport) push(f frame) {
	t.inbound <- f
}

// disconnect makes all subsequent reads fail, like a closed socket.
func (t *fakeTransport) disconnect() {
	close(t.inbound)
}

// failBinaryAfter makes binary writes fail once n have succeeded.
func (t *fakeTransport) failBinaryAfter(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failAfter = n
}

func (t *fakeTransport) ReadMessage() (int, []byte, error) {
	f, ok := <-t.inbound
	if !ok {
		return 0, nil, errBrokenPipe
	}
	return f.kind, f.data, nil
}

func (t *fakeTransport) WriteText(text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failWrites {
		return errBrokenPipe
	}
	t.texts = append(t.texts, text)
	return nil
}

func (t *fakeTransport) WriteBinary(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failWrites {
		return errBrokenPipe
	}
	if t.failAfter >= 0 && len(t.binary) >= t.failAfter {
		t.failWrites = true
		return errBrokenPipe
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	t.binary = append(t.binary, buf)
	return nil
}

func (t *fakeTransport) Close(code int, reason string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.closeCode = code
	t.closeReason = reason
	return nil
}

func (t *fakeTransport) sentTexts() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.texts))
	copy(out, t.texts)
	return out
}

func (t *fakeTransport) sentBinary() [][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([][]byte, len(t.binary))
	copy(out, t.binary)
	return out
}

func (t *fakeTransport) closedWith() (bool, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed, t.closeCode
}

var _ Transport = (*fakeTransport)(nil)
