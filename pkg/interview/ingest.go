package interview

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vocahire/vocahire/pkg/protocol"
)

// Chunk is one audio frame of a candidate turn, tagged with its arrival order.
type Chunk struct {
	Seq  int
	Data []byte
}

// Ingestor reads one candidate turn's audio from the transport. Binary frames
// become ordered Chunks; the turn ends on an END_OF_STREAM control frame, an
// END_INTERVIEW control frame, or transport closure. An ingestor serves
// exactly one turn; create a fresh one per candidate turn.
type Ingestor struct {
	transport Transport
	logger    *slog.Logger

	mu           sync.Mutex
	consumed     bool
	endInterview bool
	disconnected bool
	readErr      error
}

// NewIngestor creates an ingestor for a single candidate turn.
func NewIngestor(t Transport, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{
		transport: t,
		logger:    logger.With("component", "interview.ingestor"),
	}
}

// Chunks starts reading the transport and returns the turn's audio chunks in
// arrival order. The channel closes when the turn ends for any reason; check
// EndInterview, Disconnected, and Err afterwards to learn which. Calling
// Chunks a second time returns a closed channel.
func (in *Ingestor) Chunks(ctx context.Context) <-chan Chunk {
	out := make(chan Chunk)

	in.mu.Lock()
	if in.consumed {
		in.mu.Unlock()
		in.logger.Error("ingestor reused", "error", ErrIngestorConsumed)
		close(out)
		return out
	}
	in.consumed = true
	in.mu.Unlock()

	go func() {
		defer close(out)
		seq := 0
		for {
			kind, data, err := in.transport.ReadMessage()
			if err != nil {
				// Websocket read errors are connection-fatal: the conn is
				// unusable after any of them, so closure and decode failures
				// both end the session as a disconnect.
				in.mu.Lock()
				in.disconnected = true
				in.readErr = err
				in.mu.Unlock()
				return
			}

			switch kind {
			case protocol.BinaryFrame:
				select {
				case out <- Chunk{Seq: seq, Data: data}:
					seq++
				case <-ctx.Done():
					return
				}
			case protocol.TextFrame:
				switch string(data) {
				case protocol.EndOfStream:
					return
				case protocol.EndInterview:
					in.mu.Lock()
					in.endInterview = true
					in.mu.Unlock()
					return
				default:
					in.logger.Warn("unexpected text frame during audio turn", "frame", string(data))
				}
			default:
				in.logger.Warn("unexpected frame kind", "kind", kind)
			}
		}
	}()
	return out
}

// EndInterview reports whether the turn ended with an END_INTERVIEW control.
func (in *Ingestor) EndInterview() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.endInterview
}

// Disconnected reports whether the transport closed during the turn.
func (in *Ingestor) Disconnected() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.disconnected
}

// Err returns the transport read error, if any.
func (in *Ingestor) Err() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.readErr
}
