package server

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	"github.com/vocahire/vocahire/pkg/interview"
	"github.com/vocahire/vocahire/pkg/protocol"
)

const closeWriteTimeout = 2 * time.Second

// wsTransport adapts a websocket connection to interview.Transport.
// Writes are serialized; the connection's reader is only ever touched by the
// orchestrator goroutine.
type wsTransport struct {
	conn *websocket.Conn

	mu sync.Mutex
}

func newWSTransport(conn *websocket.Conn) *wsTransport {
	return &wsTransport{conn: conn}
}

func (t *wsTransport) ReadMessage() (int, []byte, error) {
	return t.conn.ReadMessage()
}

func (t *wsTransport) WriteText(text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

func (t *wsTransport) WriteBinary(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn.WriteMessage(websocket.BinaryMessage, data)
}

func (t *wsTransport) Close(code int, reason string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	deadline := time.Now().Add(closeWriteTimeout)
	_ = t.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
	return t.conn.Close()
}

// handleInterview runs one interview per connection. The session id comes
// from the path or is generated.
func (s *Server) handleInterview(c *websocket.Conn) {
	id := c.Params("id")
	if id == "" {
		id = uuid.NewString()
	}
	log := s.logger.With("session_id", id)
	log.Info("interview connection accepted")

	transport := newWSTransport(c)
	orc := interview.New(
		id,
		transport,
		s.registry,
		s.transcriber,
		s.generator,
		s.speaker,
		s.cfg.InterviewOptions...,
	)

	if err := orc.Run(context.Background()); err != nil {
		// Run already closed the transport with an abnormal status.
		log.Error("interview aborted", "error", err)
		return
	}
	if err := transport.Close(protocol.CloseNormal, ""); err != nil {
		log.Debug("close after finished interview", "error", err)
	}
}

// Verify wsTransport implements interview.Transport at compile time.
var _ interview.Transport = (*wsTransport)(nil)
