package interview

// Transport is the bidirectional message-framed connection to the candidate.
// Binary frames carry audio; text frames carry control messages and notices
// (see pkg/protocol). The websocket adapter lives in pkg/server.
type Transport interface {
	// ReadMessage blocks until the next inbound frame arrives.
	// kind is protocol.TextFrame or protocol.BinaryFrame.
	ReadMessage() (kind int, data []byte, err error)

	// WriteText sends a text frame.
	WriteText(text string) error

	// WriteBinary sends a binary frame.
	WriteBinary(data []byte) error

	// Close closes the connection with a status code and reason.
	Close(code int, reason string) error
}
