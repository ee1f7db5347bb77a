package stt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

const (
	deepgramWSBaseURL   = "wss://api.deepgram.com/v1/listen"
	deepgramHTTPBaseURL = "https://api.deepgram.com/v1"
	providerDeepgram    = "deepgram"
)

// Deepgram implements Provider using the Deepgram live transcription API
// over WebSocket.
type Deepgram struct {
	config *Config
	logger *slog.Logger
}

// NewDeepgram creates a new Deepgram STT provider.
func NewDeepgram(opts ...Option) (*Deepgram, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Deepgram{
		config: cfg,
		logger: cfg.Logger.With("component", "stt.deepgram"),
	}, nil
}

// Stream opens a live transcription websocket for one utterance.
func (d *Deepgram) Stream(ctx context.Context) (Stream, error) {
	baseURL := d.config.BaseURL
	if baseURL == "" {
		baseURL = deepgramWSBaseURL
	}

	url := fmt.Sprintf("%s?model=%s&language=%s&encoding=linear16&sample_rate=%d&channels=%d&interim_results=true",
		baseURL, d.config.Model, d.config.Language, d.config.SampleRate, d.config.Channels)

	headers := http.Header{}
	headers.Set("Authorization", "Token "+d.config.APIKey)

	dialer := websocket.Dialer{HandshakeTimeout: d.config.DialTimeout}
	conn, resp, err := dialer.DialContext(ctx, url, headers)
	if err != nil {
		if resp != nil {
			return nil, WrapError(providerDeepgram, fmt.Errorf("dial (status %d): %w", resp.StatusCode, err))
		}
		return nil, WrapError(providerDeepgram, fmt.Errorf("dial: %w", err))
	}

	return &deepgramStream{
		conn:   conn,
		logger: d.logger,
	}, nil
}

// Health checks API connectivity and API key validity.
func (d *Deepgram) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", deepgramHTTPBaseURL+"/projects", nil)
	if err != nil {
		return WrapError(providerDeepgram, err)
	}
	req.Header.Set("Authorization", "Token "+d.config.APIKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return WrapError(providerDeepgram, fmt.Errorf("health check: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return WrapError(providerDeepgram, fmt.Errorf("health check status %d", resp.StatusCode))
	}
	return nil
}

// Close releases resources held by the provider.
func (d *Deepgram) Close() error {
	return nil
}

// deepgramStream is one live transcription exchange.
type deepgramStream struct {
	conn   *websocket.Conn
	logger *slog.Logger

	writeMu sync.Mutex
	closed  bool
}

// deepgramEvent is the subset of the live API response we consume.
type deepgramEvent struct {
	Type    string `json:"type"`
	IsFinal bool   `json:"is_final"`
	Channel struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"channel"`
}

// Send submits the next audio chunk.
func (s *deepgramStream) Send(chunk []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.closed {
		return ErrStreamClosed
	}
	if err := s.conn.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
		return WrapError(providerDeepgram, fmt.Errorf("send audio: %w", err))
	}
	return nil
}

// CloseSend tells the server no more audio is coming; the server flushes
// remaining results and closes the connection.
func (s *deepgramStream) CloseSend() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.closed {
		return nil
	}
	if err := s.conn.WriteJSON(map[string]string{"type": "CloseStream"}); err != nil {
		return WrapError(providerDeepgram, fmt.Errorf("close stream: %w", err))
	}
	return nil
}

// Recv returns the next transcription result, nil when the server is done.
func (s *deepgramStream) Recv() (*Result, error) {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil, nil
			}
			return nil, WrapError(providerDeepgram, fmt.Errorf("read: %w", err))
		}

		var event deepgramEvent
		if err := json.Unmarshal(data, &event); err != nil {
			s.logger.Warn("skipping malformed event", "error", err)
			continue
		}

		switch event.Type {
		case "Results":
			if len(event.Channel.Alternatives) == 0 {
				continue
			}
			text := event.Channel.Alternatives[0].Transcript
			if text == "" {
				continue
			}
			return &Result{Text: text, Final: event.IsFinal}, nil
		case "Metadata":
			// Sent after CloseStream once all results are flushed.
			return nil, nil
		default:
			continue
		}
	}
}

// Close aborts the stream.
func (s *deepgramStream) Close() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}

// Verify Deepgram implements Provider at compile time.
var _ Provider = (*Deepgram)(nil)
