package interview

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/vocahire/vocahire/pkg/tts"
)

// Bridge connects a streaming text producer to a speech synthesizer. Text
// chunks pushed into TextIn are synthesized in order and emitted on AudioOut.
// Both channels are bounded, so a slow consumer backpressures the producer
// rather than growing memory. Closing TextIn is the only way to finish a
// turn normally; Run closes AudioOut exactly once in every outcome.
type Bridge struct {
	speaker      tts.Provider
	stallTimeout time.Duration
	logger       *slog.Logger

	textIn   chan string
	audioOut chan []byte
}

// NewBridge creates a bridge for one AI turn. Bridges are single-use.
func NewBridge(speaker tts.Provider, cfg *Config) *Bridge {
	return &Bridge{
		speaker:      speaker,
		stallTimeout: cfg.StallTimeout,
		logger:       cfg.Logger.With("component", "interview.bridge"),
		textIn:       make(chan string, cfg.TextBuffer),
		audioOut:     make(chan []byte, cfg.AudioBuffer),
	}
}

// TextIn is the inbound text channel. The producer sends response fragments
// and closes the channel when the response is complete.
func (b *Bridge) TextIn() chan<- string {
	return b.textIn
}

// CloseText marks the end of the text flow. Call exactly once, from the
// producer side.
func (b *Bridge) CloseText() {
	close(b.textIn)
}

// AudioOut is the outbound audio channel. It is closed when the turn's audio
// flow ends; chunks already queued remain readable after close.
func (b *Bridge) AudioOut() <-chan []byte {
	return b.audioOut
}

// Run drives the bridge until the text flow closes, the stall timeout fires,
// synthesis fails, or ctx is cancelled. It returns ErrStallTimeout when the
// producer goes quiet, a synthesis error wrapped by the provider, or nil on a
// complete turn.
func (b *Bridge) Run(ctx context.Context) error {
	defer close(b.audioOut)

	timer := time.NewTimer(b.stallTimeout)
	defer timer.Stop()

	for {
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(b.stallTimeout)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			b.logger.Warn("text producer stalled", "timeout", b.stallTimeout)
			return ErrStallTimeout
		case text, ok := <-b.textIn:
			if !ok {
				return nil
			}
			if strings.TrimSpace(text) == "" {
				continue
			}
			if err := b.synthesize(ctx, text); err != nil {
				return err
			}
		}
	}
}

// synthesize streams one text fragment's audio onto audioOut.
func (b *Bridge) synthesize(ctx context.Context, text string) error {
	stream, err := b.speaker.Stream(ctx, text)
	if err != nil {
		return err
	}
	defer stream.Close()

	for {
		chunk, err := stream.Read()
		if err != nil {
			return err
		}
		if chunk == nil {
			return nil
		}
		select {
		case b.audioOut <- chunk:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
