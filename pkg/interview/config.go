package interview

import (
	"log/slog"
	"time"

	"github.com/vocahire/vocahire/pkg/llm"
)

// Config holds turn-pacing parameters for an orchestrator.
type Config struct {
	// StallTimeout bounds how long the bridge waits for the next text chunk
	// before closing the audio flow for the turn.
	StallTimeout time.Duration

	// MaxEmptyTurns is the number of consecutive empty candidate turns
	// tolerated before the interview ends.
	MaxEmptyTurns int

	// ConclusionPhrase, matched case-insensitively against a finished AI
	// utterance, moves the interview into its ending phase.
	ConclusionPhrase string

	// TextBuffer is the capacity of the bridge's inbound text channel.
	TextBuffer int

	// AudioBuffer is the capacity of the bridge's outbound audio channel.
	AudioBuffer int

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger
}

// Option configures an orchestrator.
type Option func(*Config)

// DefaultConfig returns production defaults.
func DefaultConfig() *Config {
	return &Config{
		StallTimeout:     5 * time.Second,
		MaxEmptyTurns:    5,
		ConclusionPhrase: llm.ConclusionPhrase,
		TextBuffer:       16,
		AudioBuffer:      32,
		Logger:           slog.Default(),
	}
}

// WithStallTimeout sets the bridge stall timeout.
func WithStallTimeout(d time.Duration) Option {
	return func(c *Config) { c.StallTimeout = d }
}

// WithMaxEmptyTurns sets the empty-turn limit.
func WithMaxEmptyTurns(n int) Option {
	return func(c *Config) { c.MaxEmptyTurns = n }
}

// WithConclusionPhrase sets the phrase that ends the interview.
func WithConclusionPhrase(phrase string) Option {
	return func(c *Config) { c.ConclusionPhrase = phrase }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// Apply applies the options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}
