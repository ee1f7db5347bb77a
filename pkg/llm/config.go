package llm

import (
	"log/slog"
	"time"
)

// Config holds generator configuration.
type Config struct {
	// Connection
	BaseURL string // API base URL
	APIKey  string

	// Model and prompting
	Model        string
	SystemPrompt string

	// Request defaults
	MaxTokens   int
	Temperature float64

	// Timeouts
	Timeout       time.Duration
	StreamTimeout time.Duration

	// Observability
	Logger *slog.Logger
}

// Option is a functional option for configuring generators.
type Option func(*Config)

// WithBaseURL sets the API base URL.
// Examples: "https://api.openai.com/v1", "http://localhost:11434/v1"
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) Option {
	return func(c *Config) { c.APIKey = key }
}

// WithModel sets the chat model.
func WithModel(model string) Option {
	return func(c *Config) { c.Model = model }
}

// WithSystemPrompt overrides the default interviewer system prompt.
func WithSystemPrompt(prompt string) Option {
	return func(c *Config) { c.SystemPrompt = prompt }
}

// WithMaxTokens sets the default max tokens.
func WithMaxTokens(n int) Option {
	return func(c *Config) { c.MaxTokens = n }
}

// WithTemperature sets the default temperature.
func WithTemperature(t float64) Option {
	return func(c *Config) { c.Temperature = t }
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithStreamTimeout sets the streaming request timeout.
func WithStreamTimeout(d time.Duration) Option {
	return func(c *Config) { c.StreamTimeout = d }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// defaultSystemPrompt steers the model to behave as a structured interviewer
// and to close with the fixed conclusion phrase the orchestrator matches on.
const defaultSystemPrompt = `You are a professional job interviewer conducting a voice interview. ` +
	`Ask one question at a time, acknowledge answers briefly, and keep responses short and spoken-word friendly. ` +
	`When you have no further questions, say "That concludes the main part of the interview." and invite final questions.`

// DefaultConfig returns sensible defaults for OpenAI-compatible APIs.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:       "https://api.openai.com/v1",
		Model:         "gpt-4o-mini",
		SystemPrompt:  defaultSystemPrompt,
		MaxTokens:     512,
		Temperature:   0.7,
		Timeout:       30 * time.Second,
		StreamTimeout: 120 * time.Second,
		Logger:        slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}
