package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const providerScript = "script"

// ConclusionPhrase is spoken by the scripted interviewer when it runs out of
// questions. The orchestrator matches on it (case-insensitive) to end the
// session, so the Client's system prompt instructs real models to use the
// same wording.
const ConclusionPhrase = "that concludes the main part of the interview"

// ScriptConfig is the YAML shape for interview scripts.
type ScriptConfig struct {
	Greeting         string   `yaml:"greeting"`
	Questions        []string `yaml:"questions"`
	Acknowledgements []string `yaml:"acknowledgements"`
	Conclusion       string   `yaml:"conclusion"`
}

// DefaultScript returns the built-in interview script.
func DefaultScript() ScriptConfig {
	return ScriptConfig{
		Greeting: "Hello! Welcome to your VocaHire interview. Let's begin.",
		Questions: []string{
			"Can you tell me about yourself?",
			"What are your strengths?",
			"What are your weaknesses?",
			"Why are you interested in this role?",
			"Describe a challenging situation you faced and how you handled it.",
			"Where do you see yourself in 5 years?",
			"Why should we hire you?",
			"Do you have any questions for me?",
		},
		Acknowledgements: []string{
			"Okay, thank you.",
			"Understood.",
			"Thanks for sharing that.",
			"I see.",
			"Alright.",
		},
		Conclusion: "Thank you for your responses. That concludes the main part of the interview. Do you have any final questions for VocaHire?",
	}
}

// LoadScript reads a script from a YAML file, filling gaps from the default.
func LoadScript(path string) (ScriptConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ScriptConfig{}, fmt.Errorf("read script: %w", err)
	}

	cfg := DefaultScript()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ScriptConfig{}, fmt.Errorf("parse script: %w", err)
	}
	if len(cfg.Questions) == 0 {
		return ScriptConfig{}, fmt.Errorf("script %s has no questions", path)
	}
	return cfg, nil
}

// Script is a self-contained question-list interviewer. It needs no API key
// and is deterministic, which makes it the development and test generator.
//
// Each Script instance carries its own question cursor, so one instance is
// created per session; concurrent sessions never share interview progress.
type Script struct {
	cfg ScriptConfig

	mu      sync.Mutex
	nextQ   int
	turns   int
	started bool
}

// NewScript creates a scripted interviewer from the given script.
func NewScript(cfg ScriptConfig) *Script {
	if len(cfg.Questions) == 0 {
		cfg = DefaultScript()
	}
	return &Script{cfg: cfg}
}

// Generate streams the next scripted response word by word.
func (s *Script) Generate(ctx context.Context, input string, history []Message) (Stream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var text string
	switch {
	case !s.started && input == "" && len(history) == 0:
		s.started = true
		text = s.cfg.Greeting + " " + s.cfg.Questions[s.nextQ]
		s.nextQ++
	case s.nextQ >= len(s.cfg.Questions):
		text = s.cfg.Conclusion
	case input == "":
		text = "I'm sorry, I didn't quite catch that. Could you please repeat?"
	default:
		ack := s.cfg.Acknowledgements[s.turns%len(s.cfg.Acknowledgements)]
		text = ack + " Now, " + s.cfg.Questions[s.nextQ]
		s.nextQ++
	}
	s.turns++

	return newWordStream(text), nil
}

// Health always succeeds for the scripted generator.
func (s *Script) Health(ctx context.Context) error {
	return nil
}

// Close releases nothing; scripts hold no resources.
func (s *Script) Close() error {
	return nil
}

// wordStream replays a fixed response one word at a time, preserving the
// trailing space between words so concatenation reproduces the response.
type wordStream struct {
	mu     sync.Mutex
	words  []string
	next   int
	closed bool
}

func newWordStream(text string) *wordStream {
	fields := strings.Fields(text)
	words := make([]string, len(fields))
	for i, w := range fields {
		if i < len(fields)-1 {
			words[i] = w + " "
		} else {
			words[i] = w
		}
	}
	return &wordStream{words: words}
}

// Recv returns the next word chunk.
func (s *wordStream) Recv() (*Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStreamClosed
	}
	if s.next >= len(s.words) {
		return &Chunk{Done: true}, nil
	}
	w := s.words[s.next]
	s.next++
	return &Chunk{Delta: w, Done: s.next == len(s.words)}, nil
}

// Close stops the stream.
func (s *wordStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Verify Script implements Generator at compile time.
var _ Generator = (*Script)(nil)
