package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

const providerClient = "client"

// Client is the HTTP-based response generator.
// Works with any OpenAI-compatible chat completions API (OpenAI, Ollama,
// vLLM, Together, Groq, etc.).
type Client struct {
	baseURL string
	apiKey  string
	config  *Config
	logger  *slog.Logger
}

// NewClient creates a new streaming chat client.
func NewClient(opts ...Option) (*Client, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		config:  cfg,
		logger:  cfg.Logger.With("component", "llm.client"),
	}, nil
}

// Generate streams the next interviewer response.
func (c *Client) Generate(ctx context.Context, input string, history []Message) (Stream, error) {
	messages := make([]map[string]string, 0, len(history)+2)
	messages = append(messages, map[string]string{
		"role":    string(RoleSystem),
		"content": c.config.SystemPrompt,
	})
	for _, m := range history {
		messages = append(messages, map[string]string{
			"role":    string(m.Role),
			"content": m.Content,
		})
	}
	if input != "" {
		messages = append(messages, map[string]string{
			"role":    string(RoleUser),
			"content": input,
		})
	}

	payload := map[string]interface{}{
		"model":       c.config.Model,
		"messages":    messages,
		"max_tokens":  c.config.MaxTokens,
		"temperature": c.config.Temperature,
		"stream":      true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, WrapError(providerClient, fmt.Errorf("marshal payload: %w", err))
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, WrapError(providerClient, fmt.Errorf("create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	client := &http.Client{Timeout: c.config.StreamTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, WrapError(providerClient, fmt.Errorf("stream request: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, c.parseError(resp)
	}

	return &clientStream{
		reader: bufio.NewReader(resp.Body),
		body:   resp.Body,
	}, nil
}

// Health verifies connectivity with a minimal models request.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/models", nil)
	if err != nil {
		return WrapError(providerClient, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	client := &http.Client{Timeout: c.config.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return WrapError(providerClient, fmt.Errorf("health check: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.parseError(resp)
	}
	return nil
}

// Close releases resources held by the generator.
func (c *Client) Close() error {
	return nil
}

// parseError reads and parses an error response.
func (c *Client) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}

	message := string(body)
	code := ""
	if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
		code = errResp.Error.Code
	}

	return &APIError{StatusCode: resp.StatusCode, Message: message, Code: code}
}

// clientStream implements Stream for SSE responses.
type clientStream struct {
	reader *bufio.Reader
	body   io.ReadCloser
}

// Recv returns the next stream chunk.
func (s *clientStream) Recv() (*Chunk, error) {
	for {
		line, err := s.reader.ReadString('\n')
		if err == io.EOF {
			return &Chunk{Done: true}, nil
		}
		if err != nil {
			return nil, WrapError(providerClient, fmt.Errorf("read stream: %w", err))
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			return &Chunk{Done: true}, nil
		}

		var event streamEvent
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			// Skip malformed events
			continue
		}

		if len(event.Choices) == 0 {
			continue
		}

		choice := event.Choices[0]
		return &Chunk{
			Delta: choice.Delta.Content,
			Done:  choice.FinishReason != "",
		}, nil
	}
}

// Close stops the stream.
func (s *clientStream) Close() error {
	return s.body.Close()
}

// streamEvent is the SSE event format.
type streamEvent struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Verify Client implements Generator at compile time.
var _ Generator = (*Client)(nil)
