// Package llm provides the interviewer response generator.
//
// A Generator produces the AI side of the conversation as a lazy stream of
// text chunks, so speech synthesis can begin before the full response exists.
// The Client implementation targets any OpenAI-compatible chat completions
// API; Script is a self-contained question-list interviewer that needs no
// API key.
package llm

import "context"

// Generator produces interviewer responses.
type Generator interface {
	// Generate streams the next interviewer response given the candidate's
	// latest input and the conversation history. Empty input with empty
	// history requests the opening greeting.
	Generate(ctx context.Context, input string, history []Message) (Stream, error)

	// Health checks generator readiness.
	Health(ctx context.Context) error

	// Close releases any resources held by the generator.
	Close() error
}

// Stream is a lazy sequence of response text chunks.
type Stream interface {
	// Recv returns the next chunk. The final chunk has Done set.
	Recv() (*Chunk, error)

	// Close stops the stream and releases resources.
	Close() error
}

// Chunk is a piece of a streaming response.
type Chunk struct {
	// Delta is the incremental text content.
	Delta string

	// Done is true when the stream is complete.
	Done bool
}

// Role identifies a message sender in the conversation history.
type Role string

const (
	// RoleSystem is for system instructions.
	RoleSystem Role = "system"

	// RoleUser is for candidate utterances.
	RoleUser Role = "user"

	// RoleAssistant is for interviewer responses.
	RoleAssistant Role = "assistant"
)

// Message is one entry of the conversation history.
type Message struct {
	Role    Role
	Content string
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a candidate message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an interviewer message.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}
