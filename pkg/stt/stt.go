// Package stt provides a unified interface for streaming speech-to-text providers.
//
// A Stream accepts audio chunks as they arrive and yields transcription
// results incrementally, flagging which fragments are final for the current
// utterance. Providers manage their own retries; callers treat errors as fatal.
//
// Example usage:
//
//	provider, _ := stt.NewDeepgram(stt.WithAPIKey(os.Getenv("DEEPGRAM_API_KEY")))
//	stream, _ := provider.Stream(ctx)
//	stream.Send(audioChunk)
//	stream.CloseSend()
//	for {
//	    res, err := stream.Recv()
//	    if err != nil || res == nil {
//	        break
//	    }
//	    // res.Text, res.Final
//	}
package stt

import "context"

// Provider defines the streaming transcription interface.
type Provider interface {
	// Stream opens a transcription stream for one utterance.
	// Streams are single-use: open a fresh one per candidate turn.
	Stream(ctx context.Context) (Stream, error)

	// Health checks provider connectivity and API key validity.
	Health(ctx context.Context) error

	// Close releases any resources held by the provider.
	Close() error
}

// Stream is one transcription exchange. Send audio with Send, finish the
// input side with CloseSend, and read results with Recv until it returns
// nil, nil.
type Stream interface {
	// Send submits the next audio chunk.
	Send(chunk []byte) error

	// CloseSend signals that no more audio will be sent.
	CloseSend() error

	// Recv returns the next transcription result.
	// Returns nil, nil when the stream is complete (not an error).
	Recv() (*Result, error)

	// Close aborts the stream and releases resources.
	Close() error
}

// Result is one transcription fragment.
type Result struct {
	// Text is the transcribed fragment.
	Text string

	// Final reports whether this fragment is the final transcript for the
	// utterance segment it covers.
	Final bool
}
