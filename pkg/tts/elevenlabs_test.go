package tts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestElevenLabs(t *testing.T, handler http.HandlerFunc, opts ...Option) *ElevenLabs {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	base := []Option{
		WithAPIKey("test-key"),
		WithVoice("voice-1"),
		WithBaseURL(server.URL),
	}
	provider, err := NewElevenLabs(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewElevenLabs: %v", err)
	}
	return provider
}

func TestElevenLabsSynthesize(t *testing.T) {
	audio := make([]byte, 3200)
	provider := newTestElevenLabs(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/text-to-speech/voice-1") {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("xi-api-key"); got != "test-key" {
			t.Errorf("api key header = %q", got)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["text"] != "Hello there." {
			t.Errorf("text = %v", body["text"])
		}
		if _, ok := body["voice_settings"]; !ok {
			t.Error("voice_settings missing from payload")
		}
		w.Write(audio)
	})

	result, err := provider.Synthesize(context.Background(), "Hello there.")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(result.Audio) != len(audio) {
		t.Errorf("audio bytes = %d, want %d", len(result.Audio), len(audio))
	}
	if result.CharCount != len("Hello there.") {
		t.Errorf("char count = %d", result.CharCount)
	}
	// 3200 bytes of 16kHz PCM16 is 100ms.
	if result.Duration != 100*time.Millisecond {
		t.Errorf("duration = %v, want 100ms", result.Duration)
	}
}

func TestElevenLabsSynthesizeRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	provider := newTestElevenLabs(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte{0x01, 0x02})
	}, WithRetry(2, time.Millisecond))

	result, err := provider.Synthesize(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("request count = %d, want 2", calls.Load())
	}
	if len(result.Audio) != 2 {
		t.Errorf("audio bytes = %d, want 2", len(result.Audio))
	}
}

func TestElevenLabsSynthesizeAPIError(t *testing.T) {
	provider := newTestElevenLabs(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"detail": {"message": "invalid api key"}}`)
	})

	_, err := provider.Synthesize(context.Background(), "hi")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized || apiErr.Message != "invalid api key" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestElevenLabsStream(t *testing.T) {
	audio := make([]byte, 10000)
	for i := range audio {
		audio[i] = byte(i)
	}
	provider := newTestElevenLabs(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/stream") {
			t.Errorf("path = %q, want streaming endpoint", r.URL.Path)
		}
		w.Write(audio)
	})

	stream, err := provider.Stream(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	defer stream.Close()

	var got []byte
	for {
		chunk, err := stream.Read()
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if chunk == nil {
			break
		}
		got = append(got, chunk...)
	}
	if len(got) != len(audio) {
		t.Fatalf("streamed %d bytes, want %d", len(got), len(audio))
	}
	for i := range got {
		if got[i] != audio[i] {
			t.Fatalf("byte %d = %d, want %d", i, got[i], audio[i])
		}
	}
	if stream.Format().Encoding != EncodingPCM16 {
		t.Errorf("format = %v, want default pcm_16000", stream.Format().Encoding)
	}
}

func TestElevenLabsValidation(t *testing.T) {
	if _, err := NewElevenLabs(WithVoice("v")); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("missing key error = %v, want ErrNoAPIKey", err)
	}
	if _, err := NewElevenLabs(WithAPIKey("k")); !errors.Is(err, ErrNoVoiceID) {
		t.Errorf("missing voice error = %v, want ErrNoVoiceID", err)
	}
}
