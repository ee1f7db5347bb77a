package interview

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vocahire/vocahire/pkg/tts"
)

func testBridgeConfig(stall time.Duration) *Config {
	cfg := DefaultConfig()
	cfg.StallTimeout = stall
	return cfg
}

func TestBridgeDeliversAudioInOrder(t *testing.T) {
	speaker := tts.NewMock()
	bridge := NewBridge(speaker, testBridgeConfig(time.Second))

	runErr := make(chan error, 1)
	go func() {
		runErr <- bridge.Run(context.Background())
	}()

	bridge.TextIn() <- "Hello "
	bridge.TextIn() <- "world."
	bridge.CloseText()

	var total int
	for chunk := range bridge.AudioOut() {
		total += len(chunk)
	}
	if err := <-runErr; err != nil {
		t.Fatalf("Run returned %v, want nil", err)
	}

	// The mock synthesizes 640 bytes per character, fragment by fragment.
	want := (len("Hello ") + len("world.")) * 640
	if total != want {
		t.Errorf("audio bytes = %d, want %d", total, want)
	}
	if speaker.CallCount("Stream") != 2 {
		t.Errorf("Stream calls = %d, want 2", speaker.CallCount("Stream"))
	}
}

func TestBridgeSkipsWhitespaceOnlyText(t *testing.T) {
	speaker := tts.NewMock()
	bridge := NewBridge(speaker, testBridgeConfig(time.Second))

	runErr := make(chan error, 1)
	go func() {
		runErr <- bridge.Run(context.Background())
	}()

	bridge.TextIn() <- "  "
	bridge.TextIn() <- "\n"
	bridge.CloseText()

	for range bridge.AudioOut() {
	}
	if err := <-runErr; err != nil {
		t.Fatalf("Run returned %v, want nil", err)
	}
	if speaker.CallCount("Stream") != 0 {
		t.Errorf("Stream calls = %d, want 0", speaker.CallCount("Stream"))
	}
}

func TestBridgeStallTimeout(t *testing.T) {
	speaker := tts.NewMock()
	bridge := NewBridge(speaker, testBridgeConfig(30*time.Millisecond))

	runErr := make(chan error, 1)
	go func() {
		runErr <- bridge.Run(context.Background())
	}()

	// One fragment is synthesized, then the producer goes quiet.
	bridge.TextIn() <- "Hi"

	err := <-runErr
	if !errors.Is(err, ErrStallTimeout) {
		t.Fatalf("Run returned %v, want ErrStallTimeout", err)
	}

	// Audio synthesized before the stall is still readable after close.
	var total int
	for chunk := range bridge.AudioOut() {
		total += len(chunk)
	}
	if want := len("Hi") * 640; total != want {
		t.Errorf("audio bytes after stall = %d, want %d", total, want)
	}
}

func TestBridgeContextCancel(t *testing.T) {
	speaker := tts.NewMock()
	bridge := NewBridge(speaker, testBridgeConfig(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() {
		runErr <- bridge.Run(ctx)
	}()

	cancel()
	if err := <-runErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v, want context.Canceled", err)
	}

	// AudioOut must be closed so a draining consumer is released.
	select {
	case _, ok := <-bridge.AudioOut():
		if ok {
			t.Error("unexpected audio chunk after cancel")
		}
	case <-time.After(time.Second):
		t.Error("AudioOut not closed after cancel")
	}
}

func TestBridgeSynthesisFailure(t *testing.T) {
	boom := errors.New("voice service down")
	bridge := NewBridge(tts.WithError(boom), testBridgeConfig(time.Second))

	runErr := make(chan error, 1)
	go func() {
		runErr <- bridge.Run(context.Background())
	}()

	bridge.TextIn() <- "Hello"
	bridge.CloseText()

	for range bridge.AudioOut() {
	}
	if err := <-runErr; !errors.Is(err, boom) {
		t.Fatalf("Run returned %v, want %v", err, boom)
	}
}
