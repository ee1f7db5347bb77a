package tts

import (
	"context"
	"errors"
	"testing"
)

func TestChainFallsBack(t *testing.T) {
	primary := WithError(errors.New("primary down"))
	backup := NewMock()
	chain, err := NewChain(primary, backup)
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}

	result, err := chain.Synthesize(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(result.Audio) == 0 {
		t.Error("no audio from backup provider")
	}
	if primary.CallCount("Synthesize") != 1 || backup.CallCount("Synthesize") != 1 {
		t.Errorf("call counts = %d/%d, want 1/1",
			primary.CallCount("Synthesize"), backup.CallCount("Synthesize"))
	}
}

func TestChainPrimaryWins(t *testing.T) {
	primary := NewMock()
	backup := NewMock()
	chain, _ := NewChain(primary, backup)

	if _, err := chain.Stream(context.Background(), "hello"); err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if backup.CallCount("Stream") != 0 {
		t.Error("backup consulted although the primary succeeded")
	}
}

func TestChainAllFail(t *testing.T) {
	boom := errors.New("down")
	chain, _ := NewChain(WithError(boom), WithError(boom))

	_, err := chain.Synthesize(context.Background(), "hello")
	if !errors.Is(err, ErrAllProvidersFailed) {
		t.Errorf("error = %v, want ErrAllProvidersFailed", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("error %v does not carry the provider failure", err)
	}
}

func TestChainHealth(t *testing.T) {
	healthy := NewMock()
	chain, _ := NewChain(WithError(errors.New("down")), healthy)
	if err := chain.Health(context.Background()); err != nil {
		t.Errorf("Health = %v, want nil when any provider is healthy", err)
	}

	chain, _ = NewChain(WithError(errors.New("down")))
	if err := chain.Health(context.Background()); !errors.Is(err, ErrAllProvidersFailed) {
		t.Errorf("Health = %v, want ErrAllProvidersFailed", err)
	}
}

func TestChainRequiresProviders(t *testing.T) {
	if _, err := NewChain(); !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("error = %v, want ErrProviderUnavailable", err)
	}
}
