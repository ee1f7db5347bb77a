package tts

import (
	"context"
	"errors"
	"log/slog"
)

// Chain tries providers in order until one succeeds.
// Use it to fall back from a primary voice service to a backup.
type Chain struct {
	providers []Provider
	logger    *slog.Logger
}

// NewChain creates a fallback chain from the given providers.
func NewChain(providers ...Provider) (*Chain, error) {
	if len(providers) == 0 {
		return nil, ErrProviderUnavailable
	}
	return &Chain{
		providers: providers,
		logger:    slog.Default().With("component", "tts.chain"),
	}, nil
}

// Synthesize tries each provider in order.
func (c *Chain) Synthesize(ctx context.Context, text string) (*AudioResult, error) {
	var errs []error
	for i, p := range c.providers {
		result, err := p.Synthesize(ctx, text)
		if err == nil {
			return result, nil
		}
		errs = append(errs, err)
		c.logger.Warn("provider failed, falling back", "index", i, "error", err)
	}
	return nil, errors.Join(ErrAllProvidersFailed, errors.Join(errs...))
}

// Stream tries each provider in order.
func (c *Chain) Stream(ctx context.Context, text string) (AudioStream, error) {
	var errs []error
	for i, p := range c.providers {
		stream, err := p.Stream(ctx, text)
		if err == nil {
			return stream, nil
		}
		errs = append(errs, err)
		c.logger.Warn("provider failed, falling back", "index", i, "error", err)
	}
	return nil, errors.Join(ErrAllProvidersFailed, errors.Join(errs...))
}

// Health succeeds if any provider is healthy.
func (c *Chain) Health(ctx context.Context) error {
	var errs []error
	for _, p := range c.providers {
		if err := p.Health(ctx); err == nil {
			return nil
		} else {
			errs = append(errs, err)
		}
	}
	return errors.Join(ErrAllProvidersFailed, errors.Join(errs...))
}

// Close closes all providers, returning the first error.
func (c *Chain) Close() error {
	var first error
	for _, p := range c.providers {
		if err := p.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Verify Chain implements Provider at compile time.
var _ Provider = (*Chain)(nil)
