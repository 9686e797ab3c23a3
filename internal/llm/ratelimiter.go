package llm

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitedProvider spaces requests to the wrapped provider so at most
// rpm start per minute, with bursts of up to rpm.
type RateLimitedProvider struct {
	provider Provider
	limiter  *rate.Limiter
}

// NewRateLimitedProvider wraps provider. A non-positive rpm disables
// limiting and returns provider itself.
func NewRateLimitedProvider(provider Provider, rpm int) Provider {
	if rpm <= 0 {
		return provider
	}
	return &RateLimitedProvider{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(float64(rpm)/60), rpm),
	}
}

func (r *RateLimitedProvider) Name() string {
	return r.provider.Name()
}

// Complete waits for a slot and fails fast when ctx expires first.
func (r *RateLimitedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.provider.Complete(ctx, req)
}

// Stream counts as one request against the limit.
func (r *RateLimitedProvider) Stream(ctx context.Context, req CompletionRequest, fn func(chunk string) error) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	return Stream(ctx, r.provider, req, fn)
}
