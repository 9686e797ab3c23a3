package llm

import "context"

// Provider defines the interface for LLM providers.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}

// Streamer is implemented by providers that can deliver a completion
// incrementally. fn is called with each text delta in order; an error
// returned by fn aborts the stream.
type Streamer interface {
	Stream(ctx context.Context, req CompletionRequest, fn func(chunk string) error) error
}

// Stream streams a completion from p. Providers that do not implement
// Streamer deliver the whole completion as a single chunk.
func Stream(ctx context.Context, p Provider, req CompletionRequest, fn func(chunk string) error) error {
	if s, ok := p.(Streamer); ok {
		return s.Stream(ctx, req, fn)
	}
	resp, err := p.Complete(ctx, req)
	if err != nil {
		return err
	}
	if resp.Content == "" {
		return nil
	}
	return fn(resp.Content)
}
