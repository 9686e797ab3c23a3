// Package embeddings turns lesson text into vectors for semantic search.
package embeddings

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	chromem "github.com/philippgille/chromem-go"
)

// Embedder generates text embeddings.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Name() string
}

// Providers lists the embedding providers New understands. "none" turns
// semantic search off.
var Providers = []string{"openai", "ollama", "none"}

// MaxInputBytes bounds the text embedded per lesson. Longer lessons are
// cut after their opening sections.
const MaxInputBytes = 16000

// New creates the embedder named by provider. It returns nil, nil for
// "none" or an empty provider.
func New(provider, model string) (Embedder, error) {
	switch provider {
	case "", "none":
		return nil, nil
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		if model == "" {
			model = string(ModelTextEmbedding3Small)
		}
		if base := os.Getenv("OPENAI_BASE_URL"); base != "" {
			return NewOpenAICompatibleEmbedder(apiKey, base, OpenAIModel(model)), nil
		}
		return NewOpenAIEmbedder(apiKey, OpenAIModel(model)), nil
	case "ollama":
		if model == "" {
			model = DefaultOllamaModel
		}
		return NewOllamaEmbedder(model, ollamaDimensions(model), os.Getenv("OLLAMA_HOST")), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}
}

// clip collapses whitespace and cuts text to MaxInputBytes on a rune
// boundary. Empty input becomes a single space; both APIs reject "".
func clip(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return " "
	}
	if len(text) <= MaxInputBytes {
		return text
	}
	cut := MaxInputBytes
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

func clipAll(texts []string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = clip(t)
	}
	return out
}

var errNoVector = errors.New("embedder returned no vector")

// ChromemFunc adapts e to the one-text-at-a-time function chromem-go
// calls when adding documents and running queries.
func ChromemFunc(e Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		vecs, err := e.Embed(ctx, []string{text})
		if err != nil {
			return nil, err
		}
		if len(vecs) == 0 || len(vecs[0]) == 0 {
			return nil, fmt.Errorf("%s: %w", e.Name(), errNoVector)
		}
		return vecs[0], nil
	}
}
