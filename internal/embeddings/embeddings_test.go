package embeddings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNewNone(t *testing.T) {
	for _, p := range []string{"", "none"} {
		e, err := New(p, "")
		if err != nil || e != nil {
			t.Errorf("New(%q): expected nil embedder, got %v, %v", p, e, err)
		}
	}
}

func TestNewErrors(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := New("openai", ""); err == nil {
		t.Error("expected error without OPENAI_API_KEY")
	}
	if _, err := New("cohere", ""); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	e, err := New("openai", "")
	if err != nil {
		t.Fatalf("New openai: %v", err)
	}
	if e.Name() != string(ModelTextEmbedding3Small) || e.Dimensions() != 1536 {
		t.Errorf("unexpected openai defaults %s/%d", e.Name(), e.Dimensions())
	}

	e, err = New("ollama", "")
	if err != nil {
		t.Fatalf("New ollama: %v", err)
	}
	if e.Name() != "ollama/"+DefaultOllamaModel || e.Dimensions() != 768 {
		t.Errorf("unexpected ollama defaults %s/%d", e.Name(), e.Dimensions())
	}
}

func TestOllamaEmbed(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			http.NotFound(w, r)
			return
		}
		requests++
		var req ollamaEmbedRequest
		json.NewDecoder(r.Body).Decode(&req)
		var resp ollamaEmbedResponse
		for _, in := range req.Input {
			resp.Embeddings = append(resp.Embeddings, []float32{float32(len(in)), 1})
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	e := NewOllamaEmbedder("nomic-embed-text", 2, srv.URL+"/")
	got, err := e.Embed(context.Background(), []string{"ab", "  ab\n cd  "})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if requests != 1 {
		t.Errorf("expected one batched request, got %d", requests)
	}
	if len(got) != 2 || got[0][0] != 2 || got[1][0] != 5 {
		t.Errorf("unexpected embeddings %v", got)
	}
}

func TestOllamaEmbedCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaEmbedResponse{Embeddings: [][]float32{{1}}})
	}))
	defer srv.Close()

	e := NewOllamaEmbedder("nomic-embed-text", 1, srv.URL)
	if _, err := e.Embed(context.Background(), []string{"a", "b"}); err == nil {
		t.Error("expected error when fewer embeddings come back")
	}
}

func TestClip(t *testing.T) {
	if got := clip("  \n\t "); got != " " {
		t.Errorf("clip(blank) = %q", got)
	}
	if got := clip("a  b\nc"); got != "a b c" {
		t.Errorf("clip collapsed to %q", got)
	}
	long := strings.Repeat("é", MaxInputBytes)
	got := clip(long)
	if len(got) > MaxInputBytes || !utf8.ValidString(got) {
		t.Errorf("clip cut badly: len %d, valid %v", len(got), utf8.ValidString(got))
	}
}

func TestOpenAICompatibleEmbed(t *testing.T) {
	var model string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		model = req.Model
		type item struct {
			Object    string    `json:"object"`
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		}
		data := make([]item, len(req.Input))
		for i := range req.Input {
			// Answer in reverse order; the client sorts by index.
			j := len(req.Input) - 1 - i
			data[i] = item{Object: "embedding", Index: j, Embedding: []float32{float32(j), 0.5}}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": data, "model": req.Model})
	}))
	defer srv.Close()

	e := NewOpenAICompatibleEmbedder("sk-test", srv.URL, ModelTextEmbedding3Small)
	got, err := e.Embed(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if model != string(ModelTextEmbedding3Small) {
		t.Errorf("unexpected model %q", model)
	}
	if len(got) != 3 || got[2][0] != 2 {
		t.Errorf("unexpected embeddings %v", got)
	}
}

type fixedEmbedder struct{ out [][]float32 }

func (f fixedEmbedder) Embed(context.Context, []string) ([][]float32, error) { return f.out, nil }
func (f fixedEmbedder) Dimensions() int                                      { return 2 }
func (f fixedEmbedder) Name() string                                         { return "fixed" }

func TestChromemFunc(t *testing.T) {
	fn := ChromemFunc(fixedEmbedder{out: [][]float32{{1, 0}}})
	vec, err := fn(context.Background(), "x")
	if err != nil || len(vec) != 2 || vec[0] != 1 {
		t.Errorf("unexpected %v, %v", vec, err)
	}

	fn = ChromemFunc(fixedEmbedder{})
	if _, err := fn(context.Background(), "x"); !errors.Is(err, errNoVector) {
		t.Errorf("expected errNoVector, got %v", err)
	}
}
