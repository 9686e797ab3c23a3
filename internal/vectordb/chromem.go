package vectordb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/ziadkadry99/clil-studio/internal/embeddings"
)

const (
	collectionName = "lessons"
	exportFile     = "lessons.gob.gz"
	manifestFile   = "manifest.json"
)

// manifest records which model built a persisted index.
type manifest struct {
	Embedder string `json:"embedder"`
}

// ErrEmbedderChanged is returned by Load when the persisted index was
// built by another embedding model. The store is left empty.
var ErrEmbedderChanged = errors.New("index was built with a different embedder")

// ChromemStore implements VectorStore using chromem-go.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedFunc  chromem.EmbeddingFunc
	embedder   string
}

// NewChromemStore creates an empty in-memory store whose vectors come
// from embedder.
func NewChromemStore(embedder embeddings.Embedder) (*ChromemStore, error) {
	s := &ChromemStore{
		embedFunc: embeddings.ChromemFunc(embedder),
		embedder:  embedder.Name(),
	}
	if err := s.reset(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ChromemStore) reset() error {
	s.db = chromem.NewDB()
	col, err := s.db.GetOrCreateCollection(collectionName, nil, s.embedFunc)
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	s.collection = col
	return nil
}

func (s *ChromemStore) AddDocuments(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	chromDocs := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		chromDocs[i] = chromem.Document{
			ID:       doc.ID,
			Content:  doc.Content,
			Metadata: metadataToMap(doc.Metadata),
		}
	}
	return s.collection.AddDocuments(ctx, chromDocs, min(len(docs), runtime.NumCPU()))
}

// Search returns up to limit lessons most similar to query, best first.
func (s *ChromemStore) Search(ctx context.Context, query string, limit int, filter *SearchFilter) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}
	limit = min(limit, s.collection.Count())
	if limit == 0 {
		return nil, nil
	}

	results, err := s.collection.Query(ctx, query, limit, buildWhereClause(filter), nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	out := make([]SearchResult, len(results))
	for i, r := range results {
		out[i] = SearchResult{
			Document: Document{
				ID:       r.ID,
				Content:  r.Content,
				Metadata: mapToMetadata(r.Metadata),
			},
			Similarity: r.Similarity,
		}
	}
	return out, nil
}

func (s *ChromemStore) Delete(ctx context.Context, id string) error {
	return s.collection.Delete(ctx, nil, nil, id)
}

// Persist writes a compressed export of the index to dir.
func (s *ChromemStore) Persist(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}
	if err := s.db.ExportToFile(filepath.Join(dir, exportFile), true, ""); err != nil {
		return err
	}
	data, err := json.Marshal(manifest{Embedder: s.embedder})
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, manifestFile), data, 0o644)
}

// Load imports a previously persisted index. A missing export is not an
// error; the store stays empty.
func (s *ChromemStore) Load(ctx context.Context, dir string) error {
	path := filepath.Join(dir, exportFile)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	var m manifest
	if data, err := os.ReadFile(filepath.Join(dir, manifestFile)); err == nil {
		_ = json.Unmarshal(data, &m)
	}
	if m.Embedder != s.embedder {
		return fmt.Errorf("%w: %q, now %q", ErrEmbedderChanged, m.Embedder, s.embedder)
	}

	if err := s.db.ImportFromFile(path, ""); err != nil {
		return errors.Join(fmt.Errorf("import from file: %w", err), s.reset())
	}
	col := s.db.GetCollection(collectionName, s.embedFunc)
	if col == nil {
		return errors.Join(fmt.Errorf("collection %q not found after import", collectionName), s.reset())
	}
	s.collection = col
	return nil
}

func (s *ChromemStore) Count() int {
	return s.collection.Count()
}

func metadataToMap(m DocumentMetadata) map[string]string {
	return map[string]string{
		"owner":        m.Owner,
		"title":        m.Title,
		"content_hash": m.ContentHash,
		"last_updated": m.LastUpdated.Format(time.RFC3339),
	}
}

func mapToMetadata(m map[string]string) DocumentMetadata {
	lastUpdated, _ := time.Parse(time.RFC3339, m["last_updated"])
	return DocumentMetadata{
		Owner:       m["owner"],
		Title:       m["title"],
		ContentHash: m["content_hash"],
		LastUpdated: lastUpdated,
	}
}

func buildWhereClause(filter *SearchFilter) map[string]string {
	if filter == nil || filter.Owner == nil {
		return nil
	}
	return map[string]string{"owner": *filter.Owner}
}
