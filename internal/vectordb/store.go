package vectordb

import "context"

// VectorStore stores lesson documents and searches them by embedding.
type VectorStore interface {
	// AddDocuments adds documents, replacing any with the same ID.
	AddDocuments(ctx context.Context, docs []Document) error

	// Search performs a semantic search using the query text.
	Search(ctx context.Context, query string, limit int, filter *SearchFilter) ([]SearchResult, error)

	// Delete removes the document with the given ID.
	Delete(ctx context.Context, id string) error

	// Persist saves the store's data to the given directory.
	Persist(ctx context.Context, dir string) error

	// Load restores the store's data from the given directory.
	Load(ctx context.Context, dir string) error

	Count() int
}
