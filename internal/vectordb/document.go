package vectordb

import "time"

// Document is one indexed lesson.
type Document struct {
	ID       string
	Content  string
	Metadata DocumentMetadata
}

// DocumentMetadata holds the fields a lesson can be filtered and listed by.
type DocumentMetadata struct {
	Owner       string
	Title       string
	ContentHash string
	LastUpdated time.Time
}

// SearchResult pairs a document with its similarity score.
type SearchResult struct {
	Document   Document
	Similarity float32
}

// SearchFilter narrows search results by metadata fields.
type SearchFilter struct {
	Owner *string
}
