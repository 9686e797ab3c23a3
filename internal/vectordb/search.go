package vectordb

import (
	"fmt"
	"strings"
)

// snippetLength bounds the excerpt shown for each result.
const snippetLength = 200

// Snippet returns the start of content, cut on a word boundary.
func Snippet(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	if len(content) <= snippetLength {
		return content
	}
	cut := strings.LastIndexByte(content[:snippetLength], ' ')
	if cut <= 0 {
		cut = snippetLength
	}
	return content[:cut] + "..."
}

// FormatResults renders search results as human-readable text.
func FormatResults(results []SearchResult) string {
	if len(results) == 0 {
		return "No results found."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d lesson(s):\n\n", len(results)))

	for i, r := range results {
		title := r.Document.Metadata.Title
		if title == "" {
			title = r.Document.ID
		}
		sb.WriteString(fmt.Sprintf("%d. %s (similarity: %.4f)\n", i+1, title, r.Similarity))
		sb.WriteString(fmt.Sprintf("   id: %s\n", r.Document.ID))
		if !r.Document.Metadata.LastUpdated.IsZero() {
			sb.WriteString(fmt.Sprintf("   updated: %s\n", r.Document.Metadata.LastUpdated.Format("2006-01-02 15:04")))
		}
		sb.WriteString("   " + Snippet(r.Document.Content) + "\n\n")
	}

	return sb.String()
}
