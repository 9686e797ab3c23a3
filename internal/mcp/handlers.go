package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/clil-studio/internal/api"
	"github.com/ziadkadry99/clil-studio/internal/audit"
	"github.com/ziadkadry99/clil-studio/internal/editor"
	"github.com/ziadkadry99/clil-studio/internal/lesson"
	"github.com/ziadkadry99/clil-studio/internal/library"
)

func (s *Server) handleListLessons(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lessons, err := s.lessons.List(ctx, s.owner)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing lessons failed: %v", err)), nil
	}
	if len(lessons) == 0 {
		return mcp.NewToolResultText("No saved lessons yet. Run `clilstudio generate --save` to create one."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d lesson(s):\n", len(lessons)))
	for _, l := range lessons {
		sb.WriteString(fmt.Sprintf("- %s (id: %s, modified %s)\n", l.Title, l.ID, l.LastModified.Format("2006-01-02 15:04")))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleGetLesson(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("lesson_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: lesson_id"), nil
	}

	doc, err := s.lessons.Get(ctx, s.owner, id)
	if errors.Is(err, library.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("No lesson with id %q. Use list_lessons to see saved lessons.", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading lesson failed: %v", err)), nil
	}

	switch request.GetString("format", "text") {
	case "json":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encoding lesson failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	case "html":
		var buf bytes.Buffer
		if err := editor.RenderDocument(&buf, doc); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("rendering lesson failed: %v", err)), nil
		}
		return mcp.NewToolResultText(buf.String()), nil
	default:
		return mcp.NewToolResultText(formatLesson(doc)), nil
	}
}

func (s *Server) handleSearchLessons(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", library.DefaultSearchLimit)
	if limit <= 0 {
		limit = library.DefaultSearchLimit
	}

	results, err := s.lessons.Search(ctx, s.owner, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("No matching lessons found."), nil
	}

	return mcp.NewToolResultText(formatSearchResults(results)), nil
}

func (s *Server) handleLessonHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("lesson_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: lesson_id"), nil
	}

	entries, err := s.lessons.History(ctx, s.owner, id, request.GetInt("limit", 20))
	switch {
	case errors.Is(err, library.ErrNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("No history for lesson %q.", id)), nil
	case errors.Is(err, library.ErrNoHistory):
		return mcp.NewToolResultText("Lesson history is not recorded by this library."), nil
	case err != nil:
		return mcp.NewToolResultError(fmt.Sprintf("loading history failed: %v", err)), nil
	}
	return mcp.NewToolResultText(formatHistory(entries)), nil
}

func (s *Server) handleGenerateActivity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, err := request.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: prompt"), nil
	}

	data, err := s.generator.Generate(ctx, api.GenerateRequest{
		Prompt:          prompt,
		Modifiers:       request.GetStringSlice("modifiers", nil),
		CustomThemeText: request.GetString("custom_theme", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("generation failed: %v", err)), nil
	}
	return mcp.NewToolResultText(data), nil
}

// formatLesson renders the current version of every section as text for
// agent consumption.
func formatLesson(doc *lesson.Document) string {
	var sb strings.Builder
	sb.WriteString("# " + doc.Title + "\n")
	for _, sec := range lesson.Sections {
		p := doc.Pillars[sec]
		sb.WriteString("\n## " + sec.Title() + "\n")
		if len(p.Versions) == 0 {
			sb.WriteString("(empty)\n")
			continue
		}
		idx := p.CurrentIndex
		if idx < 0 || idx >= len(p.Versions) {
			idx = len(p.Versions) - 1
		}
		if len(p.Versions) > 1 {
			sb.WriteString(fmt.Sprintf("(version %d of %d)\n", idx+1, len(p.Versions)))
		}
		sb.WriteString(p.Versions[idx] + "\n")
	}
	return sb.String()
}

func formatHistory(entries []audit.Entry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("- %s %s", e.Timestamp.Format("2006-01-02 15:04"), e.Action))
		if len(e.Sections) > 0 {
			sb.WriteString(": " + strings.Join(e.Sections, ", "))
		}
		if e.Summary != "" {
			sb.WriteString(" (" + e.Summary + ")")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatSearchResults(results []api.SearchResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d lesson(s):\n", len(results)))

	for i, r := range results {
		sb.WriteString(fmt.Sprintf("\n--- Result %d ---\n", i+1))
		sb.WriteString(fmt.Sprintf("Title: %s\n", r.Title))
		sb.WriteString(fmt.Sprintf("Lesson ID: %s\n", r.ID))
		sb.WriteString(fmt.Sprintf("Similarity: %.1f%%\n", r.Similarity*100))
		if r.Snippet != "" {
			sb.WriteString("\n" + r.Snippet + "\n")
		}
	}

	return sb.String()
}
