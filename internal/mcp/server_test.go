package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/clil-studio/internal/api"
	"github.com/ziadkadry99/clil-studio/internal/audit"
	"github.com/ziadkadry99/clil-studio/internal/lesson"
	"github.com/ziadkadry99/clil-studio/internal/library"
)

// mockLibrary implements Library for testing.
type mockLibrary struct {
	docs  map[string]*lesson.Document
	owner string
}

func (m *mockLibrary) List(_ context.Context, owner string) ([]lesson.Summary, error) {
	m.owner = owner
	var out []lesson.Summary
	for id, d := range m.docs {
		out = append(out, lesson.Summary{ID: id, Title: d.Title, LastModified: time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC)})
	}
	return out, nil
}

func (m *mockLibrary) Get(_ context.Context, owner, id string) (*lesson.Document, error) {
	m.owner = owner
	d, ok := m.docs[id]
	if !ok {
		return nil, library.ErrNotFound
	}
	return d, nil
}

func (m *mockLibrary) Search(_ context.Context, owner, query string, limit int) ([]api.SearchResult, error) {
	var out []api.SearchResult
	for id, d := range m.docs {
		if strings.Contains(strings.ToLower(d.PlainText()), strings.ToLower(query)) {
			out = append(out, api.SearchResult{ID: id, Title: d.Title, Snippet: "excerpt", Similarity: 0.9})
		}
	}
	return out, nil
}

func (m *mockLibrary) History(_ context.Context, owner, id string, limit int) ([]audit.Entry, error) {
	if _, ok := m.docs[id]; !ok {
		return nil, library.ErrNotFound
	}
	return []audit.Entry{
		{Timestamp: time.Date(2025, 1, 3, 10, 0, 0, 0, time.UTC), Owner: owner, LessonID: id, Action: audit.ActionUpdated, Sections: []string{"content"}, Summary: `renamed from "Streams"`},
		{Timestamp: time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC), Owner: owner, LessonID: id, Action: audit.ActionCreated},
	}, nil
}

type mockGenerator struct {
	req api.GenerateRequest
	err error
}

func (g *mockGenerator) Generate(_ context.Context, req api.GenerateRequest) (string, error) {
	g.req = req
	if g.err != nil {
		return "", g.err
	}
	return `{"title":"Volcanoes"}`, nil
}

func newLibrary() *mockLibrary {
	doc := &lesson.Document{Title: "Rivers"}
	doc.Normalize()
	doc.Pillars[lesson.SectionContent] = lesson.Pillar{Versions: []string{"<p>v1</p>", "<p>Deltas</p>"}, CurrentIndex: 1}
	return &mockLibrary{docs: map[string]*lesson.Document{"l1": doc}}
}

func call(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", result.Content[0])
	}
	return tc.Text
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		tool     mcp.Tool
		wantName string
	}{
		{listLessonsTool, "list_lessons"},
		{getLessonTool, "get_lesson"},
		{searchLessonsTool, "search_lessons"},
		{lessonHistoryTool, "lesson_history"},
		{generateActivityTool, "generate_activity"},
	}

	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}

	keys := modifierKeys()
	if len(keys) == 0 || keys[0] != "food" {
		t.Errorf("unexpected modifier keys %v", keys)
	}
}

func TestNewServer(t *testing.T) {
	lib := newLibrary()
	srv := NewServer(lib, nil, "local")
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.owner != "local" {
		t.Errorf("owner = %q, want local", srv.owner)
	}
}

func TestHandleListLessons(t *testing.T) {
	lib := newLibrary()
	srv := NewServer(lib, nil, "teacher")

	result, err := srv.handleListLessons(context.Background(), call(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := text(t, result)
	if !strings.Contains(out, "Rivers (id: l1, modified 2025-01-02 03:04)") {
		t.Errorf("unexpected listing: %s", out)
	}
	if lib.owner != "teacher" {
		t.Errorf("listing should be scoped to the owner, got %q", lib.owner)
	}

	empty := NewServer(&mockLibrary{}, nil, "teacher")
	result, _ = empty.handleListLessons(context.Background(), call(nil))
	if result.IsError || !strings.Contains(text(t, result), "No saved lessons") {
		t.Error("empty library should not be an error")
	}
}

func TestHandleGetLesson(t *testing.T) {
	srv := NewServer(newLibrary(), nil, "local")
	ctx := context.Background()

	tests := []struct {
		name    string
		args    map[string]any
		isError bool
		want    string
	}{
		{"text", map[string]any{"lesson_id": "l1"}, false, "(version 2 of 2)\n<p>Deltas</p>"},
		{"json", map[string]any{"lesson_id": "l1", "format": "json"}, false, `"currentIndex": 1`},
		{"html", map[string]any{"lesson_id": "l1", "format": "html"}, false, "<title>Rivers</title>"},
		{"missing id", map[string]any{}, true, "lesson_id"},
		{"unknown id", map[string]any{"lesson_id": "nope"}, true, "list_lessons"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := srv.handleGetLesson(ctx, call(tt.args))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.IsError != tt.isError {
				t.Fatalf("IsError = %v, want %v", result.IsError, tt.isError)
			}
			if out := text(t, result); !strings.Contains(out, tt.want) {
				t.Errorf("expected %q in %s", tt.want, out)
			}
		})
	}
}

func TestHandleSearchLessons(t *testing.T) {
	srv := NewServer(newLibrary(), nil, "local")
	ctx := context.Background()

	result, err := srv.handleSearchLessons(ctx, call(map[string]any{"query": "deltas", "limit": 3}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := text(t, result)
	if !strings.Contains(out, "Lesson ID: l1") || !strings.Contains(out, "Similarity: 90.0%") {
		t.Errorf("unexpected search output: %s", out)
	}

	result, _ = srv.handleSearchLessons(ctx, call(map[string]any{"query": "glaciers"}))
	if result.IsError {
		t.Error("no results should not be an error")
	}

	result, _ = srv.handleSearchLessons(ctx, call(map[string]any{}))
	if !result.IsError {
		t.Error("expected error for missing query")
	}
}

func TestHandleGenerateActivity(t *testing.T) {
	gen := &mockGenerator{}
	srv := NewServer(newLibrary(), gen, "local")
	ctx := context.Background()

	result, err := srv.handleGenerateActivity(ctx, call(map[string]any{
		"prompt":       "volcanoes",
		"modifiers":    []any{"space", "music"},
		"custom_theme": "pirates",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError || !strings.Contains(text(t, result), "Volcanoes") {
		t.Fatalf("unexpected result %+v", result)
	}
	if gen.req.Prompt != "volcanoes" || len(gen.req.Modifiers) != 2 || gen.req.CustomThemeText != "pirates" {
		t.Errorf("unexpected request %+v", gen.req)
	}

	gen.err = errors.New("provider down")
	result, _ = srv.handleGenerateActivity(ctx, call(map[string]any{"prompt": "x"}))
	if !result.IsError {
		t.Error("expected tool error when generation fails")
	}
}

func TestHandleLessonHistory(t *testing.T) {
	srv := NewServer(newLibrary(), nil, "local")
	ctx := context.Background()

	result, err := srv.handleLessonHistory(ctx, call(map[string]any{"lesson_id": "l1"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := text(t, result)
	if !strings.Contains(out, `- 2025-01-03 10:00 updated: content (renamed from "Streams")`) {
		t.Errorf("unexpected history: %s", out)
	}
	if !strings.Contains(out, "- 2025-01-02 03:04 created\n") {
		t.Errorf("missing creation entry: %s", out)
	}

	result, _ = srv.handleLessonHistory(ctx, call(map[string]any{"lesson_id": "nope"}))
	if !result.IsError {
		t.Error("expected error for unknown lesson")
	}

	result, _ = srv.handleLessonHistory(ctx, call(map[string]any{}))
	if !result.IsError {
		t.Error("expected error for missing lesson_id")
	}
}
