package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/clil-studio/internal/prompts"
)

var listLessonsTool = mcp.NewTool("list_lessons",
	mcp.WithDescription("List saved CLIL lessons, most recently modified first."),
)

var getLessonTool = mcp.NewTool("get_lesson",
	mcp.WithDescription("Get a saved lesson: its five sections (content objectives, language objectives, learning tasks, assessment criteria, materials)."),
	mcp.WithString("lesson_id",
		mcp.Required(),
		mcp.Description("Identifier returned by list_lessons or search_lessons"),
	),
	mcp.WithString("format",
		mcp.Description("Output format (default text)"),
		mcp.Enum("text", "json", "html"),
	),
)

var searchLessonsTool = mcp.NewTool("search_lessons",
	mcp.WithDescription("Search saved lessons by topic. Returns matching lessons with a short excerpt."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 10)"),
	),
)

var lessonHistoryTool = mcp.NewTool("lesson_history",
	mcp.WithDescription("Show when a saved lesson was created, edited or deleted and which sections each edit touched."),
	mcp.WithString("lesson_id",
		mcp.Required(),
		mcp.Description("Identifier returned by list_lessons or search_lessons"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of entries to return (default 20)"),
	),
)

var generateActivityTool = mcp.NewTool("generate_activity",
	mcp.WithDescription("Generate a complete CLIL activity for a topic. Returns the activity as JSON with all five sections."),
	mcp.WithString("prompt",
		mcp.Required(),
		mcp.Description("Topic or teaching goal of the activity"),
	),
	mcp.WithArray("modifiers",
		mcp.Description("Theme or learning style modifiers"),
		mcp.Items(map[string]any{"type": "string", "enum": modifierKeys()}),
	),
	mcp.WithString("custom_theme",
		mcp.Description("Free text theme applied on top of the modifiers"),
	),
)

func modifierKeys() []string {
	types := prompts.ActivityTypes()
	keys := make([]string, len(types))
	for i, t := range types {
		keys[i] = t.Key
	}
	return keys
}
