// Package api defines the JSON bodies exchanged between the editor client
// and the generation and library routes.
package api

import "github.com/ziadkadry99/clil-studio/internal/lesson"

// SectionAll is the section value of a full activity generation.
const SectionAll = "all"

type GenerateRequest struct {
	Prompt          string            `json:"prompt"`
	Section         string            `json:"section,omitempty"`
	Modifiers       []string          `json:"modifiers,omitempty"`
	CustomThemeText string            `json:"custom_theme_text,omitempty"`
	Customization   string            `json:"customization,omitempty"`
	CurrentActivity map[string]string `json:"current_activity,omitempty"`
}

// GenerateResponse carries the generated activity. Data is the model output
// verbatim: a JSON object serialized as a string, or free text for section
// customizations.
type GenerateResponse struct {
	Success bool   `json:"success"`
	Section string `json:"section,omitempty"`
	Data    string `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

type HelperRequest struct {
	Prompt string `json:"prompt"`
}

type HelperResponse struct {
	Success    bool   `json:"success"`
	HelperData string `json:"helper_data,omitempty"`
	Error      string `json:"error,omitempty"`
}

// HelperContext summarizes the helper card an insight is requested from.
type HelperContext struct {
	Title    string `json:"title"`
	Overview struct {
		Description string   `json:"description"`
		Concepts    []string `json:"concepts"`
	} `json:"overview"`
	Aspects []HelperAspect `json:"aspects"`
}

type HelperAspect struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type InsightRequest struct {
	Concept       string         `json:"concept"`
	HelperContext *HelperContext `json:"helper_context,omitempty"`
}

type InsightResponse struct {
	Success     bool   `json:"success"`
	InsightData string `json:"insight_data,omitempty"`
	Error       string `json:"error,omitempty"`
}

// TagContext describes the helper card a tag was clicked on.
type TagContext struct {
	TopicOverview string   `json:"topicOverview"`
	KeyConcepts   []string `json:"keyConcepts"`
	ExistingTags  []string `json:"existingTags"`
	Content       string   `json:"content"`
}

type RelatedTagsRequest struct {
	Tag     string     `json:"tag"`
	Context TagContext `json:"context"`
}

// RelatedTagsResponse carries the model output verbatim in Tags, a JSON
// object of the form {"related_tags": [...]}.
type RelatedTagsResponse struct {
	Success bool   `json:"success"`
	Tags    string `json:"tags,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RelatedTags is the decoded form of RelatedTagsResponse.Tags.
type RelatedTags struct {
	RelatedTags []string `json:"related_tags"`
}

type InlineRequest struct {
	Content          string `json:"content"`
	Command          string `json:"command"`
	Position         int    `json:"position"`
	TextBeforeCursor string `json:"text_before_cursor"`
}

// InlineErrorPrefix starts the last chunk of an inline stream that failed
// after the response headers were sent.
const InlineErrorPrefix = "Error: "

type ClassContext struct {
	StudentsCount  string `json:"students_count,omitempty"`
	GradeLevel     string `json:"grade_level,omitempty"`
	LanguageSkills string `json:"language_skills,omitempty"`
}

type TeachingParameters struct {
	VocabDensity           string `json:"vocab_density,omitempty"`
	GrammarComplexity      string `json:"grammar_complexity,omitempty"`
	ContentLanguageBalance string `json:"content_language_balance,omitempty"`
}

// ChatContext is the class setup the chat assistant tailors its questions to.
type ChatContext struct {
	ClassContext       ClassContext       `json:"class_context"`
	TeachingParameters TeachingParameters `json:"teaching_parameters"`
	ActivityTypes      []string           `json:"activity_types,omitempty"`
}

type ChatRequest struct {
	Message string               `json:"message"`
	Context ChatContext          `json:"context"`
	History []lesson.ChatMessage `json:"history"`
}

type ChatResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Frame types of the websocket chat.
const (
	FrameChunk = "chunk"
	FrameDone  = "done"
	FrameError = "error"
)

// ChatFrame is one websocket message. Clients send Message/History frames;
// the server answers with Type/Content frames.
type ChatFrame struct {
	Type    string               `json:"type,omitempty"`
	Content string               `json:"content,omitempty"`
	Message string               `json:"message,omitempty"`
	Context *ChatContext         `json:"context,omitempty"`
	History []lesson.ChatMessage `json:"history,omitempty"`
}

type SaveResponse struct {
	Success  bool   `json:"success"`
	LessonID string `json:"lessonId,omitempty"`
	Error    string `json:"error,omitempty"`
}

type LoadResponse struct {
	Success bool             `json:"success"`
	Lesson  *lesson.Document `json:"lesson,omitempty"`
	Error   string           `json:"error,omitempty"`
}

type ListResponse struct {
	Success bool             `json:"success"`
	Lessons []lesson.Summary `json:"lessons"`
	Error   string           `json:"error,omitempty"`
}

type SearchResult struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Snippet    string  `json:"snippet"`
	Similarity float32 `json:"similarity"`
}

type SearchResponse struct {
	Success bool           `json:"success"`
	Results []SearchResult `json:"results"`
	Error   string         `json:"error,omitempty"`
}

// ErrorResponse is the failure envelope shared by every JSON route.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
