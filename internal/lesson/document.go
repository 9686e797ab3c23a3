package lesson

import (
	"encoding/json"
	"time"
)

const (
	DefaultTitle        = "Untitled Lesson"
	DefaultSystemPrompt = "You are a helpful assistant for lesson planning."
	DefaultTemperature  = 0.7
)

// CardKind names the kind of a side card.
type CardKind string

const (
	CardHelper     CardKind = "helper"
	CardInsight    CardKind = "insight"
	CardPillarCopy CardKind = "pillar_copy"
)

// Role is the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Pillar is the persisted state of one section.
type Pillar struct {
	Versions     []string `json:"versions"`
	CurrentIndex int      `json:"currentIndex"`
}

// SideCard is a persisted auxiliary card. Recipe holds the structured data
// needed to rebuild its rendering.
type SideCard struct {
	Type   CardKind        `json:"type"`
	ID     string          `json:"id,omitempty"`
	Recipe json.RawMessage `json:"recipe,omitempty"`
}

// ChatMessage is one entry of the assistant conversation.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Document is the persisted lesson aggregate.
type Document struct {
	LessonID    string             `json:"lessonId,omitempty"`
	Title       string             `json:"title"`
	Pillars     map[Section]Pillar `json:"pillars"`
	SideCards   []SideCard         `json:"sideCards"`
	ChatHistory []ChatMessage      `json:"chatHistory"`
	ChatContext map[string]any     `json:"chatContext,omitempty"`
}

// Summary is the listing view of a saved lesson.
type Summary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	LastModified time.Time `json:"lastModified"`
}

// DefaultChatContext returns the chat configuration used when none is set.
func DefaultChatContext() map[string]any {
	return map[string]any{
		"systemPrompt": DefaultSystemPrompt,
		"temperature":  DefaultTemperature,
	}
}

// Normalize fills defaults and makes every pillar present so callers can
// index Pillars without nil checks.
func (d *Document) Normalize() {
	if d.Title == "" {
		d.Title = DefaultTitle
	}
	if d.Pillars == nil {
		d.Pillars = make(map[Section]Pillar, len(Sections))
	}
	for _, s := range Sections {
		p := d.Pillars[s]
		if p.Versions == nil {
			p.Versions = []string{}
		}
		d.Pillars[s] = p
	}
	if d.SideCards == nil {
		d.SideCards = []SideCard{}
	}
	if d.ChatHistory == nil {
		d.ChatHistory = []ChatMessage{}
	}
	if d.ChatContext == nil {
		d.ChatContext = DefaultChatContext()
	}
}

// PlainText flattens the document into a single string for indexing.
func (d *Document) PlainText() string {
	var out []byte
	out = append(out, d.Title...)
	for _, s := range Sections {
		p, ok := d.Pillars[s]
		if !ok || len(p.Versions) == 0 {
			continue
		}
		idx := p.CurrentIndex
		if idx < 0 || idx >= len(p.Versions) {
			idx = len(p.Versions) - 1
		}
		out = append(out, "\n\n"...)
		out = append(out, s.Title()...)
		out = append(out, '\n')
		out = append(out, p.Versions[idx]...)
	}
	return string(out)
}
