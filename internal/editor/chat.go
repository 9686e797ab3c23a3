package editor

import (
	"html"
	"slices"

	"github.com/ziadkadry99/clil-studio/internal/lesson"
)

const (
	WelcomeMessage   = "Hello! I'm your CLIL teaching assistant. How can I help you today?"
	ChatErrorMessage = "Sorry, I encountered an error. Please try again."
)

// ChatBubble is a rendered chat message.
type ChatBubble struct {
	Role lesson.Role `json:"role"`
	HTML string      `json:"html"`
}

// ChatLog is the append-only conversation with the assistant.
type ChatLog struct {
	messages []lesson.ChatMessage
}

func (c *ChatLog) Append(role lesson.Role, content string) {
	c.messages = append(c.messages, lesson.ChatMessage{Role: role, Content: content})
}

// popLast drops the newest message. It is used to withdraw a user message
// whose request failed.
func (c *ChatLog) popLast() {
	if len(c.messages) > 0 {
		c.messages = c.messages[:len(c.messages)-1]
	}
}

// LastAssistant returns the newest assistant message.
func (c *ChatLog) LastAssistant() (string, bool) {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role == lesson.RoleAssistant {
			return c.messages[i].Content, true
		}
	}
	return "", false
}

func (c *ChatLog) Messages() []lesson.ChatMessage {
	return slices.Clone(c.messages)
}

func (c *ChatLog) replace(msgs []lesson.ChatMessage) {
	c.messages = slices.Clone(msgs)
}

// Bubbles renders the conversation. Assistant replies are markdown; user
// messages are shown as typed.
func (c *ChatLog) Bubbles() []ChatBubble {
	out := make([]ChatBubble, len(c.messages))
	for i, m := range c.messages {
		b := ChatBubble{Role: m.Role}
		if m.Role == lesson.RoleUser {
			b.HTML = html.EscapeString(m.Content)
		} else {
			b.HTML = Markdown(m.Content)
		}
		out[i] = b
	}
	return out
}
