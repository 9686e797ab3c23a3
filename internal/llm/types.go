package llm

// Role is the author of a chat message sent to a model.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// System and User build the two messages most lesson prompts consist of.
func System(content string) Message { return Message{Role: RoleSystem, Content: content} }
func User(content string) Message   { return Message{Role: RoleUser, Content: content} }

// CompletionRequest is one model call. JSONMode asks the provider for a
// single JSON object; activity and helper generation rely on it.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	JSONMode    bool
}

type CompletionResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
}

// Truncated reports whether the model stopped at its output limit. A
// truncated JSON activity will not parse.
func (r *CompletionResponse) Truncated() bool {
	return r.FinishReason == "length"
}
