// Package prompts builds the LLM conversations behind every generation
// route.
package prompts

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ziadkadry99/clil-studio/internal/api"
	"github.com/ziadkadry99/clil-studio/internal/llm"
)

// LearningStyle is a named classroom structure that can shape an activity.
type LearningStyle struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ActivityType describes one modifier for listings.
type ActivityType struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Theme bool   `json:"theme"`
}

// ActivityTypes lists every known modifier, themes first, sorted by key.
func ActivityTypes() []ActivityType {
	var out []ActivityType
	for _, k := range sortedKeys(themes) {
		out = append(out, ActivityType{Key: k, Name: k, Theme: true})
	}
	for _, k := range sortedKeys(learningStyles) {
		out = append(out, ActivityType{Key: k, Name: learningStyles[k].Name})
	}
	return out
}

// KnownModifier reports whether key names a theme or a learning style.
func KnownModifier(key string) bool {
	_, theme := themes[key]
	_, style := learningStyles[key]
	return theme || style
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func modifierText(key string) (string, bool) {
	if t, ok := themes[key]; ok {
		return t, true
	}
	if s, ok := learningStyles[key]; ok {
		return s.Name + ":\n" + s.Description, true
	}
	return "", false
}

// appendModifiers adds the text of every known modifier under heading.
// Unknown keys are skipped.
func appendModifiers(system, heading string, modifiers []string, customTheme string) string {
	var sb strings.Builder
	for _, m := range modifiers {
		if text, ok := modifierText(m); ok {
			sb.WriteString("\n" + text + "\n")
		}
	}
	if customTheme = strings.TrimSpace(customTheme); customTheme != "" {
		sb.WriteString("\nCustom theme: " + customTheme + "\n")
	}
	if sb.Len() == 0 {
		return system
	}
	return system + "\n\n" + heading + "\n" + sb.String()
}

// Activity builds the full activity generation conversation.
func Activity(prompt string, modifiers []string, customTheme string) []llm.Message {
	return []llm.Message{
		llm.System(appendModifiers(CLILBase, "Additional requirements:", modifiers, customTheme)),
		llm.User(fmt.Sprintf("Create a CLIL activity for: %s. Respond with a JSON object following the exact structure provided.", prompt)),
	}
}

// SectionRegeneration asks for a fresh activity of which only one section
// will be kept.
func SectionRegeneration(prompt, payloadKey string, modifiers []string) []llm.Message {
	msgs := Activity(prompt, modifiers, "")
	msgs[1].Content += fmt.Sprintf(" Put the most care into the %q field.", payloadKey)
	return msgs
}

// SectionCustomization builds the conversation that rewrites one section
// ("1".."5") following a free text request.
func SectionCustomization(section string, current map[string]string, customization string, modifiers []string) ([]llm.Message, error) {
	tmpl, ok := sectionTemplates[section]
	if !ok {
		return nil, fmt.Errorf("no customization prompt for section %q", section)
	}
	snapshot, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding current activity: %w", err)
	}
	system := appendModifiers(fmt.Sprintf(tmpl, snapshot, customization), "Additional theme requirements:", modifiers, "")
	return []llm.Message{
		llm.System(system),
		llm.User(customization),
	}, nil
}

func Helper(prompt string) []llm.Message {
	return []llm.Message{
		llm.System(helperSystem),
		llm.User(fmt.Sprintf("Create a helper guide for teaching about: %s. Respond with a JSON object following the exact structure provided.", prompt)),
	}
}

// Insight explains concept in the light of the helper card it was picked
// from. A nil context is sent as "No context provided".
func Insight(concept string, hc *api.HelperContext) ([]llm.Message, error) {
	helperContext := "No context provided"
	if hc != nil {
		data, err := json.MarshalIndent(hc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding helper context: %w", err)
		}
		helperContext = string(data)
	}
	return []llm.Message{
		llm.System(fmt.Sprintf(insightTemplate, helperContext, concept)),
		llm.User("Explain this CLIL teaching concept: " + concept),
	}, nil
}

func RelatedTags(tag string, tc api.TagContext) []llm.Message {
	ctxText := fmt.Sprintf("\nTopic Overview: %s\nKey Concepts: %s\nExisting Tags: %s\nCurrent Content: %s\n    ",
		tc.TopicOverview,
		strings.Join(tc.KeyConcepts, ", "),
		strings.Join(tc.ExistingTags, ", "),
		tc.Content)
	return []llm.Message{
		llm.System(relatedTagsSystem),
		llm.User(fmt.Sprintf("Generate 3 related tags for: %s\nContext:\n%s", tag, ctxText)),
	}
}

// Inline continues the text before the cursor. The full content is used
// when no text before the cursor was sent.
func Inline(req api.InlineRequest) []llm.Message {
	text := req.TextBeforeCursor
	if text == "" {
		text = req.Content
	}
	user := fmt.Sprintf("Text we are working on:\n%s\n\n user request: %s\n\nGenerate appropriate text that continues naturally from the above context.", text, req.Command)
	return []llm.Message{
		llm.System(inlineSystem),
		llm.User(user),
	}
}

func orUnset(v string) string {
	if strings.TrimSpace(v) == "" {
		return "Not specified"
	}
	return v
}

// Chat builds the assistant conversation: the system prompt tailored to the
// class, then the history, then the new message.
func Chat(message string, cc api.ChatContext, history []llm.Message) []llm.Message {
	classContext := fmt.Sprintf(`
Current class information:
- Number of students: %s
- Grade/Age level: %s
- Language skills: %s

Teaching Parameters:
- Technical Vocabulary Density: %s%%
- Grammar Complexity Level: %s/5
- Content vs Language Balance: %s%% Content focus
`,
		orUnset(cc.ClassContext.StudentsCount),
		orUnset(cc.ClassContext.GradeLevel),
		orUnset(cc.ClassContext.LanguageSkills),
		orUnset(cc.TeachingParameters.VocabDensity),
		orUnset(cc.TeachingParameters.GrammarComplexity),
		orUnset(cc.TeachingParameters.ContentLanguageBalance))

	activityTypes := "No specific activity types selected"
	var described []string
	for _, key := range cc.ActivityTypes {
		if s, ok := learningStyles[key]; ok {
			described = append(described, fmt.Sprintf("- %s:\n  %s", s.Name, s.Description))
		} else if t, ok := themes[key]; ok {
			described = append(described, fmt.Sprintf("- %s:\n  %s", key, t))
		}
	}
	if len(described) > 0 {
		activityTypes = strings.Join(described, "\n")
	}

	msgs := make([]llm.Message, 0, len(history)+2)
	msgs = append(msgs, llm.System(fmt.Sprintf(chatTemplate, classContext, activityTypes)))
	msgs = append(msgs, history...)
	msgs = append(msgs, llm.User(message))
	return msgs
}
