package prompts

import (
	"strings"
	"testing"

	"github.com/ziadkadry99/clil-studio/internal/api"
	"github.com/ziadkadry99/clil-studio/internal/llm"
)

func TestActivityAppendsModifiers(t *testing.T) {
	msgs := Activity("photosynthesis", []string{"space", "jigsaw_learning", "unknown"}, "pirates")
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	system := msgs[0].Content
	if !strings.HasPrefix(system, CLILBase) {
		t.Error("system prompt should start with the base prompt")
	}
	for _, want := range []string{"\n\nAdditional requirements:\n", "Make the activity space-themed", "Jigsaw Learning:", "Custom theme: pirates"} {
		if !strings.Contains(system, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
	if msgs[1].Content != "Create a CLIL activity for: photosynthesis. Respond with a JSON object following the exact structure provided." {
		t.Errorf("unexpected user message: %q", msgs[1].Content)
	}
}

func TestActivityWithoutModifiers(t *testing.T) {
	msgs := Activity("x", []string{"unknown"}, " ")
	if msgs[0].Content != CLILBase {
		t.Error("unknown modifiers should leave the base prompt unchanged")
	}
}

func TestSectionCustomization(t *testing.T) {
	current := map[string]string{"content_objectives": "<p>old</p>"}
	msgs, err := SectionCustomization("2", current, "simplify", []string{"food"})
	if err != nil {
		t.Fatal(err)
	}
	system := msgs[0].Content
	if !strings.Contains(system, "modify the Language Objectives section") {
		t.Error("expected the language section prompt")
	}
	if !strings.Contains(system, "Customization request: simplify") {
		t.Error("customization missing from system prompt")
	}
	if !strings.Contains(system, "\"content_objectives\": \"\\u003cp\\u003eold\\u003c/p\\u003e\"") {
		t.Errorf("snapshot not embedded: %s", system)
	}
	if !strings.Contains(system, "Additional theme requirements:") {
		t.Error("theme heading missing")
	}
	if msgs[1].Role != llm.RoleUser || msgs[1].Content != "simplify" {
		t.Errorf("unexpected user message: %+v", msgs[1])
	}

	if _, err := SectionCustomization("9", current, "x", nil); err == nil {
		t.Error("expected error for unknown section")
	}
}

func TestInsightContext(t *testing.T) {
	msgs, err := Insight("Scaffolding", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(msgs[0].Content, "No context provided") {
		t.Error("nil context should be described")
	}
	if !strings.Contains(msgs[0].Content, `"title": "Brief title for Scaffolding"`) {
		t.Error("concept not substituted in the structure")
	}

	hc := &api.HelperContext{Title: "Topic Overview"}
	hc.Overview.Description = "Volcanoes"
	msgs, err = Insight("Magma", hc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(msgs[0].Content, `"description": "Volcanoes"`) {
		t.Error("helper context not embedded")
	}
	if msgs[1].Content != "Explain this CLIL teaching concept: Magma" {
		t.Errorf("unexpected user message: %q", msgs[1].Content)
	}
}

func TestInlineFallsBackToContent(t *testing.T) {
	msgs := Inline(api.InlineRequest{Content: "full text", Command: "add a list"})
	want := "Text we are working on:\nfull text\n\n user request: add a list\n\nGenerate appropriate text that continues naturally from the above context."
	if msgs[1].Content != want {
		t.Errorf("got %q", msgs[1].Content)
	}
}

func TestRelatedTags(t *testing.T) {
	msgs := RelatedTags("Erosion", api.TagContext{KeyConcepts: []string{"Rock", "Water"}, ExistingTags: []string{"Wind"}})
	if !strings.Contains(msgs[1].Content, "Generate 3 related tags for: Erosion\nContext:\n") {
		t.Errorf("unexpected user message: %q", msgs[1].Content)
	}
	if !strings.Contains(msgs[1].Content, "Key Concepts: Rock, Water") {
		t.Error("key concepts missing")
	}
}

func TestChat(t *testing.T) {
	history := []llm.Message{{Role: llm.RoleAssistant, Content: "Hello!"}}
	cc := api.ChatContext{
		ClassContext:       api.ClassContext{StudentsCount: "24"},
		TeachingParameters: api.TeachingParameters{VocabDensity: "30"},
		ActivityTypes:      []string{"role_play", "music", "nope"},
	}
	msgs := Chat("We have 45 minutes", cc, history)
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	system := msgs[0].Content
	for _, want := range []string{
		"- Number of students: 24",
		"- Grade/Age level: Not specified",
		"- Technical Vocabulary Density: 30%",
		"- Grammar Complexity Level: Not specified/5",
		"- Role Play:\n  Learning through acting out scenarios",
		"- music:\n  Integrate music",
	} {
		if !strings.Contains(system, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
	if msgs[1].Content != "Hello!" || msgs[2].Content != "We have 45 minutes" {
		t.Error("history must come before the new message")
	}

	plain := Chat("hi", api.ChatContext{}, nil)
	if !strings.Contains(plain[0].Content, "No specific activity types selected") {
		t.Error("expected the no activity types text")
	}
}

func TestActivityTypes(t *testing.T) {
	types := ActivityTypes()
	if len(types) != len(themes)+len(learningStyles) {
		t.Fatalf("got %d types", len(types))
	}
	if !types[0].Theme || types[0].Key != "food" {
		t.Errorf("themes should come first sorted, got %+v", types[0])
	}
	if !KnownModifier("case_study") || KnownModifier("nope") {
		t.Error("KnownModifier mismatch")
	}
}
