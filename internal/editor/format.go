package editor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/ziadkadry99/clil-studio/internal/lesson"
)

// FormatSection renders the payload of one section to HTML. A payload of
// the wrong shape is rendered through the markdown fallback instead of
// failing.
func FormatSection(sec lesson.Section, raw json.RawMessage) string {
	switch sec {
	case lesson.SectionContent:
		return FormatContentObjectives(raw)
	case lesson.SectionLanguage:
		return FormatLanguageObjectives(raw)
	case lesson.SectionTasks:
		return FormatLearningTasks(raw)
	case lesson.SectionAssessment:
		return FormatAssessmentCriteria(raw)
	case lesson.SectionMaterials:
		if payloadShape(raw) == '[' {
			return FormatMaterials(raw)
		}
		return FormatTextDeepLearning(raw)
	}
	return fallback(raw)
}

// fallback renders a payload that does not match its section's template.
// Strings go through markdown; other JSON is shown as a fenced block. A
// missing or null payload renders as MissingContent.
func fallback(raw json.RawMessage) string {
	switch payloadShape(raw) {
	case 0:
		return MissingContent
	case 's':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return Markdown(s)
		}
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return Markdown(string(raw))
	}
	return Markdown("```json\n" + pretty.String() + "\n```")
}

func esc(t text) string { return html.EscapeString(string(t)) }

func FormatContentObjectives(raw json.RawMessage) string {
	var objectives []text
	if payloadShape(raw) != '[' || json.Unmarshal(raw, &objectives) != nil {
		return fallback(raw)
	}
	lines := make([]string, len(objectives))
	for i, o := range objectives {
		lines[i] = fmt.Sprintf("%d. %s", i+1, esc(o))
	}
	return strings.Join(lines, "<br>")
}

func FormatLanguageObjectives(raw json.RawMessage) string {
	var lo LanguageObjectives
	if payloadShape(raw) != '{' || json.Unmarshal(raw, &lo) != nil {
		return fallback(raw)
	}
	blocks := []struct {
		title string
		items []text
	}{
		{"Key Vocabulary", lo.KeyVocabulary},
		{"Language Structures", lo.LanguageStructures},
		{"Example Phrases", lo.ExamplePhrases},
	}
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		bullets := make([]string, len(b.items))
		for i, it := range b.items {
			bullets[i] = "• " + esc(it)
		}
		parts = append(parts, "<strong>"+b.title+":</strong><br>"+strings.Join(bullets, "<br>"))
	}
	return strings.Join(parts, "<br><br>")
}

func FormatLearningTasks(raw json.RawMessage) string {
	var tasks []LearningTask
	if payloadShape(raw) != '[' || json.Unmarshal(raw, &tasks) != nil {
		return fallback(raw)
	}
	var sb strings.Builder
	for i, t := range tasks {
		sb.WriteString(`<div class="task-card">`)
		fmt.Fprintf(&sb, `<h3>%d. %s</h3>`, i+1, esc(t.Title))
		fmt.Fprintf(&sb, `<div class="task-duration">%s</div>`, esc(t.Duration))
		fmt.Fprintf(&sb, `<div class="task-description">%s</div>`, esc(t.Description))
		sb.WriteString(`<div class="task-steps">`)
		for n, step := range []*TaskStep{t.Requirements, t.Execution, t.WrapUp} {
			if step != nil {
				writeTaskStep(&sb, n+1, step)
			}
		}
		sb.WriteString(`</div></div>`)
	}
	return sb.String()
}

func writeTaskStep(sb *strings.Builder, n int, step *TaskStep) {
	sb.WriteString(`<div class="task-step">`)
	fmt.Fprintf(sb, `<h4>Step %d: %s</h4><p>%s</p>`, n, esc(step.Name), esc(step.Description))
	if len(step.Elements) > 0 {
		sb.WriteString(`<div class="step-elements">`)
		for _, el := range step.Elements {
			fmt.Fprintf(sb, `<div class="step-element"><strong>%s:</strong>`, esc(el.Name))
			if el.Details.IsList {
				sb.WriteString("<ul>")
				for _, d := range el.Details.Items {
					fmt.Fprintf(sb, "<li>%s</li>", esc(d))
				}
				sb.WriteString("</ul>")
			} else if len(el.Details.Items) > 0 {
				fmt.Fprintf(sb, "<p>%s</p>", esc(el.Details.Items[0]))
			}
			sb.WriteString(`</div>`)
		}
		sb.WriteString(`</div>`)
	}
	sb.WriteString(`</div>`)
}

func FormatAssessmentCriteria(raw json.RawMessage) string {
	var criteria []AssessmentCriterion
	if payloadShape(raw) != '[' || json.Unmarshal(raw, &criteria) != nil {
		return fallback(raw)
	}
	entries := make([]string, len(criteria))
	for i, c := range criteria {
		entries[i] = fmt.Sprintf("<strong>%d. %s</strong><br>Method: %s<br>", i+1, esc(c.Criterion), esc(c.Method))
	}
	return strings.Join(entries, "<br>")
}

func FormatMaterials(raw json.RawMessage) string {
	var materials []Material
	if payloadShape(raw) != '[' || json.Unmarshal(raw, &materials) != nil {
		return fallback(raw)
	}
	entries := make([]string, len(materials))
	for i, m := range materials {
		entries[i] = fmt.Sprintf("<strong>%d. %s</strong><br>%s<br>Purpose: %s<br>",
			i+1, esc(m.Type), esc(m.Description), esc(m.Purpose))
	}
	return strings.Join(entries, "<br>")
}

func FormatTextDeepLearning(raw json.RawMessage) string {
	var tdl TextDeepLearning
	if payloadShape(raw) != '{' || json.Unmarshal(raw, &tdl) != nil {
		return fallback(raw)
	}
	var sb strings.Builder
	sb.WriteString(`<div class="text-deep-learning-section">`)
	if p := tdl.ParetoPrintable; p != nil {
		sb.WriteString(`<div class="learning-section"><h4>Key Information About the Subject (Pareto Principle 80/20)</h4><ul class="question-list">`)
		for i, pt := range p.Points {
			fmt.Fprintf(&sb, "<li><strong>%d. %s</strong> %s</li>", i+1, esc(pt.Point), esc(pt.Explanation))
		}
		sb.WriteString(`</ul></div>`)
	}
	if q := tdl.SocraticQuestions; q != nil {
		sb.WriteString(`<div class="learning-section"><h4>Socratic Questions</h4>`)
		fmt.Fprintf(&sb, "<p><strong>Question Types:</strong> %s</p>", joinEscaped(q.QuestionTypes, ", "))
		sb.WriteString(`<ul class="question-list">`)
		for _, ex := range q.ExampleQuestions {
			fmt.Fprintf(&sb, "<li>%s</li>", esc(ex))
		}
		sb.WriteString(`</ul></div>`)
	}
	if w := tdl.ExtendedWriting; w != nil {
		sb.WriteString(`<div class="learning-section"><h4>Extended Writing Exercises</h4>`)
		fmt.Fprintf(&sb, "<p><strong>Writing Types:</strong> %s</p>", joinEscaped(w.WritingTypes, ", "))
		for _, task := range w.ExampleTasks {
			fmt.Fprintf(&sb, `<div class="writing-item"><h5>%s</h5><p>%s</p></div>`, esc(task.Task), esc(task.Description))
		}
		sb.WriteString(`</div>`)
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

func joinEscaped(items []text, sep string) string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = esc(it)
	}
	return strings.Join(out, sep)
}
