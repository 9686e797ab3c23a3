package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"regexp"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/ziadkadry99/clil-studio/internal/lesson"
)

// ErrCardNotFound is returned when a card id does not match any card.
var ErrCardNotFound = errors.New("card not found")

// Column is where a card is displayed.
type Column string

const (
	ColumnHelper Column = "helper"
	ColumnTips   Column = "tips"
)

// CardState tracks cards whose content is still being generated.
type CardState string

const (
	CardReady   CardState = "ready"
	CardLoading CardState = "loading"
	CardFailed  CardState = "error"
)

// HelperRecipe is the structured content of a helper card.
type HelperRecipe struct {
	TopicOverview struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		KeyConcepts []string `json:"key_concepts"`
	} `json:"topic_overview"`
	TeachingAspects []struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Tags        []string `json:"tags"`
	} `json:"teaching_aspects"`
	SuggestedResources []struct {
		Type        string   `json:"type"`
		Description string   `json:"description"`
		Examples    []string `json:"examples"`
	} `json:"suggested_resources"`
	EditedHTML string `json:"edited_html,omitempty"`
}

// InsightRecipe is the structured content of an insight card.
type InsightRecipe struct {
	Title         string   `json:"title"`
	Summary       string   `json:"summary"`
	PracticalTips []string `json:"practical_tips"`
	Example       struct {
		Scenario    string `json:"scenario"`
		Application string `json:"application"`
	} `json:"example"`
	EditedHTML string `json:"edited_html,omitempty"`
}

// PillarCopyRecipe is a section variant promoted to a card.
type PillarCopyRecipe struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Card is a side card held by the session.
type Card struct {
	ID     string          `json:"id"`
	Kind   lesson.CardKind `json:"kind"`
	Column Column          `json:"column"`
	State  CardState       `json:"state"`
	Title  string          `json:"title"`
	HTML   string          `json:"html"`
	Tags   []string        `json:"tags,omitempty"`
	Recipe json.RawMessage `json:"recipe,omitempty"`
}

func newCardID() string { return "card-" + uuid.NewString() }

// BuildCard reconstructs a card from its kind and recipe. Unknown kinds and
// undecodable recipes return an error.
func BuildCard(kind lesson.CardKind, id string, recipe json.RawMessage) (*Card, error) {
	if id == "" {
		id = newCardID()
	}
	c := &Card{ID: id, Kind: kind, State: CardReady, Recipe: append(json.RawMessage(nil), recipe...)}
	switch kind {
	case lesson.CardHelper:
		var r HelperRecipe
		if err := json.Unmarshal(recipe, &r); err != nil {
			return nil, fmt.Errorf("decoding helper recipe: %w", err)
		}
		c.Column = ColumnHelper
		c.Title = r.TopicOverview.Title
		c.HTML = renderHelper(&r)
		c.Tags = helperTags(&r)
	case lesson.CardInsight:
		var r InsightRecipe
		if err := json.Unmarshal(recipe, &r); err != nil {
			return nil, fmt.Errorf("decoding insight recipe: %w", err)
		}
		c.Column = ColumnTips
		c.Title = r.Title
		c.Tags = ExtractTags(&r)
		c.HTML = renderInsight(&r, c.Tags)
	case lesson.CardPillarCopy:
		var r PillarCopyRecipe
		if err := json.Unmarshal(recipe, &r); err != nil {
			return nil, fmt.Errorf("decoding pillar copy recipe: %w", err)
		}
		c.Column = ColumnHelper
		c.Title = r.Title
		c.HTML = `<div class="helper-section">` + r.Content + `</div>`
	default:
		return nil, fmt.Errorf("unknown card kind %q", kind)
	}
	return c, nil
}

func loadingCard(kind lesson.CardKind, title string) *Card {
	c := &Card{ID: newCardID(), Kind: kind, State: CardLoading, Title: title}
	if kind == lesson.CardInsight {
		c.Column = ColumnTips
		c.HTML = `<p class="insight-summary loading-placeholder">Generating insight...</p>`
	} else {
		c.Column = ColumnHelper
		c.HTML = `<p class="loading-placeholder">Loading overview...</p>`
	}
	return c
}

func (c *Card) fail(title, message string) {
	c.State = CardFailed
	c.Title = title
	c.HTML = `<p class="insight-summary">` + html.EscapeString(message) + `</p>`
	c.Recipe = nil
}

func tagSpans(tags []string) string {
	var sb strings.Builder
	sb.WriteString(`<div class="helper-tags">`)
	for _, t := range tags {
		fmt.Fprintf(&sb, `<span class="helper-tag">%s</span>`, html.EscapeString(t))
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

func renderHelper(r *HelperRecipe) string {
	if r.EditedHTML != "" {
		return r.EditedHTML
	}
	e := html.EscapeString
	var sb strings.Builder
	sb.WriteString(`<div class="helper-section"><div class="helper-section-title">Overview</div>`)
	fmt.Fprintf(&sb, "<p>%s</p>%s</div>", e(r.TopicOverview.Description), tagSpans(r.TopicOverview.KeyConcepts))
	for _, a := range r.TeachingAspects {
		fmt.Fprintf(&sb, `<div class="helper-section"><div class="helper-section-title">%s</div><p>%s</p>%s</div>`,
			e(a.Title), e(a.Description), tagSpans(a.Tags))
	}
	sb.WriteString(`<div class="helper-section"><div class="helper-section-title">Suggested Resources</div>`)
	for _, res := range r.SuggestedResources {
		fmt.Fprintf(&sb, `<div class="resource-item"><strong>%s:</strong> %s%s</div>`,
			e(res.Type), e(res.Description), tagSpans(res.Examples))
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

func helperTags(r *HelperRecipe) []string {
	var tags []string
	tags = append(tags, r.TopicOverview.KeyConcepts...)
	for _, a := range r.TeachingAspects {
		tags = append(tags, a.Tags...)
	}
	for _, res := range r.SuggestedResources {
		tags = append(tags, res.Examples...)
	}
	return tags
}

func renderInsight(r *InsightRecipe, tags []string) string {
	if r.EditedHTML != "" {
		return r.EditedHTML
	}
	e := html.EscapeString
	var sb strings.Builder
	fmt.Fprintf(&sb, `<div class="tip-group"><p class="insight-summary">%s</p></div>`, e(r.Summary))
	sb.WriteString(`<div class="tip-group"><h4>Practical Tips</h4>`)
	for _, tip := range r.PracticalTips {
		fmt.Fprintf(&sb, "<p>%s</p>", e(tip))
	}
	sb.WriteString(`</div>`)
	fmt.Fprintf(&sb, `<div class="tip-group"><h4>Example</h4><p><strong>Scenario:</strong> %s</p><p><strong>Application:</strong> %s</p></div>`,
		e(r.Example.Scenario), e(r.Example.Application))
	sb.WriteString(tagSpans(tags))
	return sb.String()
}

var capitalizedTerm = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)

const maxInsightTags = 5

// ExtractTags collects capitalized terms from an insight's title, tips and
// scenario, in that order, keeping the first five unique ones.
func ExtractTags(r *InsightRecipe) []string {
	sources := append([]string{r.Title}, r.PracticalTips...)
	sources = append(sources, r.Example.Scenario)

	seen := make(map[string]bool)
	var tags []string
	for _, src := range sources {
		for _, term := range capitalizedTerm.FindAllString(src, -1) {
			if seen[term] {
				continue
			}
			seen[term] = true
			tags = append(tags, term)
			if len(tags) == maxInsightTags {
				return tags
			}
		}
	}
	return tags
}

// addRelatedTags appends tags after the container holding anchor, skipping
// tags already on the card. It returns the tags actually added.
func (r *HelperRecipe) addRelatedTags(anchor string, related []string) []string {
	existing := make(map[string]bool)
	for _, t := range helperTags(r) {
		existing[t] = true
	}
	var added []string
	for _, t := range related {
		if t == "" || existing[t] {
			continue
		}
		existing[t] = true
		added = append(added, t)
	}
	if len(added) == 0 {
		return nil
	}
	if r.EditedHTML != "" {
		r.EditedHTML += tagSpans(added)
	}

	for i := range r.TeachingAspects {
		if slices.Contains(r.TeachingAspects[i].Tags, anchor) {
			r.TeachingAspects[i].Tags = append(r.TeachingAspects[i].Tags, added...)
			return added
		}
	}
	for i := range r.SuggestedResources {
		if slices.Contains(r.SuggestedResources[i].Examples, anchor) {
			r.SuggestedResources[i].Examples = append(r.SuggestedResources[i].Examples, added...)
			return added
		}
	}
	r.TopicOverview.KeyConcepts = append(r.TopicOverview.KeyConcepts, added...)
	return added
}
