package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/clil-studio/internal/api"
	"github.com/ziadkadry99/clil-studio/internal/lesson"
)

// Backend is the remote generation and lesson storage service.
type Backend interface {
	Generate(ctx context.Context, req api.GenerateRequest) (string, error)
	GenerateHelper(ctx context.Context, prompt string) (string, error)
	GenerateInsight(ctx context.Context, concept string, helperContext *api.HelperContext) (string, error)
	RelatedTags(ctx context.Context, tag string, tagContext api.TagContext) ([]string, error)
	// Inline streams generated text. The caller closes the reader.
	Inline(ctx context.Context, req api.InlineRequest) (io.ReadCloser, error)
	Chat(ctx context.Context, req api.ChatRequest) (string, error)
	SaveLesson(ctx context.Context, doc *lesson.Document) (string, error)
	LoadLesson(ctx context.Context, id string) (*lesson.Document, error)
	ListLessons(ctx context.Context) ([]lesson.Summary, error)
}

var (
	ErrEmptyPrompt      = errors.New("prompt is empty")
	ErrEmptyInstruction = errors.New("customization instruction is empty")
)

const (
	helperErrorTitle   = "Error generating helper content"
	helperErrorMessage = "Failed to generate helper content. Please try again."
	insightErrorTitle  = "Error generating insight"
	insightErrorMsg    = "Failed to generate insight. Please try again."
)

// GenerateResult reports the outcome of the two requests of a full
// generation. Either may fail without affecting the other.
type GenerateResult struct {
	MainErr      error
	HelperErr    error
	HelperCardID string
}

// Err joins both request errors.
func (r *GenerateResult) Err() error {
	return errors.Join(r.MainErr, r.HelperErr)
}

// GenerateAll generates a whole activity and its helper card concurrently.
// A successful main request resets every section to a single variant.
func (s *Session) GenerateAll(ctx context.Context, prompt string, modifiers []string, themeText string) (*GenerateResult, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}
	if err := s.acquire(lesson.Sections...); err != nil {
		return nil, err
	}
	defer s.release(lesson.Sections...)

	s.mu.Lock()
	s.prompt = prompt
	s.modifiers = append([]string(nil), modifiers...)
	loading := loadingCard(lesson.CardHelper, "Generating helper content...")
	s.helperCards = []*Card{loading}
	s.mu.Unlock()

	var (
		res        = &GenerateResult{HelperCardID: loading.ID}
		mainData   string
		helperData string
		g          errgroup.Group
	)
	g.Go(func() error {
		mainData, res.MainErr = s.backend.Generate(ctx, api.GenerateRequest{
			Prompt:          prompt,
			Modifiers:       modifiers,
			CustomThemeText: themeText,
		})
		return nil
	})
	g.Go(func() error {
		helperData, res.HelperErr = s.backend.GenerateHelper(ctx, prompt)
		return nil
	})
	_ = g.Wait()

	var result map[string]json.RawMessage
	if res.MainErr == nil {
		result, res.MainErr = DecodeResult(mainData)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if res.MainErr == nil {
		for _, sec := range lesson.Sections {
			raw := result[sec.PayloadKey()]
			if payloadShape(raw) == 0 {
				s.log.Warn("generation result is missing a section", "section", sec, "key", sec.PayloadKey())
			}
			_ = s.store.ReplaceAll(sec, []string{FormatSection(sec, raw)}, 0)
		}
		s.display.RenderAll()
	} else {
		s.log.Error("generating activity", "prompt", prompt, "error", res.MainErr)
	}

	if res.HelperErr == nil {
		var built *Card
		built, res.HelperErr = BuildCard(lesson.CardHelper, loading.ID, json.RawMessage(helperData))
		if res.HelperErr == nil {
			*loading = *built
		}
	}
	if res.HelperErr != nil {
		s.log.Error("generating helper content", "prompt", prompt, "error", res.HelperErr)
		loading.fail(helperErrorTitle, helperErrorMessage)
	}
	return res, nil
}

// RegenerateSection requests a fresh variant of one section and appends it.
func (s *Session) RegenerateSection(ctx context.Context, sec lesson.Section, prompt string, modifiers []string) error {
	if strings.TrimSpace(prompt) == "" {
		return ErrEmptyPrompt
	}
	if err := s.acquire(sec); err != nil {
		return err
	}
	defer s.release(sec)

	data, err := s.backend.Generate(ctx, api.GenerateRequest{
		Prompt:    prompt,
		Section:   sec.WireID(),
		Modifiers: modifiers,
	})
	if err != nil {
		return fmt.Errorf("regenerating %s: %w", sec, err)
	}
	return s.appendVariant(sec, formatSectionResult(sec, data))
}

// CustomizeSection sends the current state of every section with a free
// text instruction and appends the result to sec.
func (s *Session) CustomizeSection(ctx context.Context, sec lesson.Section, instruction string) error {
	if strings.TrimSpace(instruction) == "" {
		return ErrEmptyInstruction
	}
	if err := s.acquire(sec); err != nil {
		return err
	}
	defer s.release(sec)

	s.mu.Lock()
	req := api.GenerateRequest{
		Prompt:          s.prompt,
		Section:         sec.WireID(),
		Customization:   instruction,
		CurrentActivity: s.currentActivity(),
	}
	s.mu.Unlock()

	data, err := s.backend.Generate(ctx, req)
	if err != nil {
		return fmt.Errorf("customizing %s: %w", sec, err)
	}
	return s.appendVariant(sec, Markdown(data))
}

// ApplyQuickCustomization runs the index-th shortcut of a section.
func (s *Session) ApplyQuickCustomization(ctx context.Context, sec lesson.Section, index int) error {
	list := QuickCustomizations(sec)
	if index < 0 || index >= len(list) {
		return fmt.Errorf("quick customization %d out of range for %s", index, sec)
	}
	return s.CustomizeSection(ctx, sec, list[index].Instruction)
}

func (s *Session) appendVariant(sec lesson.Section, html string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Append(sec, html); err != nil {
		return err
	}
	return s.display.Render(sec)
}

// currentActivity snapshots what every section container shows. Callers
// hold s.mu.
func (s *Session) currentActivity() map[string]string {
	out := make(map[string]string, len(lesson.Sections))
	for _, sec := range lesson.Sections {
		out[sec.SnapshotKey()] = s.display.View(sec).HTML
	}
	return out
}

// formatSectionResult extracts one section from a generation result. Text
// that is not a JSON object is rendered as markdown.
func formatSectionResult(sec lesson.Section, data string) string {
	result, err := DecodeResult(data)
	if err != nil {
		return Markdown(data)
	}
	if raw, ok := result[sec.PayloadKey()]; ok {
		return FormatSection(sec, raw)
	}
	if len(result) == 1 {
		for _, raw := range result {
			return FormatSection(sec, raw)
		}
	}
	return FormatSection(sec, json.RawMessage(data))
}

// Insight explains concept in a new card at the top of the tips column.
// cardID names the card the concept was picked from; the first helper card
// is used when it is empty.
func (s *Session) Insight(ctx context.Context, cardID, concept string) (Card, error) {
	if strings.TrimSpace(concept) == "" {
		return Card{}, errors.New("concept is empty")
	}

	s.mu.Lock()
	hc, err := s.helperContext(cardID)
	if err != nil {
		s.mu.Unlock()
		return Card{}, err
	}
	loading := loadingCard(lesson.CardInsight, concept)
	s.insertCard(loading)
	s.mu.Unlock()

	data, err := s.backend.GenerateInsight(ctx, concept, hc)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		var built *Card
		if built, err = BuildCard(lesson.CardInsight, loading.ID, json.RawMessage(data)); err == nil {
			*loading = *built
			return *loading, nil
		}
	}
	s.log.Error("generating insight", "concept", concept, "error", err)
	loading.fail(insightErrorTitle, insightErrorMsg)
	return *loading, fmt.Errorf("generating insight: %w", err)
}

// helperContext summarizes a card for an insight request. Callers hold s.mu.
func (s *Session) helperContext(cardID string) (*api.HelperContext, error) {
	var c *Card
	if cardID != "" {
		found, err := s.findCard(cardID)
		if err != nil {
			return nil, err
		}
		c = found
	} else {
		for _, h := range s.helperCards {
			if h.Kind == lesson.CardHelper && h.State == CardReady {
				c = h
				break
			}
		}
	}
	if c == nil || c.State != CardReady {
		return nil, nil
	}

	hc := &api.HelperContext{Title: c.Title}
	switch c.Kind {
	case lesson.CardHelper:
		var r HelperRecipe
		if err := json.Unmarshal(c.Recipe, &r); err != nil {
			return nil, fmt.Errorf("decoding helper recipe: %w", err)
		}
		hc.Overview.Description = r.TopicOverview.Description
		hc.Overview.Concepts = helperTags(&r)
		for _, a := range r.TeachingAspects {
			hc.Aspects = append(hc.Aspects, api.HelperAspect{Title: a.Title, Description: a.Description, Tags: a.Tags})
		}
	case lesson.CardInsight:
		var r InsightRecipe
		if err := json.Unmarshal(c.Recipe, &r); err != nil {
			return nil, fmt.Errorf("decoding insight recipe: %w", err)
		}
		hc.Overview.Description = r.Summary
		hc.Overview.Concepts = c.Tags
		hc.Aspects = []api.HelperAspect{
			{Title: "Practical Tips", Description: strings.Join(r.PracticalTips, "\n")},
			{Title: "Example", Description: r.Example.Scenario + "\n" + r.Example.Application},
		}
	}
	return hc, nil
}

// ExpandTag asks for tags related to tag and adds the new ones to a helper
// card, next to tag. It returns the tags added.
func (s *Session) ExpandTag(ctx context.Context, cardID, tag string) ([]string, error) {
	s.mu.Lock()
	r, c, err := s.helperRecipe(cardID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	tc := api.TagContext{
		TopicOverview: r.TopicOverview.Description,
		KeyConcepts:   r.TopicOverview.KeyConcepts,
		ExistingTags:  helperTags(r),
		Content:       c.HTML,
	}
	s.mu.Unlock()

	related, err := s.backend.RelatedTags(ctx, tag, tc)
	if err != nil {
		return nil, fmt.Errorf("generating related tags: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	r, c, err = s.helperRecipe(cardID)
	if err != nil {
		return nil, err
	}
	added := r.addRelatedTags(tag, related)
	if len(added) == 0 {
		return nil, nil
	}
	if err := s.rebuildCard(c, r); err != nil {
		return nil, err
	}
	return added, nil
}

// helperRecipe decodes the recipe of a ready helper card. Callers hold s.mu.
func (s *Session) helperRecipe(cardID string) (*HelperRecipe, *Card, error) {
	c, err := s.findCard(cardID)
	if err != nil {
		return nil, nil, err
	}
	if c.Kind != lesson.CardHelper || c.State != CardReady {
		return nil, nil, fmt.Errorf("card %s is not a helper card", cardID)
	}
	var r HelperRecipe
	if err := json.Unmarshal(c.Recipe, &r); err != nil {
		return nil, nil, fmt.Errorf("decoding helper recipe: %w", err)
	}
	return &r, c, nil
}

// SetClassContext sets the class description sent with chat messages.
func (s *Session) SetClassContext(cc api.ChatContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classContext = cc
}

// Chat sends message to the assistant with the conversation so far. When
// the request fails the message is withdrawn from the history and an error
// notice is shown instead.
func (s *Session) Chat(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", errors.New("message is empty")
	}

	s.mu.Lock()
	s.chatNotice = ""
	history := s.chat.Messages()
	s.chat.Append(lesson.RoleUser, message)
	req := api.ChatRequest{Message: message, Context: s.classContext, History: history}
	s.mu.Unlock()

	reply, err := s.backend.Chat(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if msgs := s.chat.messages; len(msgs) > 0 && msgs[len(msgs)-1] == (lesson.ChatMessage{Role: lesson.RoleUser, Content: message}) {
			s.chat.popLast()
		}
		s.chatNotice = ChatErrorMessage
		s.log.Error("chat", "error", err)
		return "", fmt.Errorf("chat: %w", err)
	}
	s.chat.Append(lesson.RoleAssistant, reply)
	return reply, nil
}

// InlineInput describes an inline generation in an open editor.
type InlineInput struct {
	Content          string
	Command          string
	Position         int
	TextBeforeCursor string
}

const (
	maxInlineContext  = 5000
	inlineTruncMarker = "[...text truncated...]\n\n"
)

// truncateContext keeps the last maxInlineContext characters of text.
func truncateContext(text string) string {
	n := utf8.RuneCountInString(text)
	if n <= maxInlineContext {
		return text
	}
	r := []rune(text)
	return inlineTruncMarker + string(r[n-maxInlineContext:])
}

// Inline streams generated text for an editor command. sink receives the
// rendered accumulated text after every chunk. Cancelling ctx stops
// reading. The raw generated text is returned.
func (s *Session) Inline(ctx context.Context, in InlineInput, sink func(html string)) (string, error) {
	if strings.TrimSpace(in.Command) == "" {
		return "", errors.New("command is empty")
	}
	body, err := s.backend.Inline(ctx, api.InlineRequest{
		Content:          in.Content,
		Command:          in.Command,
		Position:         in.Position,
		TextBeforeCursor: truncateContext(in.TextBeforeCursor),
	})
	if err != nil {
		return "", fmt.Errorf("inline generation: %w", err)
	}
	defer body.Close()

	var acc strings.Builder
	buf := make([]byte, 4096)
	for {
		if err := ctx.Err(); err != nil {
			return acc.String(), err
		}
		n, rerr := body.Read(buf)
		if n > 0 {
			acc.Write(buf[:n])
			if sink != nil {
				sink(Markdown(acc.String()))
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return acc.String(), fmt.Errorf("reading inline stream: %w", rerr)
		}
	}

	text := acc.String()
	if msg, failed := strings.CutPrefix(text, api.InlineErrorPrefix); failed {
		return "", fmt.Errorf("inline generation: %s", msg)
	}
	return text, nil
}

// Save stores the lesson and adopts the id assigned to a new lesson.
func (s *Session) Save(ctx context.Context) (string, error) {
	doc := s.ToDocument()
	id, err := s.backend.SaveLesson(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("saving lesson: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lessonID == "" {
		s.lessonID = id
	}
	return id, nil
}

// Load replaces the whole session with a saved lesson.
func (s *Session) Load(ctx context.Context, id string) error {
	doc, err := s.backend.LoadLesson(ctx, id)
	if err != nil {
		return fmt.Errorf("loading lesson %s: %w", id, err)
	}
	if doc.LessonID == "" {
		doc.LessonID = id
	}
	s.FromDocument(doc)
	return nil
}

// List returns the caller's saved lessons.
func (s *Session) List(ctx context.Context) ([]lesson.Summary, error) {
	out, err := s.backend.ListLessons(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing lessons: %w", err)
	}
	return out, nil
}
