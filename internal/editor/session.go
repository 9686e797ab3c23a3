package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/ziadkadry99/clil-studio/internal/api"
	"github.com/ziadkadry99/clil-studio/internal/lesson"
	"github.com/ziadkadry99/clil-studio/internal/logger"
)

// ErrSectionBusy is returned when a section already has a request in flight.
var ErrSectionBusy = errors.New("section has a request in flight")

// Session is one editing session: the section store and its views, side
// cards, chat and lesson metadata. All methods are safe for concurrent use.
// Backend calls are made without holding the lock.
type Session struct {
	backend Backend
	log     *logger.Logger

	mu           sync.Mutex
	store        *Store
	display      *Synchronizer
	helperCards  []*Card
	tipCards     []*Card
	chat         ChatLog
	chatNotice   string
	title        string
	lessonID     string
	chatContext  map[string]any
	classContext api.ChatContext
	prompt       string
	modifiers    []string
	inFlight     map[lesson.Section]struct{}
}

// NewSession returns an empty session that talks to backend. A nil log
// discards log output.
func NewSession(backend Backend, log *logger.Logger) *Session {
	if log == nil {
		log = logger.Nop()
	}
	store := NewStore()
	s := &Session{
		backend:     backend,
		log:         log,
		store:       store,
		display:     NewSynchronizer(store),
		title:       lesson.DefaultTitle,
		chatContext: lesson.DefaultChatContext(),
		inFlight:    make(map[lesson.Section]struct{}),
	}
	s.chat.Append(lesson.RoleAssistant, WelcomeMessage)
	return s
}

// acquire takes the in-flight token of every listed section, or none.
func (s *Session) acquire(secs ...lesson.Section) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sec := range secs {
		if !sec.Valid() {
			return fmt.Errorf("%w: %q", lesson.ErrUnknownSection, sec)
		}
		if _, busy := s.inFlight[sec]; busy {
			return fmt.Errorf("%w: %s", ErrSectionBusy, sec)
		}
	}
	for _, sec := range secs {
		s.inFlight[sec] = struct{}{}
	}
	return nil
}

func (s *Session) release(secs ...lesson.Section) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sec := range secs {
		delete(s.inFlight, sec)
	}
}

// Busy reports whether sec has a request in flight.
func (s *Session) Busy(sec lesson.Section) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inFlight[sec]
	return ok
}

func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

func (s *Session) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if title == "" {
		title = lesson.DefaultTitle
	}
	s.title = title
}

func (s *Session) LessonID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lessonID
}

// Prompt returns the prompt of the last full generation.
func (s *Session) Prompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prompt
}

func (s *Session) ChatContext() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.chatContext)
}

func (s *Session) SetChatContext(ctx map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatContext = maps.Clone(ctx)
}

// View returns the rendered state of one section.
func (s *Session) View(sec lesson.Section) SectionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.display.View(sec)
}

func (s *Session) Views() []SectionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.display.Views()
}

// Navigate shows the previous (-1) or next (+1) variant of a section.
func (s *Session) Navigate(sec lesson.Section, dir int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Navigate(sec, dir); err != nil {
		return err
	}
	return s.display.Render(sec)
}

// EditSection saves an edit of the variant on display.
func (s *Session) EditSection(sec lesson.Section, html string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.EditCurrent(sec, html); err != nil {
		return err
	}
	return s.display.Render(sec)
}

// Cards returns copies of the side cards, helper column first.
func (s *Session) Cards() []Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Card, 0, len(s.helperCards)+len(s.tipCards))
	for _, c := range s.allCards() {
		cp := *c
		cp.Tags = slices.Clone(c.Tags)
		cp.Recipe = slices.Clone(c.Recipe)
		out = append(out, cp)
	}
	return out
}

func (s *Session) allCards() []*Card {
	return append(slices.Clone(s.helperCards), s.tipCards...)
}

func (s *Session) findCard(id string) (*Card, error) {
	for _, c := range s.allCards() {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrCardNotFound, id)
}

// insertCard puts c at the top of its column.
func (s *Session) insertCard(c *Card) {
	if c.Column == ColumnTips {
		s.tipCards = slices.Insert(s.tipCards, 0, c)
	} else {
		s.helperCards = slices.Insert(s.helperCards, 0, c)
	}
}

// RemoveCard deletes a side card.
func (s *Session) RemoveCard(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	match := func(c *Card) bool { return c.ID == id }
	n := len(s.helperCards) + len(s.tipCards)
	s.helperCards = slices.DeleteFunc(s.helperCards, match)
	s.tipCards = slices.DeleteFunc(s.tipCards, match)
	if len(s.helperCards)+len(s.tipCards) == n {
		return fmt.Errorf("%w: %s", ErrCardNotFound, id)
	}
	return nil
}

// EditCard saves an edit of a card's body. The edit is kept in the recipe so
// it survives save and load.
func (s *Session) EditCard(id, html string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.findCard(id)
	if err != nil {
		return err
	}
	if c.State != CardReady {
		return fmt.Errorf("card %s is not ready for editing", id)
	}

	var recipe any
	switch c.Kind {
	case lesson.CardHelper:
		var r HelperRecipe
		if err := json.Unmarshal(c.Recipe, &r); err != nil {
			return fmt.Errorf("decoding helper recipe: %w", err)
		}
		r.EditedHTML = html
		recipe = &r
	case lesson.CardInsight:
		var r InsightRecipe
		if err := json.Unmarshal(c.Recipe, &r); err != nil {
			return fmt.Errorf("decoding insight recipe: %w", err)
		}
		r.EditedHTML = html
		recipe = &r
	case lesson.CardPillarCopy:
		var r PillarCopyRecipe
		if err := json.Unmarshal(c.Recipe, &r); err != nil {
			return fmt.Errorf("decoding pillar copy recipe: %w", err)
		}
		r.Content = html
		recipe = &r
	}
	return s.rebuildCard(c, recipe)
}

// rebuildCard re-encodes recipe and re-renders c in place.
func (s *Session) rebuildCard(c *Card, recipe any) error {
	raw, err := json.Marshal(recipe)
	if err != nil {
		return fmt.Errorf("encoding recipe: %w", err)
	}
	built, err := BuildCard(c.Kind, c.ID, raw)
	if err != nil {
		return err
	}
	*c = *built
	return nil
}

// PromoteToCard copies the variant on display into a pillar copy card at
// the top of the helper column.
func (s *Session) PromoteToCard(sec lesson.Section) (Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !sec.Valid() {
		return Card{}, fmt.Errorf("%w: %q", lesson.ErrUnknownSection, sec)
	}
	v := s.display.View(sec)
	if v.Empty {
		return Card{}, fmt.Errorf("%w: %s", ErrEmptySection, sec)
	}
	raw, err := json.Marshal(PillarCopyRecipe{Title: "Pillar Copy: " + sec.Title(), Content: v.HTML})
	if err != nil {
		return Card{}, fmt.Errorf("encoding recipe: %w", err)
	}
	c, err := BuildCard(lesson.CardPillarCopy, "", raw)
	if err != nil {
		return Card{}, err
	}
	s.insertCard(c)
	return *c, nil
}

// UseLastResponse returns the newest assistant chat message, to be used as
// the next generation prompt.
func (s *Session) UseLastResponse() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chat.LastAssistant()
}

func (s *Session) ChatMessages() []lesson.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chat.Messages()
}

// ChatBubbles renders the conversation. A failed exchange leaves a notice
// bubble that is not part of the history.
func (s *Session) ChatBubbles() []ChatBubble {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.chat.Bubbles()
	if s.chatNotice != "" {
		out = append(out, ChatBubble{Role: lesson.RoleAssistant, HTML: Markdown(s.chatNotice)})
	}
	return out
}
