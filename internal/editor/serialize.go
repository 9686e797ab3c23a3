package editor

import (
	"maps"
	"slices"

	"github.com/ziadkadry99/clil-studio/internal/lesson"
)

// ToDocument snapshots the session for saving. Cards without a recipe,
// such as failed or loading ones, are left out.
func (s *Session) ToDocument() *lesson.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := &lesson.Document{
		LessonID:    s.lessonID,
		Title:       s.title,
		Pillars:     make(map[lesson.Section]lesson.Pillar, len(lesson.Sections)),
		SideCards:   []lesson.SideCard{},
		ChatHistory: s.chat.Messages(),
		ChatContext: maps.Clone(s.chatContext),
	}
	for _, sec := range lesson.Sections {
		doc.Pillars[sec] = s.store.Snapshot(sec)
	}
	for _, c := range s.allCards() {
		if len(c.Recipe) == 0 {
			continue
		}
		doc.SideCards = append(doc.SideCards, lesson.SideCard{
			Type:   c.Kind,
			ID:     c.ID,
			Recipe: slices.Clone(c.Recipe),
		})
	}
	doc.Normalize()
	return doc
}

// FromDocument replaces the whole session with doc. Out of range indices
// are clamped and cards of unknown kinds are dropped.
func (s *Session) FromDocument(doc *lesson.Document) {
	d := *doc
	d.Pillars = maps.Clone(doc.Pillars)
	d.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lessonID = d.LessonID
	s.title = d.Title
	s.chatContext = maps.Clone(d.ChatContext)
	s.prompt = ""
	s.modifiers = nil
	s.chatNotice = ""

	for _, sec := range lesson.Sections {
		p := d.Pillars[sec]
		_ = s.store.ReplaceAll(sec, p.Versions, p.CurrentIndex)
	}

	s.helperCards = nil
	s.tipCards = nil
	for _, sc := range d.SideCards {
		c, err := BuildCard(sc.Type, sc.ID, sc.Recipe)
		if err != nil {
			s.log.Warn("dropping side card", "kind", sc.Type, "id", sc.ID, "error", err)
			continue
		}
		if c.Column == ColumnTips {
			s.tipCards = append(s.tipCards, c)
		} else {
			s.helperCards = append(s.helperCards, c)
		}
	}

	s.chat.replace(d.ChatHistory)
	s.display.RenderAll()
}
