package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ziadkadry99/clil-studio/internal/lesson"
)

var (
	// ErrInvalidDirection is returned by Navigate for anything but -1 or +1.
	ErrInvalidDirection = errors.New("direction must be -1 or +1")
	// ErrEmptySection is returned when editing a section with no variants.
	ErrEmptySection = errors.New("section has no variants")
)

// variants is the history of one section plus the index on display.
type variants struct {
	items []string
	index int
}

// Store holds the generated variants of every section. It is not safe for
// concurrent use; Session serializes access to it.
type Store struct {
	sections map[lesson.Section]*variants
}

// NewStore returns a store with all five sections empty.
func NewStore() *Store {
	s := &Store{sections: make(map[lesson.Section]*variants, len(lesson.Sections))}
	s.Reset()
	return s
}

// Reset empties every section.
func (s *Store) Reset() {
	for _, sec := range lesson.Sections {
		s.sections[sec] = &variants{}
	}
}

func (s *Store) get(sec lesson.Section) (*variants, error) {
	v, ok := s.sections[sec]
	if !ok {
		return nil, fmt.Errorf("%w: %q", lesson.ErrUnknownSection, sec)
	}
	return v, nil
}

// Append adds content as the newest variant and makes it current.
func (s *Store) Append(sec lesson.Section, content string) error {
	v, err := s.get(sec)
	if err != nil {
		return err
	}
	v.items = append(v.items, content)
	v.index = len(v.items) - 1
	return nil
}

// Navigate moves the current index by dir, wrapping at both ends. It is a
// no-op on an empty section.
func (s *Store) Navigate(sec lesson.Section, dir int) error {
	if dir != -1 && dir != 1 {
		return ErrInvalidDirection
	}
	v, err := s.get(sec)
	if err != nil {
		return err
	}
	n := len(v.items)
	if n == 0 {
		return nil
	}
	v.index = (v.index + dir + n) % n
	return nil
}

// ReplaceAll overwrites a section's history, as done when a lesson is
// loaded. The index is clamped into range.
func (s *Store) ReplaceAll(sec lesson.Section, items []string, index int) error {
	v, err := s.get(sec)
	if err != nil {
		return err
	}
	v.items = append([]string(nil), items...)
	v.index = clampIndex(index, len(v.items))
	return nil
}

// Current returns the variant on display. ok is false when the section is
// empty.
func (s *Store) Current(sec lesson.Section) (content string, ok bool) {
	v, err := s.get(sec)
	if err != nil || len(v.items) == 0 {
		return "", false
	}
	return v.items[v.index], true
}

// Len returns the number of variants of a section.
func (s *Store) Len(sec lesson.Section) int {
	v, err := s.get(sec)
	if err != nil {
		return 0
	}
	return len(v.items)
}

// Index returns the current index of a section, 0 when empty.
func (s *Store) Index(sec lesson.Section) int {
	v, err := s.get(sec)
	if err != nil {
		return 0
	}
	return v.index
}

// EditCurrent overwrites the current variant in place. An outer
// section-content wrapper is stripped so display wrapping stays single.
func (s *Store) EditCurrent(sec lesson.Section, html string) error {
	v, err := s.get(sec)
	if err != nil {
		return err
	}
	if len(v.items) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptySection, sec)
	}
	v.items[v.index] = unwrapSectionContent(html)
	return nil
}

// Snapshot copies a section into its persisted form.
func (s *Store) Snapshot(sec lesson.Section) lesson.Pillar {
	v, err := s.get(sec)
	if err != nil {
		return lesson.Pillar{Versions: []string{}}
	}
	return lesson.Pillar{
		Versions:     append([]string{}, v.items...),
		CurrentIndex: v.index,
	}
}

func clampIndex(i, n int) int {
	switch {
	case n == 0 || i < 0:
		return 0
	case i >= n:
		return n - 1
	default:
		return i
	}
}

const (
	sectionContentOpen  = `<div class="section-content">`
	sectionContentClose = `</div>`
)

func unwrapSectionContent(html string) string {
	trimmed := strings.TrimSpace(html)
	if strings.HasPrefix(trimmed, sectionContentOpen) && strings.HasSuffix(trimmed, sectionContentClose) {
		return trimmed[len(sectionContentOpen) : len(trimmed)-len(sectionContentClose)]
	}
	return html
}
