package editor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ziadkadry99/clil-studio/internal/lesson"
)

const (
	EmptyPlaceholder = `<p class="empty-message">Generate an activity to see content</p>`
	// MissingContent stands in for a variant whose payload was absent.
	MissingContent = `<p class="empty-message">Content could not be loaded</p>`
	NavigationHint   = "Use the arrows to navigate through different generated or customized versions for this section."

	// ActionPromote copies the section on display into a side card.
	ActionPromote = "promote"
)

// SectionView is the rendered state of one section container.
type SectionView struct {
	Section             lesson.Section       `json:"section"`
	Title               string               `json:"title"`
	HTML                string               `json:"html"`
	Empty               bool                 `json:"empty"`
	Counter             string               `json:"counter"`
	PrevEnabled         bool                 `json:"prev_enabled"`
	NextEnabled         bool                 `json:"next_enabled"`
	Hint                string               `json:"hint,omitempty"`
	QuickCustomizations []QuickCustomization `json:"quick_customizations,omitempty"`
	Actions             []string             `json:"actions,omitempty"`
}

// Synchronizer derives section views from the store. Render is the only
// code path that writes a view.
type Synchronizer struct {
	store *Store
	views map[lesson.Section]*SectionView
}

func NewSynchronizer(store *Store) *Synchronizer {
	y := &Synchronizer{
		store: store,
		views: make(map[lesson.Section]*SectionView, len(lesson.Sections)),
	}
	for _, sec := range lesson.Sections {
		y.views[sec] = &SectionView{Section: sec, Title: sec.Title()}
	}
	y.RenderAll()
	return y
}

// Render brings the view of sec in line with the store. It may be called
// at any time and any number of times.
func (y *Synchronizer) Render(sec lesson.Section) error {
	v, ok := y.views[sec]
	if !ok {
		return fmt.Errorf("%w: %q", lesson.ErrUnknownSection, sec)
	}

	content, ok := y.store.Current(sec)
	if !ok {
		v.HTML = EmptyPlaceholder
		v.Empty = true
		v.Counter = "0/0"
		v.PrevEnabled = false
		v.NextEnabled = false
		v.Hint = ""
		v.QuickCustomizations = nil
		return nil
	}

	v.Empty = false
	if strings.TrimSpace(content) == "" {
		content = MissingContent
	}
	if strings.Contains(content, "section-content") {
		v.HTML = content
	} else {
		v.HTML = sectionContentOpen + content + sectionContentClose
	}

	if !slices.Contains(v.Actions, ActionPromote) {
		v.Actions = append(v.Actions, ActionPromote)
	}

	v.QuickCustomizations = QuickCustomizations(sec)

	n := y.store.Len(sec)
	v.Counter = fmt.Sprintf("%d/%d", y.store.Index(sec)+1, n)
	multiple := n > 1
	v.PrevEnabled = multiple
	v.NextEnabled = multiple
	if multiple {
		v.Hint = NavigationHint
	} else {
		v.Hint = ""
	}
	return nil
}

// RenderAll renders every section.
func (y *Synchronizer) RenderAll() {
	for _, sec := range lesson.Sections {
		_ = y.Render(sec)
	}
}

// View returns a copy of the current view of sec.
func (y *Synchronizer) View(sec lesson.Section) SectionView {
	v, ok := y.views[sec]
	if !ok {
		return SectionView{Section: sec}
	}
	out := *v
	out.QuickCustomizations = slices.Clone(v.QuickCustomizations)
	out.Actions = slices.Clone(v.Actions)
	return out
}

// Views returns copies of all views in section order.
func (y *Synchronizer) Views() []SectionView {
	out := make([]SectionView, 0, len(lesson.Sections))
	for _, sec := range lesson.Sections {
		out = append(out, y.View(sec))
	}
	return out
}
