package editor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/clil-studio/internal/lesson"
)

func TestRenderEmptySection(t *testing.T) {
	y := NewSynchronizer(NewStore())
	v := y.View(lesson.SectionContent)

	assert.True(t, v.Empty)
	assert.Equal(t, EmptyPlaceholder, v.HTML)
	assert.Equal(t, "0/0", v.Counter)
	assert.False(t, v.PrevEnabled)
	assert.False(t, v.NextEnabled)
	assert.Empty(t, v.Hint)
	assert.Empty(t, v.QuickCustomizations)
	assert.Equal(t, "Content Objectives", v.Title)
}

func TestRenderSingleVariant(t *testing.T) {
	s := NewStore()
	y := NewSynchronizer(s)
	require.NoError(t, s.Append(lesson.SectionTasks, "<p>task</p>"))
	require.NoError(t, y.Render(lesson.SectionTasks))

	v := y.View(lesson.SectionTasks)
	assert.False(t, v.Empty)
	assert.Equal(t, `<div class="section-content"><p>task</p></div>`, v.HTML)
	assert.Equal(t, "1/1", v.Counter)
	assert.False(t, v.PrevEnabled)
	assert.False(t, v.NextEnabled)
	assert.Empty(t, v.Hint)
	assert.Equal(t, QuickCustomizations(lesson.SectionTasks), v.QuickCustomizations)
	assert.Equal(t, []string{ActionPromote}, v.Actions)
}

func TestRenderMultipleVariants(t *testing.T) {
	s := NewStore()
	y := NewSynchronizer(s)
	require.NoError(t, s.Append(lesson.SectionLanguage, "a"))
	require.NoError(t, s.Append(lesson.SectionLanguage, "b"))
	require.NoError(t, y.Render(lesson.SectionLanguage))

	v := y.View(lesson.SectionLanguage)
	assert.Equal(t, "2/2", v.Counter)
	assert.True(t, v.PrevEnabled)
	assert.True(t, v.NextEnabled)
	assert.Equal(t, NavigationHint, v.Hint)

	require.NoError(t, s.Navigate(lesson.SectionLanguage, +1))
	require.NoError(t, y.Render(lesson.SectionLanguage))
	assert.Equal(t, "1/2", y.View(lesson.SectionLanguage).Counter)
}

func TestRenderIsIdempotent(t *testing.T) {
	s := NewStore()
	y := NewSynchronizer(s)
	require.NoError(t, s.Append(lesson.SectionAssessment, `<div class="section-content">already wrapped</div>`))

	for i := 0; i < 3; i++ {
		require.NoError(t, y.Render(lesson.SectionAssessment))
	}
	v := y.View(lesson.SectionAssessment)
	assert.Equal(t, 1, strings.Count(v.HTML, "section-content"))
	assert.Equal(t, []string{ActionPromote}, v.Actions)
	assert.Len(t, v.QuickCustomizations, 4)
}

func TestViewReturnsCopy(t *testing.T) {
	s := NewStore()
	y := NewSynchronizer(s)
	require.NoError(t, s.Append(lesson.SectionMaterials, "x"))
	require.NoError(t, y.Render(lesson.SectionMaterials))

	v := y.View(lesson.SectionMaterials)
	v.QuickCustomizations[0].Label = "changed"
	v.Actions[0] = "changed"
	again := y.View(lesson.SectionMaterials)
	assert.Equal(t, "Simplify Language", again.QuickCustomizations[0].Label)
	assert.Equal(t, ActionPromote, again.Actions[0])
}

func TestRenderUnknownSection(t *testing.T) {
	y := NewSynchronizer(NewStore())
	assert.ErrorIs(t, y.Render("pillar-6"), lesson.ErrUnknownSection)
}

func TestViewsInSectionOrder(t *testing.T) {
	views := NewSynchronizer(NewStore()).Views()
	require.Len(t, views, len(lesson.Sections))
	for i, v := range views {
		assert.Equal(t, lesson.Sections[i], v.Section)
	}
}
