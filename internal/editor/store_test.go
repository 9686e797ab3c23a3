package editor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/clil-studio/internal/lesson"
)

func TestNavigateIsCyclic(t *testing.T) {
	for n := 1; n <= 6; n++ {
		for _, sec := range lesson.Sections {
			s := NewStore()
			for i := 0; i < n; i++ {
				require.NoError(t, s.Append(sec, fmt.Sprintf("v%d", i)))
			}
			start := s.Index(sec)
			for i := 0; i < n; i++ {
				require.NoError(t, s.Navigate(sec, +1))
			}
			assert.Equal(t, start, s.Index(sec), "n=%d section=%s", n, sec)
		}
	}
}

func TestNavigateWrapsBackwards(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Append(lesson.SectionTasks, "a"))
	require.NoError(t, s.Append(lesson.SectionTasks, "b"))
	require.NoError(t, s.Append(lesson.SectionTasks, "c"))

	require.NoError(t, s.Navigate(lesson.SectionTasks, -1))
	assert.Equal(t, 1, s.Index(lesson.SectionTasks))
	require.NoError(t, s.Navigate(lesson.SectionTasks, -1))
	require.NoError(t, s.Navigate(lesson.SectionTasks, -1))
	assert.Equal(t, 2, s.Index(lesson.SectionTasks))
}

func TestNavigateEmptyIsNoop(t *testing.T) {
	s := NewStore()
	assert.NoError(t, s.Navigate(lesson.SectionContent, +1))
	assert.NoError(t, s.Navigate(lesson.SectionContent, -1))
	assert.Equal(t, 0, s.Index(lesson.SectionContent))
	_, ok := s.Current(lesson.SectionContent)
	assert.False(t, ok)
}

func TestNavigateRejectsOtherDirections(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Append(lesson.SectionContent, "a"))
	assert.ErrorIs(t, s.Navigate(lesson.SectionContent, 2), ErrInvalidDirection)
	assert.ErrorIs(t, s.Navigate(lesson.SectionContent, 0), ErrInvalidDirection)
}

func TestAppendMakesNewestCurrent(t *testing.T) {
	s := NewStore()
	for i := 0; i < 4; i++ {
		require.NoError(t, s.Append(lesson.SectionLanguage, fmt.Sprint(i)))
		assert.Equal(t, i, s.Index(lesson.SectionLanguage))
		got, ok := s.Current(lesson.SectionLanguage)
		require.True(t, ok)
		assert.Equal(t, fmt.Sprint(i), got)
	}

	require.NoError(t, s.Navigate(lesson.SectionLanguage, -1))
	require.NoError(t, s.Navigate(lesson.SectionLanguage, -1))
	require.NoError(t, s.Append(lesson.SectionLanguage, "new"))
	assert.Equal(t, 4, s.Index(lesson.SectionLanguage))
}

func TestUnknownSection(t *testing.T) {
	s := NewStore()
	assert.ErrorIs(t, s.Append("pillar-6", "x"), lesson.ErrUnknownSection)
	assert.ErrorIs(t, s.Navigate("pillar-6", 1), lesson.ErrUnknownSection)
	assert.Equal(t, 0, s.Len("pillar-6"))
}

func TestReplaceAllClampsIndex(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		index int
		want  int
	}{
		{"in range", []string{"a", "b"}, 1, 1},
		{"past end", []string{"a"}, 2, 0},
		{"negative", []string{"a", "b"}, -3, 0},
		{"empty", nil, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			require.NoError(t, s.ReplaceAll(lesson.SectionContent, tt.items, tt.index))
			assert.Equal(t, tt.want, s.Index(lesson.SectionContent))
			assert.Equal(t, len(tt.items), s.Len(lesson.SectionContent))
		})
	}
}

func TestReplaceAllCopiesInput(t *testing.T) {
	s := NewStore()
	items := []string{"a", "b"}
	require.NoError(t, s.ReplaceAll(lesson.SectionContent, items, 0))
	items[0] = "changed"
	got, _ := s.Current(lesson.SectionContent)
	assert.Equal(t, "a", got)
}

func TestEditCurrent(t *testing.T) {
	s := NewStore()
	assert.ErrorIs(t, s.EditCurrent(lesson.SectionContent, "x"), ErrEmptySection)

	require.NoError(t, s.Append(lesson.SectionContent, "old"))
	require.NoError(t, s.EditCurrent(lesson.SectionContent, `<div class="section-content"><p>new</p></div>`))
	got, _ := s.Current(lesson.SectionContent)
	assert.Equal(t, "<p>new</p>", got)
	assert.Equal(t, 1, s.Len(lesson.SectionContent))
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Append(lesson.SectionMaterials, "a"))
	p := s.Snapshot(lesson.SectionMaterials)
	p.Versions[0] = "changed"
	got, _ := s.Current(lesson.SectionMaterials)
	assert.Equal(t, "a", got)

	empty := s.Snapshot(lesson.SectionContent)
	assert.NotNil(t, empty.Versions)
	assert.Empty(t, empty.Versions)
}
