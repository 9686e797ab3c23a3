package lesson

import (
	"errors"
	"fmt"
)

// ErrUnknownSection is returned when a section identifier is not one of the
// five lesson pillars.
var ErrUnknownSection = errors.New("unknown section")

// Section identifies one of the five fixed lesson pillars.
type Section string

const (
	SectionContent    Section = "content"
	SectionLanguage   Section = "language"
	SectionTasks      Section = "tasks"
	SectionAssessment Section = "assessment"
	SectionMaterials  Section = "materials"
)

// Sections lists every pillar in wire order ("1".."5").
var Sections = []Section{
	SectionContent,
	SectionLanguage,
	SectionTasks,
	SectionAssessment,
	SectionMaterials,
}

type sectionInfo struct {
	wireID      string
	title       string
	payloadKey  string
	snapshotKey string
}

var sectionTable = map[Section]sectionInfo{
	SectionContent:    {"1", "Content Objectives", "content_objectives", "content_objectives"},
	SectionLanguage:   {"2", "Language Objectives", "language_objectives", "language_objectives"},
	SectionTasks:      {"3", "Learning Tasks", "learning_tasks", "learning_tasks"},
	SectionAssessment: {"4", "Assessment Criteria", "assessment_criteria", "assessment_criteria"},
	SectionMaterials:  {"5", "Text Deep Learning", "text_deep_learning_input", "materials_resources"},
}

// ParseSection accepts either a wire identifier ("1".."5") or a section name.
func ParseSection(v string) (Section, error) {
	for s, info := range sectionTable {
		if v == info.wireID || v == string(s) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSection, v)
}

// Valid reports whether s is one of the five pillars.
func (s Section) Valid() bool {
	_, ok := sectionTable[s]
	return ok
}

// WireID returns the 1-based numeral used in backend requests.
func (s Section) WireID() string { return sectionTable[s].wireID }

// Title returns the human-readable pillar title.
func (s Section) Title() string { return sectionTable[s].title }

// PayloadKey is the JSON key holding this section in a generation result.
func (s Section) PayloadKey() string { return sectionTable[s].payloadKey }

// SnapshotKey is the key used for this section in a current_activity snapshot.
func (s Section) SnapshotKey() string { return sectionTable[s].snapshotKey }
