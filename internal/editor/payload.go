package editor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// text is a string field that tolerates numbers and booleans, which
// generators occasionally emit for fields such as durations.
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = text(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err == nil {
		*t = text(data)
		return nil
	}
	if bytes.Equal(data, []byte("true")) || bytes.Equal(data, []byte("false")) {
		*t = text(data)
		return nil
	}
	return fmt.Errorf("expected text, got %s", data)
}

// details is either a single line or a list of lines.
type details struct {
	Items  []text
	IsList bool
}

func (d *details) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		d.IsList = true
		return json.Unmarshal(data, &d.Items)
	}
	var one text
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	d.Items = []text{one}
	return nil
}

// LanguageObjectives is the keyed payload of the language section.
type LanguageObjectives struct {
	KeyVocabulary      []text `json:"key_vocabulary"`
	LanguageStructures []text `json:"language_structures"`
	ExamplePhrases     []text `json:"example_phrases"`
}

type StepElement struct {
	Name    text    `json:"name"`
	Details details `json:"details"`
}

type TaskStep struct {
	Name        text          `json:"name"`
	Description text          `json:"description"`
	Elements    []StepElement `json:"elements"`
}

// LearningTask is one entry of the tasks section.
type LearningTask struct {
	Title        text      `json:"title"`
	Description  text      `json:"description"`
	Duration     text      `json:"duration"`
	Requirements *TaskStep `json:"step_1_requirements"`
	Execution    *TaskStep `json:"step_2_execution"`
	WrapUp       *TaskStep `json:"step_3_wrap_up"`
}

type AssessmentCriterion struct {
	Criterion text `json:"criterion"`
	Method    text `json:"method"`
}

type Material struct {
	Type        text `json:"type"`
	Description text `json:"description"`
	Purpose     text `json:"purpose"`
}

type ParetoPoint struct {
	Point       text `json:"point"`
	Explanation text `json:"explanation"`
}

type WritingTask struct {
	Task        text `json:"task"`
	Description text `json:"description"`
}

// TextDeepLearning is the keyed payload of the fifth section. Every block
// is optional.
type TextDeepLearning struct {
	ParetoPrintable *struct {
		Title  text          `json:"title"`
		Points []ParetoPoint `json:"points"`
	} `json:"pareto_printable"`
	SocraticQuestions *struct {
		QuestionTypes    []text `json:"question_types"`
		ExampleQuestions []text `json:"example_questions"`
	} `json:"socratic_questions"`
	ExtendedWriting *struct {
		WritingTypes []text        `json:"writing_types"`
		ExampleTasks []WritingTask `json:"example_tasks"`
	} `json:"extended_writing_exercises"`
}

// payloadShape reports the JSON kind of raw: 's' string, '[' array,
// '{' object, 0 for null or empty, 'v' for any other scalar.
func payloadShape(raw json.RawMessage) byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0
	}
	switch raw[0] {
	case '"':
		return 's'
	case '[', '{':
		return raw[0]
	default:
		return 'v'
	}
}

// DecodeResult parses a generation result (a JSON object serialized as a
// string by the backend) into its top-level keys.
func DecodeResult(data string) (map[string]json.RawMessage, error) {
	var out map[string]json.RawMessage
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, fmt.Errorf("decoding generation result: %w", err)
	}
	return out, nil
}
