// Package audit records the change history of saved lessons.
package audit

import "time"

// Action describes what was done to a lesson.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Entry is a single history record.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Owner     string    `json:"owner"`
	LessonID  string    `json:"lessonId"`
	Action    Action    `json:"action"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary,omitempty"`

	// Sections lists the pillars whose content or displayed variant
	// changed.
	Sections []string `json:"sections,omitempty"`
}

// HistoryResponse is returned by the lesson history endpoint.
type HistoryResponse struct {
	Success bool    `json:"success"`
	Entries []Entry `json:"entries"`
	Error   string  `json:"error,omitempty"`
}
