package entity

import (
	"errors"
	"strings"
	"time"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Valid reports whether s is a known status. Any status may follow any
// other; there is no server-side workflow.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// TimePrecision is the resolution timestamps are stored at. Postgres
// timestamptz keeps microseconds.
const TimePrecision = time.Microsecond

const (
	MaxTaskTitleLen       = 200
	MaxTaskDescriptionLen = 1000
)

// Task is a unit of work owned by exactly one user. UserID is set at
// creation and never changes.
type Task struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskFilter narrows a listing of one owner's tasks. Empty fields do not
// filter. Search is a literal, case-insensitive substring matched against
// the title or the description.
type TaskFilter struct {
	Status   TaskStatus
	Priority TaskPriority
	Search   string
}

// TaskPatch is a partial task update. A nil field is left unchanged.
// A non-nil DueDate pointing at a nil time clears the due date.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
	DueDate     **time.Time
}

// Apply writes the present fields onto t. Owner and id are untouched.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
}

var ErrInvalidDueDate = errors.New("due date must be an RFC 3339 timestamp or YYYY-MM-DD")

// ParseDueDate accepts an RFC 3339 timestamp or a calendar date. An empty
// string means no due date.
func ParseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC().Truncate(TimePrecision)
			return &t, nil
		}
	}
	return nil, ErrInvalidDueDate
}
