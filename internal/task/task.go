// Package task defines the persisted shape of a to-do item.
//
// A stored collection may mix two generations of data: bare strings written
// by the first version of the app, and structured records. Both are carried
// as an Entry so callers can tell them apart without inspecting JSON.
package task

import "time"

// Priority is the urgency of a task. The empty value means "not set".
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Priorities lists the selectable priorities, most urgent first.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityNormal, PriorityLow}
}

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return true
	default:
		return false
	}
}

// Rank orders priorities for sorting: high, normal, low, then unset.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityNormal:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Categories are the suggestions offered by the add/edit form. Any other
// string is accepted as well.
func Categories() []string {
	return []string{"Personal", "Work", "Shopping", "Health", "Other"}
}

const (
	// CreatedAtLayout matches the millisecond ISO-8601 stamps of earlier data.
	CreatedAtLayout = "2006-01-02T15:04:05.000Z"

	// DueDateLayout is the display form due dates are stored in.
	DueDateLayout = "Mon Jan 02 2006"
)

type Task struct {
	ID        string   `json:"id,omitempty" yaml:"id,omitempty"`
	Text      string   `json:"text" yaml:"text"`
	Completed bool     `json:"completed" yaml:"completed"`
	Priority  Priority `json:"priority,omitempty" yaml:"priority,omitempty"`
	Category  string   `json:"category,omitempty" yaml:"category,omitempty"`
	DueDate   string   `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	Notes     string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt string   `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
}

// Created parses CreatedAt. ok is false when it is absent or malformed.
func (t Task) Created() (time.Time, bool) {
	if t.CreatedAt == "" {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339Nano, t.CreatedAt)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// FormatCreatedAt renders now the way CreatedAt is stored.
func FormatCreatedAt(now time.Time) string {
	return now.UTC().Format(CreatedAtLayout)
}
