package task

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrEmptyText is returned when a task has no text.
	ErrEmptyText = errors.New("please enter a task")

	// ErrInvalidPriority is returned for priorities other than low, normal and high.
	ErrInvalidPriority = errors.New("priority must be low, normal or high")
)

// ValidationError reports a rejected form field.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Input is what the add/edit form collects.
type Input struct {
	Text     string
	Priority Priority
	Category string
	DueDate  string
	Notes    string
}

// InputFrom prefills a form from an existing entry.
func InputFrom(e Entry) Input {
	t := e.Task()
	return Input{
		Text:     t.Text,
		Priority: t.Priority,
		Category: t.Category,
		DueDate:  t.DueDate,
		Notes:    t.Notes,
	}
}

var newID = uuid.NewString

// Create builds the record saved by the add/edit form. original is nil when
// adding; when editing it is the entry being replaced, whose id, creation
// time and completion state carry over.
func Create(in Input, original *Entry, now time.Time) (Task, error) {
	if strings.TrimSpace(in.Text) == "" {
		return Task{}, &ValidationError{Field: "text", Err: ErrEmptyText}
	}
	priority := in.Priority
	if priority == "" {
		priority = PriorityNormal
	}
	if !priority.IsValid() {
		return Task{}, &ValidationError{Field: "priority", Err: fmt.Errorf("%w: got %q", ErrInvalidPriority, in.Priority)}
	}

	t := Task{
		Text:     in.Text,
		Priority: priority,
		Category: in.Category,
		DueDate:  in.DueDate,
		Notes:    in.Notes,
	}
	if original != nil {
		prev := original.Task()
		t.ID = prev.ID
		t.CreatedAt = prev.CreatedAt
		t.Completed = original.Completed()
	}
	if t.ID == "" {
		t.ID = newID()
	}
	if t.CreatedAt == "" {
		t.CreatedAt = FormatCreatedAt(now)
	}
	return t, nil
}
