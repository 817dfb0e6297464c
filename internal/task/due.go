package task

import (
	"fmt"
	"strings"
	"time"
)

// DueInputLayout is the form users type due dates in.
const DueInputLayout = "2006-01-02"

// ParseDueDate accepts YYYY-MM-DD or the stored display form and returns the
// stored form. Blank input means no due date.
func ParseDueDate(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", nil
	}
	if t, err := time.Parse(DueInputLayout, v); err == nil {
		return t.Format(DueDateLayout), nil
	}
	if t, err := time.Parse(DueDateLayout, v); err == nil {
		return t.Format(DueDateLayout), nil
	}
	return "", fmt.Errorf("%q is not YYYY-MM-DD", v)
}

// DueForInput converts a stored due date back to YYYY-MM-DD. Values that do
// not parse are returned unchanged.
func DueForInput(stored string) string {
	if stored == "" {
		return ""
	}
	if t, err := time.Parse(DueDateLayout, stored); err == nil {
		return t.Format(DueInputLayout)
	}
	return stored
}
