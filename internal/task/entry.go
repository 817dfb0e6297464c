package task

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrMalformed is returned when a stored element is neither a string nor an
// object.
var ErrMalformed = errors.New("malformed task entry")

// Entry is one element of the stored collection: either a legacy bare
// string or a Task record.
type Entry struct {
	legacy bool
	rec    Task
}

// Legacy wraps a bare-string task.
func Legacy(text string) Entry {
	return Entry{legacy: true, rec: Task{Text: text}}
}

// Record wraps a structured task.
func Record(t Task) Entry {
	return Entry{rec: t}
}

func (e Entry) IsLegacy() bool {
	return e.legacy
}

// Task returns the normalised record. For a legacy entry that is
// Task{Text: s} with every optional field absent.
func (e Entry) Task() Task {
	return e.rec
}

func (e Entry) Text() string {
	return e.rec.Text
}

func (e Entry) Completed() bool {
	return !e.legacy && e.rec.Completed
}

// Normalize decodes one stored element.
func Normalize(raw json.RawMessage) (Entry, error) {
	var e Entry
	if err := e.UnmarshalJSON(raw); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (e Entry) MarshalJSON() ([]byte, error) {
	if e.legacy {
		return json.Marshal(e.rec.Text)
	}
	return json.Marshal(e.rec)
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: empty", ErrMalformed)
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		*e = Legacy(s)
		return nil
	case '{':
		var t Task
		if err := json.Unmarshal(trimmed, &t); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		*e = Record(t)
		return nil
	default:
		return fmt.Errorf("%w: %.20s", ErrMalformed, trimmed)
	}
}

// MarshalYAML mirrors the JSON shape: a legacy entry is a bare string.
func (e Entry) MarshalYAML() (any, error) {
	if e.legacy {
		return e.rec.Text, nil
	}
	return e.rec, nil
}

func (e *Entry) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.ShortTag() != "!!str" {
			return fmt.Errorf("%w: %s on line %d", ErrMalformed, value.ShortTag(), value.Line)
		}
		*e = Legacy(value.Value)
		return nil
	case yaml.MappingNode:
		var t Task
		if err := value.Decode(&t); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		*e = Record(t)
		return nil
	default:
		return fmt.Errorf("%w: line %d", ErrMalformed, value.Line)
	}
}
