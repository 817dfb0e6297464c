package task

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Decode parses a stored collection. An empty document is an empty
// collection.
func Decode(data string) ([]Entry, error) {
	if strings.TrimSpace(data) == "" {
		return []Entry{}, nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	entries := make([]Entry, 0, len(raw))
	for i, r := range raw {
		e, err := Normalize(r)
		if err != nil {
			return nil, fmt.Errorf("decode tasks: element %d: %w", i, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Encode serialises the collection in stored order.
func Encode(entries []Entry) (string, error) {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("encode tasks: %w", err)
	}
	return string(data), nil
}

// DecodeYAML parses a collection written as a YAML list, with the same
// element rules as Decode: each item is a string or a mapping.
func DecodeYAML(data []byte) ([]Entry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	if len(doc.Content) == 0 {
		return []Entry{}, nil
	}
	root := doc.Content[0]
	if root.ShortTag() == "!!null" {
		return []Entry{}, nil
	}
	if root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("decode tasks: %w: want a list (line %d)", ErrMalformed, root.Line)
	}
	entries := make([]Entry, 0, len(root.Content))
	for i, n := range root.Content {
		// null items never reach UnmarshalYAML
		if n.ShortTag() == "!!null" {
			return nil, fmt.Errorf("decode tasks: element %d: %w: null", i, ErrMalformed)
		}
		var e Entry
		if err := n.Decode(&e); err != nil {
			return nil, fmt.Errorf("decode tasks: element %d: %w", i, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// CheckText rejects a collection containing a task with blank text.
func CheckText(entries []Entry) error {
	for i, e := range entries {
		if strings.TrimSpace(e.Text()) == "" {
			return fmt.Errorf("element %d: %w", i, &ValidationError{Field: "text", Err: ErrEmptyText})
		}
	}
	return nil
}
