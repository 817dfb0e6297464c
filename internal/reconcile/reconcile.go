// Package reconcile derives the filtered, sorted view of a task collection
// and maps a position in that view back to the collection.
//
// Mutations are requested as "the nth task on screen", so every one of
// them goes through Resolve before touching the collection.
package reconcile

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"tasklist/internal/task"
)

// ErrNotFound is returned when a viewed task no longer exists in the
// collection, usually because the collection changed after the view was
// derived.
var ErrNotFound = errors.New("task not found")

type Status string

const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

type SortKey string

const (
	SortDate     SortKey = "date"
	SortPriority SortKey = "priority"
)

// Statuses lists the status filters in the order the UI cycles them.
func Statuses() []Status {
	return []Status{StatusAll, StatusActive, StatusCompleted}
}

func SortKeys() []SortKey {
	return []SortKey{SortDate, SortPriority}
}

// ParseStatus validates a status filter name. Empty means all.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if st == "" {
		return StatusAll, nil
	}
	if slices.Contains(Statuses(), st) {
		return st, nil
	}
	return "", fmt.Errorf("invalid status filter %q (want all, active or completed)", s)
}

// ParseSort validates a sort key name. Empty means date.
func ParseSort(s string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if k == "" {
		return SortDate, nil
	}
	if slices.Contains(SortKeys(), k) {
		return k, nil
	}
	return "", fmt.Errorf("invalid sort key %q (want date or priority)", s)
}

// Next returns the status filter after s, wrapping around.
func (s Status) Next() Status {
	all := Statuses()
	i := slices.Index(all, s)
	return all[(i+1)%len(all)]
}

func (k SortKey) Next() SortKey {
	all := SortKeys()
	i := slices.Index(all, k)
	return all[(i+1)%len(all)]
}

type Query struct {
	Search string
	Status Status
	Sort   SortKey
}

// Derive returns the view of canonical selected by q. canonical is not
// modified.
func Derive(canonical []task.Entry, q Query) []task.Entry {
	view := make([]task.Entry, 0, len(canonical))
	needle := strings.ToLower(q.Search)
	for _, e := range canonical {
		if needle != "" && !strings.Contains(strings.ToLower(e.Text()), needle) {
			continue
		}
		switch q.Status {
		case StatusActive:
			if e.Completed() {
				continue
			}
		case StatusCompleted:
			if !e.Completed() {
				continue
			}
		}
		view = append(view, e)
	}

	switch q.Sort {
	case SortPriority:
		slices.SortStableFunc(view, byPriority)
	case SortDate, "":
		slices.SortStableFunc(view, byNewest)
	}
	return view
}

func byPriority(a, b task.Entry) int {
	return a.Task().Priority.Rank() - b.Task().Priority.Rank()
}

// byNewest puts later creation times first. Tasks whose creation time is
// missing or unreadable go last. Ties keep their filtered order.
func byNewest(a, b task.Entry) int {
	at, aok := a.Task().Created()
	bt, bok := b.Task().Created()
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return 1
	case !bok:
		return -1
	}
	return bt.Compare(at)
}

// Same reports whether a and b denote the same task. Records carrying ids
// compare by id; older records compare by text and creation time; legacy
// strings compare by value and never equal a record.
func Same(a, b task.Entry) bool {
	if a.IsLegacy() || b.IsLegacy() {
		return a.IsLegacy() && b.IsLegacy() && a.Text() == b.Text()
	}
	at, bt := a.Task(), b.Task()
	if at.ID != "" && bt.ID != "" {
		return at.ID == bt.ID
	}
	return at.Text == bt.Text && at.CreatedAt == bt.CreatedAt
}

// Resolve returns the index in canonical of the task shown at viewIndex.
func Resolve(canonical, viewed []task.Entry, viewIndex int) (int, error) {
	if viewIndex < 0 || viewIndex >= len(viewed) {
		return -1, fmt.Errorf("%w: no task at position %d", ErrNotFound, viewIndex+1)
	}
	target := viewed[viewIndex]
	i := slices.IndexFunc(canonical, func(e task.Entry) bool {
		return Same(e, target)
	})
	if i < 0 {
		return -1, fmt.Errorf("%w: %q", ErrNotFound, target.Text())
	}
	return i, nil
}
