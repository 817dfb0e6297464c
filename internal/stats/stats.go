// Package stats summarises a task collection for the statistics view.
package stats

import (
	"time"

	"tasklist/internal/task"
)

type CategoryCount struct {
	Name  string
	Count int
}

type PriorityCounts struct {
	High   int
	Normal int
	Low    int
	None   int
}

// Weekdays labels the Weekly buckets.
var Weekdays = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

type Summary struct {
	Total          int
	Completed      int
	Active         int
	CompletionRate float64

	// Categories is in order of first appearance.
	Categories []CategoryCount
	Priorities PriorityCounts

	// Weekly counts tasks created on each day, Monday first, of the week
	// containing the reference time.
	Weekly [7]int
}

func Compute(entries []task.Entry, now time.Time) Summary {
	s := Summary{Total: len(entries)}
	weekStart := startOfWeek(now)
	weekEnd := weekStart.AddDate(0, 0, 7)
	categoryIndex := map[string]int{}

	for _, e := range entries {
		if e.Completed() {
			s.Completed++
		} else {
			s.Active++
		}

		if e.IsLegacy() {
			s.Priorities.None++
			continue
		}
		t := e.Task()

		switch t.Priority {
		case task.PriorityHigh:
			s.Priorities.High++
		case task.PriorityNormal:
			s.Priorities.Normal++
		case task.PriorityLow:
			s.Priorities.Low++
		default:
			s.Priorities.None++
		}

		if t.Category != "" {
			if i, ok := categoryIndex[t.Category]; ok {
				s.Categories[i].Count++
			} else {
				categoryIndex[t.Category] = len(s.Categories)
				s.Categories = append(s.Categories, CategoryCount{Name: t.Category, Count: 1})
			}
		}

		if created, ok := t.Created(); ok && !created.Before(weekStart) && created.Before(weekEnd) {
			s.Weekly[weekdayIndex(created.In(now.Location()))]++
		}
	}

	if s.Total > 0 {
		s.CompletionRate = float64(s.Completed) / float64(s.Total)
	}
	return s
}

// weekdayIndex numbers calendar days from Monday (0) to Sunday (6).
func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// startOfWeek returns local midnight of the Monday on or before now.
func startOfWeek(now time.Time) time.Time {
	offset := weekdayIndex(now)
	y, m, d := now.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, now.Location())
}
