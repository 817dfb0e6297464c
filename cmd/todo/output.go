package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"tasklist/internal/reconcile"
	"tasklist/internal/stats"
	"tasklist/internal/task"
	"tasklist/internal/tasklist"
)

const notesWidth = 72

var (
	doneColor  = color.New(color.FgGreen)
	faintColor = color.New(color.Faint)
	boldColor  = color.New(color.Bold)

	priorityColors = map[task.Priority]*color.Color{
		task.PriorityHigh:   color.New(color.FgRed),
		task.PriorityNormal: color.New(color.FgYellow),
		task.PriorityLow:    color.New(color.FgGreen),
	}
)

// entryAt returns the viewed task at idx, naming the user's argument when it
// is out of range.
func entryAt(s *session, idx int, arg string) (task.Entry, error) {
	view := s.list.View()
	if idx >= len(view) {
		return task.Entry{}, positionError(arg, tasklist.ErrNotFound)
	}
	return view[idx], nil
}

func positionError(arg string, err error) error {
	if errors.Is(err, tasklist.ErrNotFound) {
		return fmt.Errorf("task %s: %w (run list to see current numbers)", arg, err)
	}
	return err
}

func emptyMessage(q reconcile.Query) string {
	switch {
	case q.Search != "":
		return "No tasks match your search"
	case q.Status == reconcile.StatusCompleted:
		return "No completed tasks yet"
	default:
		return "No tasks yet"
	}
}

func printView(w io.Writer, view []task.Entry, long bool) {
	for i, e := range view {
		box := "[ ]"
		if e.Completed() {
			box = doneColor.Sprint("[x]")
		}
		fmt.Fprintf(w, "%d. %s %s%s\n", i+1, box, e.Text(), badges(e))
		if long {
			printDetail(w, e)
		}
	}
}

func badges(e task.Entry) string {
	if e.IsLegacy() {
		return ""
	}
	t := e.Task()
	var parts []string
	if t.Priority != "" {
		c, ok := priorityColors[t.Priority]
		if !ok {
			c = faintColor
		}
		parts = append(parts, c.Sprint(string(t.Priority)))
	}
	if t.Category != "" {
		parts = append(parts, faintColor.Sprint("#"+t.Category))
	}
	if t.DueDate != "" {
		parts = append(parts, faintColor.Sprint("due "+t.DueDate))
	}
	if len(parts) == 0 {
		return ""
	}
	return "  " + strings.Join(parts, " ")
}

func printDetail(w io.Writer, e task.Entry) {
	t := e.Task()
	if e.IsLegacy() {
		fmt.Fprintln(w, faintColor.Sprint("     legacy plain-text task"))
		return
	}
	if t.CreatedAt != "" {
		fmt.Fprintf(w, "     %s %s\n", faintColor.Sprint("created"), t.CreatedAt)
	}
	if t.Notes != "" {
		fmt.Fprintln(w, indent.String(wordwrap.String(t.Notes, notesWidth), 5))
	}
}

func printStats(w io.Writer, s stats.Summary) {
	boldColor.Fprintln(w, "Overview")
	fmt.Fprintf(w, "  total %d, completed %d, active %d, %.0f%% done\n",
		s.Total, s.Completed, s.Active, s.CompletionRate*100)

	boldColor.Fprintln(w, "By priority")
	fmt.Fprintf(w, "  %s %d\n", priorityColors[task.PriorityHigh].Sprint("high  "), s.Priorities.High)
	fmt.Fprintf(w, "  %s %d\n", priorityColors[task.PriorityNormal].Sprint("normal"), s.Priorities.Normal)
	fmt.Fprintf(w, "  %s %d\n", priorityColors[task.PriorityLow].Sprint("low   "), s.Priorities.Low)
	fmt.Fprintf(w, "  %s %d\n", faintColor.Sprint("none  "), s.Priorities.None)

	boldColor.Fprintln(w, "By category")
	if len(s.Categories) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for _, c := range s.Categories {
		fmt.Fprintf(w, "  %s: %d\n", c.Name, c.Count)
	}

	boldColor.Fprintln(w, "Created this week")
	for i, day := range stats.Weekdays {
		fmt.Fprintf(w, "  %s %d\n", day, s.Weekly[i])
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
