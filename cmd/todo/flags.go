package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"tasklist/internal/config"
	"tasklist/internal/reconcile"
	"tasklist/internal/task"
)

// queryOptions selects the view that positional task numbers refer to.
type queryOptions struct {
	search string
	status string
	sort   string
}

func (o *queryOptions) flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("query", pflag.ContinueOnError)
	fs.StringVarP(&o.search, "search", "q", "", "Only tasks whose text contains this (case-insensitive)")
	fs.StringVarP(&o.status, "status", "s", "", "Status filter: all, active or completed (default from config)")
	fs.StringVar(&o.sort, "sort", "", "Sort order: date or priority (default from config)")
	return fs
}

// query layers the flags over the configured defaults.
func (o *queryOptions) query(cfg config.Config) (reconcile.Query, error) {
	q, err := defaultQuery(cfg)
	if err != nil || o == nil {
		return q, err
	}
	q.Search = o.search
	if o.status != "" {
		if q.Status, err = reconcile.ParseStatus(o.status); err != nil {
			return reconcile.Query{}, err
		}
	}
	if o.sort != "" {
		if q.Sort, err = reconcile.ParseSort(o.sort); err != nil {
			return reconcile.Query{}, err
		}
	}
	return q, nil
}

// inputOptions carries the optional task fields for add and edit.
type inputOptions struct {
	priority string
	category string
	due      string
	notes    string
}

func (o *inputOptions) flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("input", pflag.ContinueOnError)
	fs.StringVarP(&o.priority, "priority", "p", "", "Priority: "+priorityNames()+" (default normal)")
	fs.StringVarP(&o.category, "category", "c", "", "Category ("+strings.Join(task.Categories(), ", ")+", or any text)")
	fs.StringVar(&o.due, "due", "", "Due date as YYYY-MM-DD")
	fs.StringVar(&o.notes, "notes", "", "Free-form notes")
	return fs
}

// apply overlays the flags that were set on in.
func (o *inputOptions) apply(fs *pflag.FlagSet, in task.Input) (task.Input, error) {
	if fs.Changed("priority") {
		in.Priority = task.Priority(strings.ToLower(strings.TrimSpace(o.priority)))
	}
	if fs.Changed("category") {
		in.Category = strings.TrimSpace(o.category)
	}
	if fs.Changed("due") {
		due, err := task.ParseDueDate(o.due)
		if err != nil {
			return task.Input{}, fmt.Errorf("due date: %w", err)
		}
		in.DueDate = due
	}
	if fs.Changed("notes") {
		in.Notes = o.notes
	}
	return in, nil
}

func priorityNames() string {
	names := make([]string, 0, len(task.Priorities()))
	for _, p := range task.Priorities() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

// parsePosition turns a 1-based task number into a view index.
func parsePosition(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid task number %q", arg)
	}
	return n - 1, nil
}
