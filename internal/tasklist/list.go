// Package tasklist owns the in-memory task collection, the query the user
// is looking at, and the view derived from it. Every mutation resolves a
// view position, applies the change, and writes the whole collection back
// to the store.
//
// A List has a single owner: the UI event loop or one CLI invocation.
// It does no locking of its own.
package tasklist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"slices"
	"time"

	"tasklist/internal/reconcile"
	"tasklist/internal/task"
)

// StorageKey is the key the collection is stored under.
const StorageKey = "tasks"

// Store is the persistent key-value collaborator.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// ErrNotFound is reconcile.ErrNotFound, re-exported for callers that only
// deal with lists.
var ErrNotFound = reconcile.ErrNotFound

// StorageError reports a failed read or write of the collection. After a
// failed write the in-memory list still holds the change.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to %s tasks: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

type List struct {
	store Store
	log   *log.Logger
	now   func() time.Time

	tasks []task.Entry
	query reconcile.Query
	view  []task.Entry
}

type Option func(*List)

func WithLogger(l *log.Logger) Option {
	return func(list *List) {
		if l != nil {
			list.log = l
		}
	}
}

// WithClock replaces time.Now for stamping new tasks.
func WithClock(now func() time.Time) Option {
	return func(list *List) {
		if now != nil {
			list.now = now
		}
	}
}

func WithQuery(q reconcile.Query) Option {
	return func(list *List) {
		list.query = q
	}
}

// New returns an empty list backed by store. Call Refresh to load it.
func New(store Store, opts ...Option) *List {
	l := &List{
		store: store,
		log:   log.New(io.Discard, "", 0),
		now:   time.Now,
		query: reconcile.Query{Status: reconcile.StatusAll, Sort: reconcile.SortDate},
	}
	for _, opt := range opts {
		opt(l)
	}
	l.view = []task.Entry{}
	return l
}

// Refresh reloads the collection from the store and re-derives the view.
// On failure the previous contents are kept.
func (l *List) Refresh(ctx context.Context) error {
	entries, err := l.load(ctx)
	if err != nil {
		return err
	}
	l.tasks = entries
	l.derive()
	l.log.Printf("loaded %d tasks", len(entries))
	return nil
}

func (l *List) load(ctx context.Context) ([]task.Entry, error) {
	raw, ok, err := l.store.Get(ctx, StorageKey)
	if err != nil {
		return nil, &StorageError{Op: "load", Err: err}
	}
	if !ok {
		return []task.Entry{}, nil
	}
	entries, err := task.Decode(raw)
	if err != nil {
		return nil, &StorageError{Op: "load", Err: err}
	}
	return entries, nil
}

func (l *List) persist(ctx context.Context, op string) error {
	data, err := task.Encode(l.tasks)
	if err != nil {
		return &StorageError{Op: op, Err: err}
	}
	if err := l.store.Set(ctx, StorageKey, data); err != nil {
		l.log.Printf("persist after %s failed: %v", op, err)
		return &StorageError{Op: op, Err: err}
	}
	return nil
}

func (l *List) derive() {
	l.view = reconcile.Derive(l.tasks, l.query)
}

func (l *List) Query() reconcile.Query {
	return l.query
}

// SetQuery changes the search, filter or sort and re-derives the view.
func (l *List) SetQuery(q reconcile.Query) {
	l.query = q
	l.derive()
}

// View returns the tasks as currently shown, in display order.
func (l *List) View() []task.Entry {
	return slices.Clone(l.view)
}

// Tasks returns the canonical collection in stored order.
func (l *List) Tasks() []task.Entry {
	return slices.Clone(l.tasks)
}

// Remaining counts tasks not yet completed.
func (l *List) Remaining() int {
	n := 0
	for _, e := range l.tasks {
		if !e.Completed() {
			n++
		}
	}
	return n
}

// resolve maps a view position to the collection. A miss means the view is
// stale, so the list is reloaded before the error is returned.
func (l *List) resolve(ctx context.Context, viewIndex int) (int, error) {
	i, err := reconcile.Resolve(l.tasks, l.view, viewIndex)
	if err == nil {
		return i, nil
	}
	l.log.Printf("warning: %v; reloading", err)
	if rerr := l.Refresh(ctx); rerr != nil {
		return -1, errors.Join(err, rerr)
	}
	return -1, err
}

// Toggle flips completion of the task at viewIndex. A legacy task becomes a
// completed record; it cannot be toggled back to a legacy string.
func (l *List) Toggle(ctx context.Context, viewIndex int) error {
	i, err := l.resolve(ctx, viewIndex)
	if err != nil {
		return err
	}
	e := l.tasks[i]
	if e.IsLegacy() {
		l.tasks[i] = task.Record(task.Task{Text: e.Text(), Completed: true})
	} else {
		t := e.Task()
		t.Completed = !t.Completed
		l.tasks[i] = task.Record(t)
	}
	l.derive()
	return l.persist(ctx, "update")
}

func (l *List) Delete(ctx context.Context, viewIndex int) error {
	i, err := l.resolve(ctx, viewIndex)
	if err != nil {
		return err
	}
	l.tasks = slices.Delete(l.tasks, i, i+1)
	l.derive()
	return l.persist(ctx, "delete")
}

// ClearCompleted removes completed records and returns how many were
// removed. Legacy strings are never removed.
func (l *List) ClearCompleted(ctx context.Context) (int, error) {
	before := len(l.tasks)
	l.tasks = slices.DeleteFunc(l.tasks, func(e task.Entry) bool {
		return !e.IsLegacy() && e.Task().Completed
	})
	removed := before - len(l.tasks)
	l.derive()
	return removed, l.persist(ctx, "clear completed")
}

// Replace swaps in a whole new collection, as an import does. A collection
// with a blank task is rejected and the list is left alone.
func (l *List) Replace(ctx context.Context, entries []task.Entry) error {
	if err := task.CheckText(entries); err != nil {
		return err
	}
	l.tasks = slices.Clone(entries)
	if l.tasks == nil {
		l.tasks = []task.Entry{}
	}
	l.derive()
	return l.persist(ctx, "import")
}
