package tasklist

import (
	"context"
	"slices"

	"tasklist/internal/reconcile"
	"tasklist/internal/task"
)

// EditTarget is what the add/edit form receives when editing: the stored
// entry and where it sits in the collection.
type EditTarget struct {
	Entry task.Entry
	Index int
}

// BeginEdit resolves the task at viewIndex for editing.
func (l *List) BeginEdit(ctx context.Context, viewIndex int) (EditTarget, error) {
	i, err := l.resolve(ctx, viewIndex)
	if err != nil {
		return EditTarget{}, err
	}
	return EditTarget{Entry: l.tasks[i], Index: i}, nil
}

// Save is the add/edit form's submit. With a nil target the task is
// appended; otherwise it overwrites the target in place. The collection is
// read fresh from the store, written back, and then the list is refreshed.
func (l *List) Save(ctx context.Context, in task.Input, target *EditTarget) (task.Task, error) {
	var original *task.Entry
	if target != nil {
		original = &target.Entry
	}
	t, err := task.Create(in, original, l.now())
	if err != nil {
		return task.Task{}, err
	}

	stored, err := l.load(ctx)
	if err != nil {
		return task.Task{}, err
	}
	if target == nil {
		stored = append(stored, task.Record(t))
	} else {
		i, err := locate(stored, *target)
		if err != nil {
			l.log.Printf("warning: edit target %q: %v; reloading", target.Entry.Text(), err)
			if rerr := l.Refresh(ctx); rerr != nil {
				return task.Task{}, rerr
			}
			return task.Task{}, err
		}
		stored[i] = task.Record(t)
	}

	data, err := task.Encode(stored)
	if err != nil {
		return task.Task{}, &StorageError{Op: "save", Err: err}
	}
	if err := l.store.Set(ctx, StorageKey, data); err != nil {
		l.log.Printf("save failed: %v", err)
		return task.Task{}, &StorageError{Op: "save", Err: err}
	}
	if err := l.Refresh(ctx); err != nil {
		return t, err
	}
	return t, nil
}

// locate trusts the recorded index when the entry is still there and
// falls back to an identity search when the collection has shifted.
func locate(stored []task.Entry, target EditTarget) (int, error) {
	if target.Index >= 0 && target.Index < len(stored) && reconcile.Same(stored[target.Index], target.Entry) {
		return target.Index, nil
	}
	i := slices.IndexFunc(stored, func(e task.Entry) bool {
		return reconcile.Same(e, target.Entry)
	})
	if i < 0 {
		return -1, ErrNotFound
	}
	return i, nil
}
