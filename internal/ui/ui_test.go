package ui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist/internal/config"
	"tasklist/internal/reconcile"
	"tasklist/internal/storage"
	"tasklist/internal/task"
	"tasklist/internal/tasklist"
)

func newTestModel(t *testing.T, stored string) (Model, *tasklist.List, *storage.Memory) {
	t.Helper()
	ctx := context.Background()
	mem := storage.NewMemory()
	if stored != "" {
		require.NoError(t, mem.Set(ctx, tasklist.StorageKey, stored))
	}
	list := tasklist.New(mem)
	require.NoError(t, list.Refresh(ctx))
	return New(ctx, list, config.Default()), list, mem
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func typeText(s string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(s))
	for _, r := range s {
		msgs = append(msgs, runes(string(r)))
	}
	return msgs
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	space = tea.KeyMsg{Type: tea.KeySpace}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
)

func TestToggleLegacyTask(t *testing.T) {
	m, list, _ := newTestModel(t, `["buy milk"]`)

	m = press(t, m, space)

	assert.Equal(t, "Toggled task", m.status)
	assert.Equal(t, []task.Entry{task.Record(task.Task{Text: "buy milk", Completed: true})}, list.Tasks())
	assert.Contains(t, m.View(), "[x]")
}

func TestAddTaskThroughForm(t *testing.T) {
	m, list, _ := newTestModel(t, `["x"]`)

	m = press(t, m, runes("a"))
	require.NotNil(t, m.form)
	m = press(t, m, typeText("walk dog")...)
	m = press(t, m, tab)
	m.input.SetValue("")
	m = press(t, m, typeText("high")...)
	m = press(t, m, enter)
	m = press(t, m, typeText("Health")...)
	m = press(t, m, enter)
	m = press(t, m, typeText("2024-06-01")...)
	m = press(t, m, enter, enter)

	assert.Nil(t, m.form)
	assert.Equal(t, "Added task", m.status)
	tasks := list.Tasks()
	require.Len(t, tasks, 2)
	got := tasks[1].Task()
	assert.Equal(t, "walk dog", got.Text)
	assert.Equal(t, task.PriorityHigh, got.Priority)
	assert.Equal(t, "Health", got.Category)
	assert.Equal(t, "Sat Jun 01 2024", got.DueDate)
	assert.Equal(t, "walk dog", list.View()[m.cursor].Text())
}

func TestAddRejectsEmptyText(t *testing.T) {
	m, list, _ := newTestModel(t, "")

	m = press(t, m, runes("a"), enter, enter, enter, enter, enter)

	require.NotNil(t, m.form, "form stays open")
	assert.Equal(t, "Please enter a task", m.status)
	assert.Empty(t, list.Tasks())
}

func TestAddRejectsBadDueDate(t *testing.T) {
	m, list, _ := newTestModel(t, "")

	m = press(t, m, runes("a"))
	m = press(t, m, typeText("x")...)
	m = press(t, m, enter, enter, enter)
	m = press(t, m, typeText("tomorrow")...)
	m = press(t, m, enter, enter)

	require.NotNil(t, m.form)
	assert.Contains(t, m.status, "Due date invalid")
	assert.Empty(t, list.Tasks())
}

func TestEditOverwritesInPlace(t *testing.T) {
	m, list, _ := newTestModel(t, `["first",{"id":"2","text":"second","completed":true,"createdAt":"2024-01-01T00:00:00.000Z"}]`)

	// default date sort puts the timestamped task first
	require.Equal(t, "second", list.View()[0].Text())
	m = press(t, m, runes("e"))
	require.NotNil(t, m.form)
	assert.Equal(t, "second", m.input.Value())

	m.input.SetValue("second, edited")
	m = press(t, m, enter, enter, enter, enter, enter)

	assert.Equal(t, "Updated task", m.status)
	tasks := list.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "second, edited", tasks[1].Text())
	assert.True(t, tasks[1].Completed())
	assert.Equal(t, "2", tasks[1].Task().ID)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	m, list, _ := newTestModel(t, `["x","y"]`)

	m = press(t, m, runes("d"), runes("n"))
	assert.Len(t, list.Tasks(), 2)
	assert.Equal(t, "Delete cancelled", m.status)

	m = press(t, m, runes("j"), runes("d"), runes("y"))
	assert.Equal(t, "Deleted task", m.status)
	assert.Equal(t, []task.Entry{task.Legacy("x")}, list.Tasks())
	assert.Equal(t, 0, m.cursor)
}

func TestSearchFiltersLive(t *testing.T) {
	m, list, _ := newTestModel(t, `["buy milk","walk dog","Milk the cow"]`)

	m = press(t, m, runes("/"))
	m = press(t, m, typeText("milk")...)
	assert.Equal(t, "milk", list.Query().Search)
	assert.Len(t, list.View(), 2)

	m = press(t, m, enter)
	assert.Equal(t, modeList, m.mode)
	assert.Len(t, list.View(), 2)

	m = press(t, m, runes("/"), esc)
	assert.Empty(t, list.Query().Search)
	assert.Len(t, list.View(), 3)
}

func TestFilterSortAndClear(t *testing.T) {
	m, list, _ := newTestModel(t, `["x",{"text":"y","completed":true,"priority":"low"},{"text":"z","priority":"high"}]`)

	m = press(t, m, runes("f"))
	assert.Equal(t, reconcile.StatusActive, list.Query().Status)
	m = press(t, m, runes("f"))
	assert.Equal(t, reconcile.StatusCompleted, list.Query().Status)
	assert.Len(t, list.View(), 1)

	m = press(t, m, runes("s"))
	assert.Equal(t, reconcile.SortPriority, list.Query().Sort)

	m = press(t, m, runes("C"))
	assert.Equal(t, "Cleared 1 completed task", m.status)
	assert.Len(t, list.Tasks(), 2)
	assert.Contains(t, m.View(), "No completed tasks yet")
}

func TestStatsView(t *testing.T) {
	m, _, _ := newTestModel(t, `["x",{"text":"y","completed":true,"category":"Work"}]`)

	m = press(t, m, runes("t"))
	assert.Equal(t, modeStats, m.mode)
	out := m.View()
	assert.Contains(t, out, "Task Statistics")
	assert.Contains(t, out, "Work")
	assert.Contains(t, out, "50% done")

	m = press(t, m, runes("x"))
	assert.Equal(t, modeList, m.mode)
}

func TestFocusReloads(t *testing.T) {
	m, list, mem := newTestModel(t, `["x"]`)
	require.NoError(t, mem.Set(context.Background(), tasklist.StorageKey, `["x","y"]`))

	m = press(t, m, tea.FocusMsg{})
	assert.Len(t, list.Tasks(), 2)
	assert.Contains(t, m.View(), "2 tasks left")
}

func TestPersistFailureIsReported(t *testing.T) {
	m, list, mem := newTestModel(t, `["x"]`)
	mem.FailWrites(assert.AnError)

	m = press(t, m, space)
	assert.Contains(t, m.status, "Failed to update task")
	assert.True(t, list.Tasks()[0].Completed(), "in-memory change is kept")
}

func TestDetailPanel(t *testing.T) {
	m, _, _ := newTestModel(t, `[{"text":"x","notes":"remember the receipts","createdAt":"2024-01-01T00:00:00.000Z"}]`)
	m = press(t, m, enter)
	assert.True(t, m.showDetail)
	assert.Contains(t, m.View(), "remember the receipts")
}

func TestDeleteFollowsConfirmedTaskAfterReload(t *testing.T) {
	m, list, mem := newTestModel(t, `["x","y"]`)

	m = press(t, m, runes("d"))
	require.True(t, m.confirmDel)

	// another writer inserts a task ahead of x while the prompt is open
	require.NoError(t, mem.Set(context.Background(), tasklist.StorageKey, `["new","x","y"]`))
	m = press(t, m, tea.FocusMsg{})
	require.Equal(t, "new", list.View()[0].Text())

	m = press(t, m, runes("y"))
	assert.Equal(t, "Deleted task", m.status)
	assert.Equal(t, []task.Entry{task.Legacy("new"), task.Legacy("y")}, list.Tasks())
}

func TestDeleteOfVanishedTaskDoesNothing(t *testing.T) {
	m, list, mem := newTestModel(t, `["x","y"]`)

	m = press(t, m, runes("d"))
	require.NoError(t, mem.Set(context.Background(), tasklist.StorageKey, `["y"]`))
	m = press(t, m, tea.FocusMsg{}, runes("y"))

	assert.Contains(t, m.status, "nothing deleted")
	assert.Equal(t, []task.Entry{task.Legacy("y")}, list.Tasks())
}

func TestFormListsFields(t *testing.T) {
	m, _, _ := newTestModel(t, "")
	m = press(t, m, runes("a"))

	out := m.View()
	assert.Contains(t, out, "New task")
	for _, name := range []string{"task", "priority", "category", "due", "notes"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, formFields()[fieldPriority], "high/normal/low")
}
