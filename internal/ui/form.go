package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"tasklist/internal/reconcile"
	"tasklist/internal/task"
	"tasklist/internal/tasklist"
)

const (
	fieldText = iota
	fieldPriority
	fieldCategory
	fieldDue
	fieldNotes
	fieldCount
)

// formState backs the add/edit form. target is nil when adding.
type formState struct {
	target *tasklist.EditTarget
	values [fieldCount]string
	index  int
}

func formFields() []string {
	return []string{
		"task",
		"priority (" + priorityChoices() + ")",
		"category (" + strings.Join(task.Categories(), ", ") + ")",
		"due date (YYYY-MM-DD)",
		"notes",
	}
}

func priorityChoices() string {
	names := make([]string, 0, len(task.Priorities()))
	for _, p := range task.Priorities() {
		names = append(names, string(p))
	}
	return strings.Join(names, "/")
}

func newFormState(target *tasklist.EditTarget) *formState {
	fs := &formState{target: target}
	fs.values[fieldPriority] = string(task.PriorityNormal)
	if target == nil {
		return fs
	}
	in := task.InputFrom(target.Entry)
	fs.values[fieldText] = in.Text
	if in.Priority != "" {
		fs.values[fieldPriority] = string(in.Priority)
	}
	fs.values[fieldCategory] = in.Category
	fs.values[fieldDue] = task.DueForInput(in.DueDate)
	fs.values[fieldNotes] = in.Notes
	return fs
}

func (fs formState) currentLabel() string {
	return formFields()[fs.index]
}

func (fs formState) editing() bool {
	return fs.target != nil
}

// input converts the form into task.Input, rejecting unreadable dates.
func (fs formState) input() (task.Input, error) {
	due, err := task.ParseDueDate(fs.values[fieldDue])
	if err != nil {
		return task.Input{}, err
	}
	return task.Input{
		Text:     fs.values[fieldText],
		Priority: task.Priority(strings.ToLower(strings.TrimSpace(fs.values[fieldPriority]))),
		Category: strings.TrimSpace(fs.values[fieldCategory]),
		DueDate:  due,
		Notes:    fs.values[fieldNotes],
	}, nil
}

func (m Model) startForm(target *tasklist.EditTarget) (tea.Model, tea.Cmd) {
	m.form = newFormState(target)
	m.mode = modeForm
	m.input.SetValue(m.form.values[m.form.index])
	m.input.Placeholder = m.form.currentLabel()
	m.input.CursorEnd()
	m.input.Focus()
	if target != nil {
		m.status = "Edit task: tab to move, enter to advance/save, esc to cancel"
	} else {
		m.status = "New task: tab to move, enter to advance/save, esc to cancel"
	}
	return m, nil
}

func (m Model) updateFormMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.form = nil
		m.mode = modeList
		m.input.Blur()
		m.input.SetValue("")
		m.status = "Cancelled"
		m.reload()
		return m, nil
	case "tab", "down":
		m.moveField(1)
		return m, nil
	case "shift+tab", "up":
		m.moveField(-1)
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		m.form.values[m.form.index] = m.input.Value()
		if m.form.index >= fieldCount-1 {
			return m.saveForm()
		}
		m.moveField(1)
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) moveField(delta int) {
	m.form.values[m.form.index] = m.input.Value()
	m.form.index = wrapIndex(m.form.index+delta, fieldCount)
	m.input.SetValue(m.form.values[m.form.index])
	m.input.Placeholder = m.form.currentLabel()
	m.input.CursorEnd()
	m.status = fmt.Sprintf("Editing %s (field %d of %d)", m.form.currentLabel(), m.form.index+1, fieldCount)
}

func (m Model) saveForm() (tea.Model, tea.Cmd) {
	in, err := m.form.input()
	if err != nil {
		m.status = fmt.Sprintf("Due date invalid: %v", err)
		return m, nil
	}
	saved, err := m.list.Save(m.ctx, in, m.form.target)
	if err != nil {
		m.report("save task", err)
		return m, nil
	}
	verb := "Added"
	if m.form.editing() {
		verb = "Updated"
	}
	m.form = nil
	m.mode = modeList
	m.input.Blur()
	m.input.SetValue("")
	m.status = verb + " task"

	for i, e := range m.list.View() {
		if reconcile.Same(e, task.Record(saved)) {
			m.cursor = i
			return m, nil
		}
	}
	m.cursor = clampCursor(m.cursor, len(m.list.View()))
	return m, nil
}
