package ui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tasklist/internal/config"
	"tasklist/internal/reconcile"
	"tasklist/internal/stats"
	"tasklist/internal/task"
	"tasklist/internal/tasklist"
)

type mode int

const (
	modeList mode = iota
	modeSearch
	modeForm
	modeStats
)

type Model struct {
	ctx        context.Context
	list       *tasklist.List
	cfg        config.Config
	now        func() time.Time
	cursor     int
	mode       mode
	input      textinput.Model
	status     string
	confirmDel bool
	pendingDel task.Entry
	showDetail bool
	form       *formState
	summary    stats.Summary
	width      int
}

// New builds the model around an already loaded list.
func New(ctx context.Context, list *tasklist.List, cfg config.Config) Model {
	ti := textinput.New()
	ti.Placeholder = "Search tasks..."
	ti.CharLimit = 256
	ti.Width = 40

	return Model{
		ctx:    ctx,
		list:   list,
		cfg:    cfg,
		now:    time.Now,
		cursor: clampCursor(0, len(list.View())),
		status: "Press 'a' to add, space to toggle, 'd' to delete.",
		input:  ti,
		mode:   modeList,
		width:  80,
	}
}

func Run(ctx context.Context, list *tasklist.List, cfg config.Config) error {
	if err := list.Refresh(ctx); err != nil {
		return err
	}
	program := tea.NewProgram(New(ctx, list, cfg), tea.WithContext(ctx), tea.WithReportFocus())
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case m.form != nil:
			return m.updateFormMode(msg.String(), msg)
		case m.confirmDel:
			return m.updateDeleteConfirm(msg.String())
		case m.mode == modeSearch:
			return m.updateSearchMode(msg.String(), msg)
		case m.mode == modeStats:
			return m.updateStatsMode(msg.String())
		}
		return m.updateListMode(msg.String())
	case tea.FocusMsg:
		m.reload()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

// reload re-reads the list from storage, as when the screen regains focus.
func (m *Model) reload() {
	if err := m.list.Refresh(m.ctx); err != nil {
		m.status = fmt.Sprintf("reload failed: %v", err)
		return
	}
	m.cursor = clampCursor(m.cursor, len(m.list.View()))
}

// report turns a list error into a status line.
func (m *Model) report(action string, err error) {
	var verr *task.ValidationError
	switch {
	case errors.As(err, &verr):
		m.status = capitalize(verr.Err.Error())
	case errors.Is(err, tasklist.ErrNotFound):
		m.status = "That task changed on disk; the list was reloaded. Try again."
	default:
		m.status = fmt.Sprintf("Failed to %s: %v", action, err)
	}
	m.cursor = clampCursor(m.cursor, len(m.list.View()))
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	n := len(m.list.View())
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		if n == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, n)
	case m.cfg.Keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, n)
		}
	case m.cfg.Keys.Add:
		return m.startForm(nil)
	case m.cfg.Keys.Edit:
		if n == 0 {
			m.status = "No tasks to edit"
			return m, nil
		}
		target, err := m.list.BeginEdit(m.ctx, m.cursor)
		if err != nil {
			m.report("edit task", err)
			return m, nil
		}
		return m.startForm(&target)
	case m.cfg.Keys.Toggle:
		if n == 0 {
			return m, nil
		}
		if err := m.list.Toggle(m.ctx, m.cursor); err != nil {
			m.report("update task", err)
			return m, nil
		}
		m.cursor = clampCursor(m.cursor, len(m.list.View()))
		m.status = "Toggled task"
	case m.cfg.Keys.Delete:
		if n == 0 {
			return m, nil
		}
		m.confirmDel = true
		m.pendingDel = m.list.View()[m.cursor]
		m.status = fmt.Sprintf("Delete %q? y/n", m.pendingDel.Text())
	case m.cfg.Keys.Detail:
		if n == 0 {
			m.status = "No tasks"
			return m, nil
		}
		m.showDetail = !m.showDetail
	case m.cfg.Keys.Search:
		m.mode = modeSearch
		m.input.Placeholder = "Search tasks..."
		m.input.SetValue(m.list.Query().Search)
		m.input.CursorEnd()
		m.input.Focus()
		m.status = "Type to search, enter to keep, esc to clear"
	case m.cfg.Keys.Filter:
		q := m.list.Query()
		q.Status = q.Status.Next()
		m.list.SetQuery(q)
		m.cursor = clampCursor(m.cursor, len(m.list.View()))
		m.status = "Showing " + string(q.Status) + " tasks"
	case m.cfg.Keys.Sort:
		q := m.list.Query()
		q.Sort = q.Sort.Next()
		m.list.SetQuery(q)
		m.cursor = clampCursor(m.cursor, len(m.list.View()))
		m.status = "Sorted by " + string(q.Sort)
	case m.cfg.Keys.ClearCompleted:
		removed, err := m.list.ClearCompleted(m.ctx)
		if err != nil {
			m.report("clear completed tasks", err)
			return m, nil
		}
		m.cursor = clampCursor(m.cursor, len(m.list.View()))
		m.status = fmt.Sprintf("Cleared %d completed %s", removed, plural(removed, "task", "tasks"))
	case m.cfg.Keys.Stats:
		m.summary = stats.Compute(m.list.Tasks(), m.now())
		m.mode = modeStats
		m.status = "Press any key to go back"
	}
	return m, nil
}

func (m Model) updateSearchMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.setSearch("")
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		m.status = "Search cleared"
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		m.input.Blur()
		m.mode = modeList
		m.status = fmt.Sprintf("%d matching %s", len(m.list.View()), plural(len(m.list.View()), "task", "tasks"))
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.setSearch(m.input.Value())
		return m, cmd
	}
}

func (m *Model) setSearch(s string) {
	q := m.list.Query()
	q.Search = s
	m.list.SetQuery(q)
	m.cursor = clampCursor(m.cursor, len(m.list.View()))
}

func (m Model) updateStatsMode(key string) (tea.Model, tea.Cmd) {
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	m.mode = modeList
	m.status = ""
	return m, nil
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", "esc":
		m.status = "Delete cancelled"
		m.confirmDel = false
		return m, nil
	case "y", "Y":
		m.confirmDel = false
		// the view may have been reloaded while the prompt was open
		idx := slices.IndexFunc(m.list.View(), func(e task.Entry) bool {
			return reconcile.Same(e, m.pendingDel)
		})
		if idx < 0 {
			m.status = fmt.Sprintf("%q is gone; nothing deleted", m.pendingDel.Text())
			m.cursor = clampCursor(m.cursor, len(m.list.View()))
			return m, nil
		}
		if err := m.list.Delete(m.ctx, idx); err != nil {
			m.report("delete task", err)
			return m, nil
		}
		m.cursor = clampCursor(m.cursor, len(m.list.View()))
		m.status = "Deleted task"
		return m, nil
	default:
		return m, nil
	}
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
