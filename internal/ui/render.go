package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"tasklist/internal/config"
	"tasklist/internal/reconcile"
	"tasklist/internal/stats"
	"tasklist/internal/task"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	dimStyle       = lipgloss.NewStyle().Faint(true)
	doneStyle      = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	cursorStyle    = lipgloss.NewStyle().Bold(true)
	panelStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle    = lipgloss.NewStyle().Italic(true)
	badgeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#7F7F7F"))
	priorityStyles = map[task.Priority]lipgloss.Style{
		task.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("#e74c3c")),
		task.PriorityNormal: lipgloss.NewStyle().Foreground(lipgloss.Color("#f39c12")),
		task.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("#2ecc71")),
	}
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("My Tasks"))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(describeQuery(m.list.Query())))
	b.WriteString("\n\n")

	if m.mode == modeStats {
		b.WriteString(renderStats(m.summary))
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
		return b.String()
	}

	view := m.list.View()
	if len(view) == 0 {
		b.WriteString(emptyMessage(m.list.Query()))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderTaskList(view))
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%d %s left", m.list.Remaining(), plural(m.list.Remaining(), "task", "tasks")))
	b.WriteString("\n---\n")

	switch {
	case m.form != nil:
		b.WriteString(m.renderForm())
		b.WriteString("\n")
		b.WriteString(m.input.View())
	case m.mode == modeSearch:
		b.WriteString("Search: ")
		b.WriteString(m.input.View())
	case m.showDetail && len(view) > 0:
		b.WriteString(m.renderDetail(view[clampCursor(m.cursor, len(view))]))
	}

	b.WriteString("\n\n")
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}

func describeQuery(q reconcile.Query) string {
	status := q.Status
	if status == "" {
		status = reconcile.StatusAll
	}
	sort := q.Sort
	if sort == "" {
		sort = reconcile.SortDate
	}
	s := fmt.Sprintf("status: %s • sort: %s", status, sort)
	if q.Search != "" {
		s += fmt.Sprintf(" • search: %q", q.Search)
	}
	return s
}

func emptyMessage(q reconcile.Query) string {
	switch {
	case q.Search != "":
		return "No tasks match your search"
	case q.Status == reconcile.StatusCompleted:
		return "No completed tasks yet"
	default:
		return "No tasks yet. Press 'a' to add one."
	}
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s edit • %s toggle • %s delete • %s search • %s filter • %s sort • %s clear done • %s stats • %s detail • %s quit",
		k.Up, k.Down, k.Add, k.Edit, keyLabel(k.Toggle), k.Delete, k.Search, k.Filter, k.Sort, k.ClearCompleted, k.Stats, k.Detail, k.Quit)
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func (m Model) renderTaskList(view []task.Entry) string {
	var b strings.Builder
	for i, e := range view {
		cursor := " "
		if m.cursor == i && m.mode == modeList && m.form == nil {
			cursor = cursorStyle.Render(">")
		}

		checkbox := "[ ]"
		text := e.Text()
		if e.Completed() {
			checkbox = "[x]"
			text = doneStyle.Render(text)
		}

		b.WriteString(fmt.Sprintf("%s %s %s", cursor, checkbox, text))
		if badges := renderBadges(e); badges != "" {
			b.WriteString(" ")
			b.WriteString(badges)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderBadges(e task.Entry) string {
	if e.IsLegacy() {
		return ""
	}
	t := e.Task()
	var parts []string
	if t.Priority != "" {
		style, ok := priorityStyles[t.Priority]
		if !ok {
			style = badgeStyle
		}
		parts = append(parts, style.Render(string(t.Priority)))
	}
	if t.Category != "" {
		parts = append(parts, badgeStyle.Render("#"+t.Category))
	}
	if t.DueDate != "" {
		parts = append(parts, badgeStyle.Render("due "+t.DueDate))
	}
	return strings.Join(parts, " ")
}

func (m Model) renderDetail(e task.Entry) string {
	t := e.Task()
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Task      : %s\n", t.Text))
	b.WriteString(fmt.Sprintf("Status    : %s\n", humanDone(e.Completed())))
	b.WriteString(fmt.Sprintf("Priority  : %s\n", emptyPlaceholder(string(t.Priority))))
	b.WriteString(fmt.Sprintf("Category  : %s\n", emptyPlaceholder(t.Category)))
	b.WriteString(fmt.Sprintf("Due       : %s\n", emptyPlaceholder(t.DueDate)))
	b.WriteString(fmt.Sprintf("Created   : %s\n", emptyPlaceholder(t.CreatedAt)))
	if e.IsLegacy() {
		b.WriteString("Format    : legacy (plain text)\n")
	}
	b.WriteString("Notes     :")
	if t.Notes == "" {
		b.WriteString(" (empty)")
	} else {
		b.WriteString("\n")
		b.WriteString(wordwrap.String(t.Notes, max(20, m.width-8)))
	}
	return panelStyle.Render(b.String())
}

func (m Model) renderForm() string {
	title := "New task"
	if m.form.editing() {
		title = "Edit task"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	for i := range formFields() {
		prefix := " "
		if i == m.form.index {
			prefix = ">"
		}
		val := m.form.values[i]
		if i == m.form.index {
			val = m.input.Value()
		}
		b.WriteString(fmt.Sprintf("%s %-12s : %s\n", prefix, fieldShortName(i), emptyPlaceholder(val)))
	}
	return b.String()
}

func fieldShortName(i int) string {
	return strings.SplitN(formFields()[i], " ", 2)[0]
}

func renderStats(s stats.Summary) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Task Statistics"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Total %d • Completed %d • Active %d • %.0f%% done\n\n",
		s.Total, s.Completed, s.Active, s.CompletionRate*100))

	b.WriteString(titleStyle.Render("By priority"))
	b.WriteString("\n")
	b.WriteString(bar("High", s.Priorities.High, priorityStyles[task.PriorityHigh]))
	b.WriteString(bar("Normal", s.Priorities.Normal, priorityStyles[task.PriorityNormal]))
	b.WriteString(bar("Low", s.Priorities.Low, priorityStyles[task.PriorityLow]))
	b.WriteString(bar("None", s.Priorities.None, badgeStyle))

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("By category"))
	b.WriteString("\n")
	if len(s.Categories) == 0 {
		b.WriteString(dimStyle.Render("No categories"))
		b.WriteString("\n")
	}
	for _, c := range s.Categories {
		b.WriteString(bar(c.Name, c.Count, badgeStyle))
	}

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Created this week"))
	b.WriteString("\n")
	for i, day := range stats.Weekdays {
		b.WriteString(bar(day, s.Weekly[i], badgeStyle))
	}
	return b.String()
}

func bar(label string, n int, style lipgloss.Style) string {
	return fmt.Sprintf("%-10s %3d %s\n", label, n, style.Render(strings.Repeat("█", n)))
}

func emptyPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(empty)"
	}
	return v
}

func humanDone(done bool) string {
	if done {
		return "done"
	}
	return "pending"
}
