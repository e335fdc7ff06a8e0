package cli

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"

	"todo/domain/entity"
	"todo/task"
)

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}

func (m *Menu) success(format string, args ...any) {
	m.printf("%s\n", m.styles.success.Render(fmt.Sprintf(format, args...)))
}

func (m *Menu) failure(format string, args ...any) {
	m.printf("%s\n", m.styles.failure.Render("Error: "+fmt.Sprintf(format, args...)))
}

func (m *Menu) header(title string) {
	m.printf("\n%s\n", m.styles.header.Render("== "+title+" =="))
}

// renderTask formats one task on a single line, with the description indented below
func (m *Menu) renderTask(t *entity.Task, today civil.Date) string {
	var b strings.Builder

	check := "[ ]"
	title := t.Title
	if t.Completed {
		check = "[x]"
		title = m.styles.done.Render(title)
	}
	fmt.Fprintf(&b, "%s #%d %s", check, t.ID, title)
	fmt.Fprintf(&b, " %s", m.styles.forPriority(t.Priority).Render("("+string(t.Priority)+")"))

	if t.DueDate != nil {
		due := "due " + t.DueDate.String()
		switch {
		case t.IsOverdue(today):
			b.WriteString(" " + m.styles.overdue.Render(due+" OVERDUE"))
		case t.IsDueToday(today) && !t.Completed:
			b.WriteString(" " + m.styles.warning.Render(due+" TODAY"))
		default:
			b.WriteString(" " + m.styles.faint.Render(due))
		}
	}
	if t.IsRecurring() {
		b.WriteString(" " + m.styles.faint.Render("repeats "+t.Recurrence.String()))
	}
	for _, tag := range t.Tags {
		b.WriteString(" " + m.styles.tag.Render("#"+tag))
	}
	if t.Description != "" {
		b.WriteString("\n    " + m.styles.faint.Render(t.Description))
	}

	return b.String()
}

func (m *Menu) renderList(tasks []*entity.Task) {
	if len(tasks) == 0 {
		m.printf("%s\n", m.styles.faint.Render("No tasks found."))
		return
	}

	today := m.svc.Today()
	completed := 0
	for _, t := range tasks {
		m.printf("%s\n", m.renderTask(t, today))
		if t.Completed {
			completed++
		}
	}
	m.printf("%s\n", m.styles.faint.Render(fmt.Sprintf("%d task(s), %d completed", len(tasks), completed)))
}

func (m *Menu) renderReminders(r task.Reminders) {
	if r.Empty() {
		m.printf("%s\n", m.styles.faint.Render("Nothing due. Enjoy your day."))
		return
	}

	today := m.svc.Today()
	groups := []struct {
		label string
		tasks []*entity.Task
	}{
		{label: "Overdue", tasks: r.Overdue},
		{label: "Due today", tasks: r.DueToday},
		{label: fmt.Sprintf("Due in the next %d day(s)", m.dueSoonDays), tasks: r.DueSoon},
	}
	for _, g := range groups {
		if len(g.tasks) == 0 {
			continue
		}
		m.printf("%s\n", m.styles.warning.Render(fmt.Sprintf("%s (%d):", g.label, len(g.tasks))))
		for _, t := range g.tasks {
			m.printf("  %s\n", m.renderTask(t, today))
		}
	}
}

func (m *Menu) renderStats(st task.Stats) {
	m.printf("Total:      %d\n", st.Total)
	m.printf("Completed:  %d (%.0f%%)\n", st.Completed, st.CompletionRate()*100)
	m.printf("Pending:    %d\n", st.Pending)
	m.printf("Overdue:    %d\n", st.Overdue)
	m.printf("Recurring:  %d\n", st.Recurring)
	for _, p := range entity.Priorities() {
		m.printf("%-11s %d\n", strings.ToUpper(string(p[:1]))+string(p[1:])+":", st.ByPriority[p])
	}
}
