package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"

	"todo/domain"
	"todo/domain/entity"
	"todo/domain/recurrence"
	"todo/domain/repository"
	"todo/task"
)

func notFound(id int64) error {
	return fmt.Errorf("task %d not found", id)
}

func (m *Menu) addTask() error {
	m.header("Add task")

	title, err := m.ask("Title")
	if err != nil {
		return err
	}
	description, err := m.ask("Description (optional)")
	if err != nil {
		return err
	}

	rawPriority, err := m.ask("Priority high/medium/low [medium]")
	if err != nil {
		return err
	}
	priority, err := entity.ParsePriority(rawPriority)
	if err != nil {
		return err
	}

	due, err := m.askDate("Due date (optional, YYYY-MM-DD)")
	if err != nil {
		return err
	}

	rawTags, err := m.ask("Tags (comma separated, optional)")
	if err != nil {
		return err
	}

	rawRecurrence, err := m.ask("Repeat daily/weekly/monthly/none [none]")
	if err != nil {
		return err
	}
	pattern, err := recurrence.Parse(rawRecurrence)
	if err != nil {
		return err
	}

	created, err := m.svc.AddTask(task.CreateTaskRequest{
		Title:       title,
		Description: description,
		Priority:    priority,
		DueDate:     due,
		Tags:        ParseTags(rawTags),
		Recurrence:  pattern,
	})
	if err != nil {
		return err
	}

	m.success("Task #%d added.", created.ID)
	if created.IsRecurring() && created.DueDate == nil {
		m.printf("%s\n", m.styles.warning.Render("Recurring task has no due date; set one before completing it."))
	}
	return nil
}

func (m *Menu) listTasks() error {
	m.header("Tasks")

	raw, err := m.ask(fmt.Sprintf("Sort by none/title/priority/due-date [%s]", m.defaultSort))
	if err != nil {
		return err
	}

	key := m.defaultSort
	if raw != "" {
		if key, err = task.ParseSortKey(raw); err != nil {
			return err
		}
	}

	tasks, err := m.svc.ListTasks(key)
	if err != nil {
		return err
	}
	m.renderList(tasks)
	return nil
}

func (m *Menu) updateTask() error {
	m.header("Update task")

	id, err := m.askID()
	if err != nil {
		return err
	}
	current, ok := m.svc.GetTask(id)
	if !ok {
		return notFound(id)
	}
	m.printf("%s\n", m.renderTask(current, m.svc.Today()))

	var req task.UpdateTaskRequest

	title, err := m.ask("New title (blank keeps current)")
	if err != nil {
		return err
	}
	if title != "" {
		req.Title = &title
	}

	description, err := m.ask("New description (blank keeps current, - clears)")
	if err != nil {
		return err
	}
	switch description {
	case "":
	case "-":
		empty := ""
		req.Description = &empty
	default:
		req.Description = &description
	}

	rawPriority, err := m.ask("New priority (blank keeps current)")
	if err != nil {
		return err
	}
	if rawPriority != "" {
		priority, err := entity.ParsePriority(rawPriority)
		if err != nil {
			return err
		}
		req.Priority = &priority
	}

	updated, err := m.svc.UpdateTask(id, req)
	if err != nil {
		return err
	}
	if !updated {
		return notFound(id)
	}
	m.success("Task #%d updated.", id)
	return nil
}

func (m *Menu) deleteTask() error {
	m.header("Delete task")

	id, err := m.askID()
	if err != nil {
		return err
	}
	current, ok := m.svc.GetTask(id)
	if !ok {
		return notFound(id)
	}

	answer, err := m.ask(fmt.Sprintf("Delete %q? y/N", current.Title))
	if err != nil {
		return err
	}
	confirmed, err := parseYesNo(answer, false)
	if err != nil {
		return err
	}
	if !confirmed {
		m.printf("%s\n", m.styles.faint.Render("Delete cancelled."))
		return nil
	}

	if !m.svc.DeleteTask(id) {
		return notFound(id)
	}
	m.success("Task #%d deleted.", id)
	return nil
}

func (m *Menu) completeTask() error {
	m.header("Complete task")

	id, err := m.askID()
	if err != nil {
		return err
	}
	current, ok := m.svc.GetTask(id)
	if !ok {
		return notFound(id)
	}
	if current.Completed {
		m.printf("%s\n", m.styles.warning.Render(fmt.Sprintf("Task #%d is already completed.", id)))
		return nil
	}

	next, err := m.svc.CompleteTask(id)
	if errors.Is(err, domain.ErrMissingDueDate) {
		return fmt.Errorf("task %d repeats but has no due date; set one first", id)
	}
	if err != nil {
		return err
	}

	m.success("Task #%d completed.", id)
	if next != nil {
		m.success("Next occurrence #%d is due %s.", next.ID, next.DueDate)
	}
	return nil
}

func (m *Menu) reopenTask() error {
	m.header("Reopen task")

	id, err := m.askID()
	if err != nil {
		return err
	}
	if !m.svc.MarkIncomplete(id) {
		return notFound(id)
	}
	m.success("Task #%d reopened.", id)
	return nil
}

func (m *Menu) searchTasks() error {
	m.header("Search")

	keyword, err := m.ask("Keyword")
	if err != nil {
		return err
	}
	if keyword == "" {
		return fmt.Errorf("search keyword cannot be empty")
	}
	m.renderList(m.svc.SearchTasks(keyword))
	return nil
}

func (m *Menu) filterTasks() error {
	m.header("Filter tasks")

	var f repository.TaskFilter

	status, err := m.ask("Status open/done/all [all]")
	if err != nil {
		return err
	}
	switch strings.ToLower(status) {
	case "", "all":
	case "open", "pending":
		f.Completed = new(bool)
	case "done", "completed":
		done := true
		f.Completed = &done
	default:
		return fmt.Errorf("unknown status %q: use open, done, or all", status)
	}

	rawPriority, err := m.ask("Priority (blank for any)")
	if err != nil {
		return err
	}
	if rawPriority != "" {
		priority, err := entity.ParsePriority(rawPriority)
		if err != nil {
			return err
		}
		f.Priority = &priority
	}

	rawTags, err := m.ask("Tags, all required (comma separated, blank for any)")
	if err != nil {
		return err
	}
	f.Tags = ParseTags(rawTags)

	rawDays, err := m.ask("Due within days (blank for any)")
	if err != nil {
		return err
	}
	if rawDays != "" {
		days, err := strconv.Atoi(rawDays)
		if err != nil || days < 0 {
			return fmt.Errorf("invalid number of days %q", rawDays)
		}
		from := m.svc.Today()
		to := from.AddDays(days)
		f.DueFrom, f.DueTo = &from, &to
	}

	m.renderList(m.svc.FilterTasks(f))
	return nil
}

func (m *Menu) manageTags() error {
	m.header("Manage tags")

	id, err := m.askID()
	if err != nil {
		return err
	}
	current, ok := m.svc.GetTask(id)
	if !ok {
		return notFound(id)
	}
	if len(current.Tags) == 0 {
		m.printf("%s\n", m.styles.faint.Render("No tags."))
	} else {
		m.printf("Tags: %s\n", m.styles.tag.Render(strings.Join(current.Tags, ", ")))
	}

	action, err := m.ask("Action add/remove/replace")
	if err != nil {
		return err
	}
	raw, err := m.ask("Tags (comma separated)")
	if err != nil {
		return err
	}
	tags := ParseTags(raw)

	switch strings.ToLower(action) {
	case "add", "a":
		if len(tags) == 0 {
			return fmt.Errorf("no tags given")
		}
		for _, tag := range tags {
			added, err := m.svc.AddTag(id, tag)
			if err != nil {
				return err
			}
			if added {
				m.success("Tag %q added.", tag)
			} else {
				m.printf("%s\n", m.styles.faint.Render(fmt.Sprintf("Tag %q already present.", tag)))
			}
		}
	case "remove", "r":
		if len(tags) == 0 {
			return fmt.Errorf("no tags given")
		}
		for _, tag := range tags {
			if m.svc.RemoveTag(id, tag) {
				m.success("Tag %q removed.", tag)
			} else {
				m.printf("%s\n", m.styles.faint.Render(fmt.Sprintf("Tag %q not present.", tag)))
			}
		}
	case "replace":
		if _, err := m.svc.ReplaceTags(id, tags); err != nil {
			return err
		}
		m.success("Tags of task #%d replaced.", id)
	default:
		return fmt.Errorf("unknown tag action %q: use add, remove, or replace", action)
	}
	return nil
}

func (m *Menu) setDueDate() error {
	m.header("Set due date")

	id, err := m.askID()
	if err != nil {
		return err
	}
	due, err := m.askDate("Due date (blank or none clears)")
	if err != nil {
		return err
	}
	if !m.svc.SetDueDate(id, due) {
		return notFound(id)
	}

	if due == nil {
		m.success("Due date of task #%d cleared.", id)
	} else {
		m.success("Task #%d is due %s.", id, due)
	}
	return nil
}

func (m *Menu) setRecurrence() error {
	m.header("Set recurrence")

	id, err := m.askID()
	if err != nil {
		return err
	}
	raw, err := m.ask("Repeat daily/weekly/monthly/none")
	if err != nil {
		return err
	}
	pattern, err := recurrence.Parse(raw)
	if err != nil {
		return err
	}

	ok, err := m.svc.SetRecurrence(id, pattern)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(id)
	}
	m.success("Task #%d now repeats: %s.", id, pattern)
	return nil
}

func (m *Menu) showReminders() error {
	m.header("Reminders")
	m.renderReminders(m.svc.Reminders(m.dueSoonDays))
	return nil
}

func (m *Menu) showStats() error {
	m.header("Statistics")
	m.renderStats(m.svc.GetStats())
	return nil
}

// askDate reads an optional date. Blank or "none" yields nil.
func (m *Menu) askDate(label string) (*civil.Date, error) {
	raw, err := m.ask(label)
	if err != nil {
		return nil, err
	}
	if raw == "" || strings.EqualFold(raw, "none") {
		return nil, nil
	}
	d, err := ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
