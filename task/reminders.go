package task

import (
	"todo/domain/entity"
)

// DefaultDueSoonDays is the look-ahead window used when none is configured
const DefaultDueSoonDays = 7

// Reminders groups open tasks by urgency. A task appears in at most one group.
type Reminders struct {
	Overdue  []*entity.Task
	DueToday []*entity.Task
	DueSoon  []*entity.Task // due after today, within the window
}

// Empty returns true if there is nothing to remind about
func (r Reminders) Empty() bool {
	return len(r.Overdue) == 0 && len(r.DueToday) == 0 && len(r.DueSoon) == 0
}

// GetTasksDueToday returns every task due today, completed or not
func (s *Service) GetTasksDueToday() []*entity.Task {
	today := s.Today()
	return s.collect(func(task *entity.Task) bool {
		return task.IsDueToday(today)
	})
}

// GetTasksDueSoon returns every task due between today and today+days
func (s *Service) GetTasksDueSoon(days int) []*entity.Task {
	today := s.Today()
	return s.collect(func(task *entity.Task) bool {
		return task.IsDueWithin(today, days)
	})
}

// Reminders partitions open tasks into overdue, due today and due within days
func (s *Service) Reminders(days int) Reminders {
	if days < 0 {
		days = 0
	}
	today := s.Today()

	var r Reminders
	for _, task := range s.repo.List() {
		switch {
		case task.Completed:
		case task.IsOverdue(today):
			r.Overdue = append(r.Overdue, task)
		case task.IsDueToday(today):
			r.DueToday = append(r.DueToday, task)
		case task.IsDueWithin(today, days):
			r.DueSoon = append(r.DueSoon, task)
		}
	}
	return r
}
