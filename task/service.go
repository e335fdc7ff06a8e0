package task

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"todo/domain"
	"todo/domain/entity"
	"todo/domain/recurrence"
	"todo/domain/repository"
)

// CreateTaskRequest represents a request to create a task.
// A zero Priority means medium.
type CreateTaskRequest struct {
	Title       string
	Description string
	Priority    entity.Priority
	DueDate     *civil.Date
	Tags        []string
	Recurrence  *recurrence.Pattern
}

// UpdateTaskRequest carries the fields to change. A nil field keeps the current value.
type UpdateTaskRequest struct {
	Title       *string
	Description *string
	Priority    *entity.Priority
}

// Service owns the task lifecycle. Tasks are listed in creation order unless a
// sorted view is requested; sorting never changes the stored order.
type Service struct {
	repo   repository.TaskRepository
	clock  func() time.Time
	logger *zap.Logger
}

// NewService creates a new task service over repo
func NewService(repo repository.TaskRepository, opts ...Option) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("task repository cannot be nil")
	}

	s := &Service{
		repo:   repo,
		clock:  time.Now,
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	return s, nil
}

// Today returns the current calendar date according to the service clock
func (s *Service) Today() civil.Date {
	return civil.DateOf(s.clock())
}

// AddTask validates req and stores a new task with the next id.
// Nothing is stored and no id is consumed when validation fails.
func (s *Service) AddTask(req CreateTaskRequest) (*entity.Task, error) {
	task, err := entity.NewTask(req.Title, req.Description)
	if err != nil {
		return nil, err
	}

	if req.Priority != "" {
		if !req.Priority.Valid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPriority, req.Priority)
		}
		task.Priority = req.Priority
	}

	tags, err := entity.NormalizeTags(req.Tags)
	if err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		task.Tags = tags
	}

	if !recurrence.Validate(req.Recurrence) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRecurrence, req.Recurrence.Type)
	}
	task.Recurrence = req.Recurrence.Clone()

	if req.DueDate != nil {
		due := *req.DueDate
		task.DueDate = &due
	}

	if err := s.repo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Debug("Task created",
		zap.Int64("task_id", task.ID),
		zap.String("title", task.Title),
		zap.Stringer("recurrence", task.Recurrence),
	)

	return task, nil
}

// GetTask returns the stored task, or false if no task has that id
func (s *Service) GetTask(id int64) (*entity.Task, bool) {
	task, err := s.repo.FindByID(id)
	if err != nil {
		return nil, false
	}
	return task, true
}

// GetAllTasks returns every task in creation order. The slice is the caller's.
func (s *Service) GetAllTasks() []*entity.Task {
	return s.repo.List()
}

// UpdateTask applies the provided fields. All of them are validated before any is
// written, so a rejected update leaves the task untouched.
func (s *Service) UpdateTask(id int64, req UpdateTaskRequest) (bool, error) {
	return s.update(id, func(task *entity.Task) error {
		var title string
		if req.Title != nil {
			trimmed, err := entity.ValidateTitle(*req.Title)
			if err != nil {
				return err
			}
			title = trimmed
		}
		if req.Priority != nil && !req.Priority.Valid() {
			return fmt.Errorf("%w: %q", domain.ErrInvalidPriority, *req.Priority)
		}

		if req.Title != nil {
			task.Title = title
		}
		if req.Description != nil {
			task.Description = *req.Description
		}
		if req.Priority != nil {
			task.Priority = *req.Priority
		}
		return nil
	})
}

// DeleteTask removes a task. Its id is never handed out again.
func (s *Service) DeleteTask(id int64) bool {
	if err := s.repo.Delete(id); err != nil {
		return false
	}
	s.logger.Debug("Task deleted", zap.Int64("task_id", id))
	return true
}

// MarkComplete sets completed without spawning a recurrence successor
func (s *Service) MarkComplete(id int64) bool {
	ok, _ := s.update(id, func(task *entity.Task) error {
		task.MarkAsCompleted()
		return nil
	})
	return ok
}

// MarkIncomplete reopens a task
func (s *Service) MarkIncomplete(id int64) bool {
	ok, _ := s.update(id, func(task *entity.Task) error {
		task.MarkAsIncomplete()
		return nil
	})
	return ok
}

// SearchTasks matches keyword case-insensitively against title or description.
// A blank keyword matches nothing.
func (s *Service) SearchTasks(keyword string) []*entity.Task {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	results := []*entity.Task{}
	if keyword == "" {
		return results
	}

	for _, task := range s.repo.List() {
		if strings.Contains(strings.ToLower(task.Title), keyword) ||
			strings.Contains(strings.ToLower(task.Description), keyword) {
			results = append(results, task)
		}
	}
	return results
}

// AddTag attaches tag. It returns false when the task is missing or already has the tag.
func (s *Service) AddTag(id int64, tag string) (bool, error) {
	var added bool
	found, err := s.update(id, func(task *entity.Task) error {
		var err error
		added, err = task.AddTag(tag)
		return err
	})
	if err != nil {
		return false, err
	}
	return found && added, nil
}

// RemoveTag detaches tag, returning false when the task or tag is missing
func (s *Service) RemoveTag(id int64, tag string) bool {
	var removed bool
	s.update(id, func(task *entity.Task) error {
		removed = task.RemoveTag(tag)
		return nil
	})
	return removed
}

// ReplaceTags overwrites the tag collection with the normalised set
func (s *Service) ReplaceTags(id int64, tags []string) (bool, error) {
	return s.update(id, func(task *entity.Task) error {
		normalized, err := entity.NormalizeTags(tags)
		if err != nil {
			return err
		}
		task.Tags = normalized
		return nil
	})
}

// SetDueDate sets or, with nil, clears the due date
func (s *Service) SetDueDate(id int64, due *civil.Date) bool {
	ok, _ := s.update(id, func(task *entity.Task) error {
		if due == nil {
			task.DueDate = nil
			return nil
		}
		d := *due
		task.DueDate = &d
		return nil
	})
	return ok
}

// SetRecurrence sets or, with nil, clears the recurrence pattern
func (s *Service) SetRecurrence(id int64, p *recurrence.Pattern) (bool, error) {
	return s.update(id, func(task *entity.Task) error {
		if !recurrence.Validate(p) {
			return fmt.Errorf("%w: %q", domain.ErrInvalidRecurrence, p.Type)
		}
		task.Recurrence = p.Clone()
		return nil
	})
}

// GetSortedByDueDate returns dated tasks by ascending date, then undated tasks in
// creation order
func (s *Service) GetSortedByDueDate() []*entity.Task {
	sorted, _ := Sort(s.repo.List(), SortDueDate)
	return sorted
}

// ListTasks returns every task ordered by key
func (s *Service) ListTasks(key SortKey) ([]*entity.Task, error) {
	return Sort(s.repo.List(), key)
}

// GetOverdueTasks returns open tasks due strictly before today, in creation order
func (s *Service) GetOverdueTasks() []*entity.Task {
	today := s.Today()
	return s.collect(func(task *entity.Task) bool {
		return task.IsOverdue(today)
	})
}

// FilterTasks returns the tasks matching f, in creation order
func (s *Service) FilterTasks(f repository.TaskFilter) []*entity.Task {
	return s.collect(f.Matches)
}

// CompleteTask marks the task complete. For a recurring task it also stores and
// returns the next occurrence; otherwise the returned task is nil. A recurring
// task without a due date is rejected and left unchanged. Completing a task that
// is already completed changes nothing and returns nil.
func (s *Service) CompleteTask(id int64) (*entity.Task, error) {
	var (
		successor *entity.Task
		already   bool
	)

	found, err := s.update(id, func(task *entity.Task) error {
		if task.Completed {
			already = true
			return nil
		}
		if !task.IsRecurring() {
			task.MarkAsCompleted()
			return nil
		}
		if task.DueDate == nil {
			return fmt.Errorf("task %d: %w", task.ID, domain.ErrMissingDueDate)
		}

		next, err := recurrence.NextDueDate(*task.DueDate, task.Recurrence)
		if err != nil {
			return fmt.Errorf("task %d: %w", task.ID, err)
		}

		task.MarkAsCompleted()
		successor = task.NextOccurrence(next)
		return nil
	})
	if err != nil || !found || already {
		return nil, err
	}

	s.logger.Debug("Task completed", zap.Int64("task_id", id))

	if successor == nil {
		return nil, nil
	}

	if err := s.repo.Create(successor); err != nil {
		return nil, fmt.Errorf("failed to create next occurrence: %w", err)
	}

	s.logger.Debug("Next occurrence created",
		zap.Int64("task_id", successor.ID),
		zap.Int64("previous_id", id),
		zap.Stringer("due_date", successor.DueDate),
	)

	return successor, nil
}

// update runs fn on the stored task. Not found is reported as false with no error.
func (s *Service) update(id int64, fn func(task *entity.Task) error) (bool, error) {
	err := s.repo.Update(id, fn)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// collect returns the tasks accepted by keep, in creation order
func (s *Service) collect(keep func(task *entity.Task) bool) []*entity.Task {
	out := []*entity.Task{}
	for _, task := range s.repo.List() {
		if keep(task) {
			out = append(out, task)
		}
	}
	return out
}
