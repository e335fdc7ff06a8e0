package repository

import (
	"cloud.google.com/go/civil"

	"todo/domain/entity"
)

// TaskRepository defines the interface for task storage.
// Implementations keep tasks in creation order and assign ids on Create.
type TaskRepository interface {
	// Create assigns the next unused id to task and appends it
	Create(task *entity.Task) error

	// FindByID returns the stored task itself, or domain.ErrNotFound
	FindByID(id int64) (*entity.Task, error)

	// Update runs fn against the stored task while holding the write lock.
	// fn must validate before mutating; an error from fn is returned unchanged.
	Update(id int64, fn func(task *entity.Task) error) error

	// Delete removes the task; ids are never reused
	Delete(id int64) error

	// List returns a fresh slice of all tasks in creation order
	List() []*entity.Task

	// Count returns the number of stored tasks
	Count() int
}

// TaskFilter defines filtering options for listing tasks
type TaskFilter struct {
	Completed *bool
	Priority  *entity.Priority
	Tags      []string // every tag must be present
	DueFrom   *civil.Date
	DueTo     *civil.Date
	HasDue    *bool
}

// Matches reports whether task satisfies every set criterion
func (f TaskFilter) Matches(task *entity.Task) bool {
	if f.Completed != nil && task.Completed != *f.Completed {
		return false
	}
	if f.Priority != nil && task.Priority != *f.Priority {
		return false
	}
	for _, tag := range f.Tags {
		if !task.HasTag(tag) {
			return false
		}
	}
	if f.HasDue != nil && (task.DueDate != nil) != *f.HasDue {
		return false
	}
	if f.DueFrom != nil && (task.DueDate == nil || task.DueDate.Before(*f.DueFrom)) {
		return false
	}
	if f.DueTo != nil && (task.DueDate == nil || task.DueDate.After(*f.DueTo)) {
		return false
	}
	return true
}
