package entity

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"

	"todo/domain"
	"todo/domain/recurrence"
)

// Priority represents how urgent a task is
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities returns every priority from most to least urgent
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// Rank orders priorities for sorting: high is 0, low is 2
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	return p.Rank() < 3
}

// ParsePriority accepts full names or their first letter, case-insensitively
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "h":
		return PriorityHigh, nil
	case "medium", "med", "m", "":
		return PriorityMedium, nil
	case "low", "l":
		return PriorityLow, nil
	default:
		return "", fmt.Errorf("%w: %q (use high, medium, or low)", domain.ErrInvalidPriority, s)
	}
}

// Task represents a unit of trackable work
type Task struct {
	ID          int64
	Title       string
	Description string
	Completed   bool
	Priority    Priority

	// Scheduling
	DueDate    *civil.Date
	Recurrence *recurrence.Pattern

	// Metadata
	Tags []string
}

// NewTask creates a pending medium-priority task after validating its title.
// The id is assigned by the repository on insert.
func NewTask(title, description string) (*Task, error) {
	trimmed, err := ValidateTitle(title)
	if err != nil {
		return nil, err
	}
	return &Task{
		Title:       trimmed,
		Description: description,
		Priority:    PriorityMedium,
	}, nil
}

// ValidateTitle returns the trimmed title or ErrInvalidTitle
func ValidateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", domain.ErrInvalidTitle
	}
	return trimmed, nil
}

// ValidateTag returns the trimmed tag or ErrInvalidTag
func ValidateTag(tag string) (string, error) {
	trimmed := strings.TrimSpace(tag)
	if trimmed == "" {
		return "", domain.ErrInvalidTag
	}
	return trimmed, nil
}

// NormalizeTags trims every tag and drops duplicates, keeping first-seen order.
// Any empty entry fails the whole set.
func NormalizeTags(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		trimmed, err := ValidateTag(tag)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out, nil
}

// HasTag reports whether tag is attached. Comparison is case-sensitive.
func (t *Task) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// AddTag appends tag unless already present and returns whether it was added
func (t *Task) AddTag(tag string) (bool, error) {
	trimmed, err := ValidateTag(tag)
	if err != nil {
		return false, err
	}
	if t.HasTag(trimmed) {
		return false, nil
	}
	t.Tags = append(t.Tags, trimmed)
	return true, nil
}

// RemoveTag detaches tag and returns whether it was present
func (t *Task) RemoveTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	for i, existing := range t.Tags {
		if existing == tag {
			t.Tags = append(t.Tags[:i:i], t.Tags[i+1:]...)
			return true
		}
	}
	return false
}

// IsRecurring returns true if the task repeats on completion
func (t *Task) IsRecurring() bool {
	return t.Recurrence != nil
}

// IsOverdue returns true if the task is open and its due date is before today
func (t *Task) IsOverdue(today civil.Date) bool {
	if t.Completed || t.DueDate == nil {
		return false
	}
	return t.DueDate.Before(today)
}

// IsDueToday returns true if the due date is today
func (t *Task) IsDueToday(today civil.Date) bool {
	return t.DueDate != nil && *t.DueDate == today
}

// IsDueWithin returns true if the due date falls between today and today+days inclusive
func (t *Task) IsDueWithin(today civil.Date, days int) bool {
	if t.DueDate == nil {
		return false
	}
	return !t.DueDate.Before(today) && !t.DueDate.After(today.AddDays(days))
}

// MarkAsCompleted transitions the task to completed
func (t *Task) MarkAsCompleted() {
	t.Completed = true
}

// MarkAsIncomplete reopens the task
func (t *Task) MarkAsIncomplete() {
	t.Completed = false
}

// Clone returns a deep copy of the task, id included
func (t *Task) Clone() *Task {
	c := *t
	if t.DueDate != nil {
		due := *t.DueDate
		c.DueDate = &due
	}
	c.Recurrence = t.Recurrence.Clone()
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	return &c
}

// NextOccurrence builds the open successor of a recurring task, due on next.
// The id is left zero for the repository to assign.
func (t *Task) NextOccurrence(next civil.Date) *Task {
	successor := t.Clone()
	successor.ID = 0
	successor.Completed = false
	successor.DueDate = &next
	return successor
}
