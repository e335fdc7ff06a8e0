package task

import (
	"fmt"
	"slices"
	"strings"

	"todo/domain"
	"todo/domain/entity"
)

// SortKey selects a display order
type SortKey string

const (
	SortNone     SortKey = ""
	SortTitle    SortKey = "title"
	SortPriority SortKey = "priority"
	SortDueDate  SortKey = "due-date"
)

// SortKeys returns the selectable orders, excluding SortNone
func SortKeys() []SortKey {
	return []SortKey{SortTitle, SortPriority, SortDueDate}
}

func (k SortKey) String() string {
	if k == SortNone {
		return "none"
	}
	return string(k)
}

// ParseSortKey accepts "none" or empty for creation order, and "due" as a short form
func ParseSortKey(s string) (SortKey, error) {
	switch s = strings.ToLower(strings.TrimSpace(s)); s {
	case "", "none":
		return SortNone, nil
	case "due":
		return SortDueDate, nil
	}
	for _, k := range SortKeys() {
		if s == string(k) {
			return k, nil
		}
	}
	return SortNone, fmt.Errorf("%w %q: valid options are title, priority, due-date", domain.ErrInvalidSortKey, s)
}

// Sort returns a reordered copy of tasks. The input slice is not modified and
// every order is stable.
func Sort(tasks []*entity.Task, key SortKey) ([]*entity.Task, error) {
	out := make([]*entity.Task, len(tasks))
	copy(out, tasks)

	switch key {
	case SortNone:
	case SortTitle:
		slices.SortStableFunc(out, compareTitle)
	case SortPriority:
		slices.SortStableFunc(out, comparePriority)
	case SortDueDate:
		slices.SortStableFunc(out, compareDueDate)
	default:
		return nil, fmt.Errorf("%w %q: valid options are title, priority, due-date", domain.ErrInvalidSortKey, string(key))
	}

	return out, nil
}

func compareTitle(a, b *entity.Task) int {
	return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
}

func comparePriority(a, b *entity.Task) int {
	return a.Priority.Rank() - b.Priority.Rank()
}

// compareDueDate puts undated tasks after every dated one
func compareDueDate(a, b *entity.Task) int {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return 0
	case a.DueDate == nil:
		return 1
	case b.DueDate == nil:
		return -1
	case a.DueDate.Before(*b.DueDate):
		return -1
	case a.DueDate.After(*b.DueDate):
		return 1
	default:
		return 0
	}
}
