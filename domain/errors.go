package domain

import "errors"

var (
	// ErrNotFound is returned by repositories when no task has the requested id
	ErrNotFound = errors.New("task not found")

	// ErrInvalidTitle is returned when a title is empty or whitespace-only
	ErrInvalidTitle = errors.New("title cannot be empty or whitespace-only")

	// ErrInvalidTag is returned when a tag is empty or whitespace-only
	ErrInvalidTag = errors.New("tag cannot be empty or whitespace-only")

	// ErrInvalidRecurrence is returned when a recurrence pattern has an unknown type
	ErrInvalidRecurrence = errors.New("invalid recurrence pattern")

	// ErrMissingDueDate is returned when a recurring task without a due date is completed
	ErrMissingDueDate = errors.New("recurring task must have a due date")

	// ErrInvalidPriority is returned when a priority is outside high/medium/low
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidSortKey is returned when a sort option is not recognised
	ErrInvalidSortKey = errors.New("invalid sort option")

	// ErrInvalidDate is returned when a date string cannot be parsed
	ErrInvalidDate = errors.New("invalid date")
)
