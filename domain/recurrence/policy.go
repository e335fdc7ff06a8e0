// Package recurrence validates recurrence patterns and computes the next
// due date of a repeating task. It holds no state.
package recurrence

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"todo/domain"
)

// Frequency is the cadence of a recurring task
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

// Pattern describes how a task repeats. A nil *Pattern means the task does not repeat.
type Pattern struct {
	Type Frequency
}

// Frequencies returns every supported cadence in display order
func Frequencies() []Frequency {
	return []Frequency{Daily, Weekly, Monthly}
}

// Clone returns a copy of the pattern, or nil for a non-recurring one
func (p *Pattern) Clone() *Pattern {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func (p *Pattern) String() string {
	if p == nil {
		return "none"
	}
	return string(p.Type)
}

// Validate reports whether p is usable. nil is valid and means non-recurring.
func Validate(p *Pattern) bool {
	if p == nil {
		return true
	}
	switch p.Type {
	case Daily, Weekly, Monthly:
		return true
	default:
		return false
	}
}

// NextDueDate returns the occurrence following current.
func NextDueDate(current civil.Date, p *Pattern) (civil.Date, error) {
	if p == nil {
		return civil.Date{}, fmt.Errorf("%w: no recurrence set", domain.ErrInvalidRecurrence)
	}

	switch p.Type {
	case Daily:
		return current.AddDays(1), nil
	case Weekly:
		return current.AddDays(7), nil
	case Monthly:
		return addMonth(current), nil
	default:
		return civil.Date{}, fmt.Errorf("%w: %q", domain.ErrInvalidRecurrence, p.Type)
	}
}

// addMonth moves d to the same day of the next month, clamped to that month's last day
func addMonth(d civil.Date) civil.Date {
	year, month := d.Year, d.Month+1
	if month > time.December {
		month = time.January
		year++
	}

	day := d.Day
	if last := daysIn(year, month); day > last {
		day = last
	}

	return civil.Date{Year: year, Month: month, Day: day}
}

// daysIn returns the number of days in the given month
func daysIn(year int, month time.Month) int {
	// Day 0 of the following month normalises to the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Parse converts user input into a pattern. Empty input and "none" mean no recurrence.
func Parse(s string) (*Pattern, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "none" {
		return nil, nil
	}

	for _, f := range Frequencies() {
		if s == string(f) {
			return &Pattern{Type: f}, nil
		}
	}

	return nil, fmt.Errorf("%w: use daily, weekly, monthly, or none", domain.ErrInvalidRecurrence)
}
