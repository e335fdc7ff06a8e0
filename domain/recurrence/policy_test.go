package recurrence

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"todo/domain"
)

func date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		pattern  *Pattern
		expected bool
	}{
		{name: "nil pattern is non-recurring", pattern: nil, expected: true},
		{name: "daily", pattern: &Pattern{Type: Daily}, expected: true},
		{name: "weekly", pattern: &Pattern{Type: Weekly}, expected: true},
		{name: "monthly", pattern: &Pattern{Type: Monthly}, expected: true},
		{name: "unknown type", pattern: &Pattern{Type: "yearly"}, expected: false},
		{name: "empty type", pattern: &Pattern{}, expected: false},
		{name: "wrong case", pattern: &Pattern{Type: "Daily"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Validate(tt.pattern); got != tt.expected {
				t.Errorf("Validate() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestNextDueDate(t *testing.T) {
	tests := []struct {
		name     string
		current  civil.Date
		freq     Frequency
		expected civil.Date
	}{
		{name: "daily", current: date(2025, 1, 15), freq: Daily, expected: date(2025, 1, 16)},
		{name: "daily crosses month", current: date(2025, 1, 31), freq: Daily, expected: date(2025, 2, 1)},
		{name: "daily crosses year", current: date(2025, 12, 31), freq: Daily, expected: date(2026, 1, 1)},
		{name: "weekly", current: date(2025, 1, 15), freq: Weekly, expected: date(2025, 1, 22)},
		{name: "weekly crosses month", current: date(2025, 2, 25), freq: Weekly, expected: date(2025, 3, 4)},
		{name: "monthly", current: date(2025, 1, 15), freq: Monthly, expected: date(2025, 2, 15)},
		{name: "monthly clamps to february", current: date(2025, 1, 31), freq: Monthly, expected: date(2025, 2, 28)},
		{name: "monthly clamps to leap day", current: date(2024, 1, 31), freq: Monthly, expected: date(2024, 2, 29)},
		{name: "monthly clamps to 30 days", current: date(2025, 3, 31), freq: Monthly, expected: date(2025, 4, 30)},
		{name: "monthly rolls year", current: date(2025, 12, 15), freq: Monthly, expected: date(2026, 1, 15)},
		{name: "monthly from short month keeps day", current: date(2025, 2, 28), freq: Monthly, expected: date(2025, 3, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextDueDate(tt.current, &Pattern{Type: tt.freq})
			if err != nil {
				t.Fatalf("NextDueDate() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("NextDueDate() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestNextDueDateTwice(t *testing.T) {
	d := date(2025, 1, 15)

	tests := []struct {
		freq Frequency
		days int
	}{
		{Daily, 2},
		{Weekly, 14},
	}

	for _, tt := range tests {
		t.Run(string(tt.freq), func(t *testing.T) {
			p := &Pattern{Type: tt.freq}
			first, err := NextDueDate(d, p)
			if err != nil {
				t.Fatalf("NextDueDate() error = %v", err)
			}
			second, err := NextDueDate(first, p)
			if err != nil {
				t.Fatalf("NextDueDate() error = %v", err)
			}
			if want := d.AddDays(tt.days); second != want {
				t.Errorf("got %v, expected %v", second, want)
			}
		})
	}
}

func TestNextDueDateInvalid(t *testing.T) {
	for _, p := range []*Pattern{nil, {Type: "hourly"}, {}} {
		_, err := NextDueDate(date(2025, 1, 1), p)
		if !errors.Is(err, domain.ErrInvalidRecurrence) {
			t.Errorf("NextDueDate(%v) error = %v, expected ErrInvalidRecurrence", p, err)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected *Pattern
		wantErr  bool
	}{
		{input: "", expected: nil},
		{input: "  none ", expected: nil},
		{input: "daily", expected: &Pattern{Type: Daily}},
		{input: "WEEKLY", expected: &Pattern{Type: Weekly}},
		{input: " Monthly ", expected: &Pattern{Type: Monthly}},
		{input: "fortnightly", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidRecurrence) {
					t.Errorf("Parse() error = %v, expected ErrInvalidRecurrence", err)
				}
				return
			}
			if (got == nil) != (tt.expected == nil) || (got != nil && *got != *tt.expected) {
				t.Errorf("Parse() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	p := &Pattern{Type: Daily}
	c := p.Clone()
	c.Type = Weekly
	if p.Type != Daily {
		t.Errorf("original mutated through clone: %v", p.Type)
	}
	if (*Pattern)(nil).Clone() != nil {
		t.Error("clone of nil pattern should be nil")
	}
}
