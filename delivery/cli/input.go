package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"todo/domain"
)

// dateLayouts are tried in order. Month-first wins over day-first when both fit.
var dateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"1-2-2006",
	"1/2/2006",
	"2-1-2006",
	"2/1/2006",
}

// ParseDate reads a calendar date typed by the user
func ParseDate(s string) (civil.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return civil.Date{}, fmt.Errorf("%w: empty input", domain.ErrInvalidDate)
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return civil.DateOf(t), nil
		}
	}

	return civil.Date{}, fmt.Errorf("%w %q: expected YYYY-MM-DD, MM/DD/YYYY or DD/MM/YYYY", domain.ErrInvalidDate, s)
}

// ParseTags splits a comma-separated list, dropping blank entries
func ParseTags(s string) []string {
	tags := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}

// ParseID reads a positive task id
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q: enter a positive number", strings.TrimSpace(s))
	}
	return id, nil
}

// parseYesNo accepts y/yes/n/no; blank returns def
func parseYesNo(s string, def bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return false, fmt.Errorf("answer y or n, got %q", s)
	}
}
