package task

import "todo/domain/entity"

// Stats represents task statistics
type Stats struct {
	Total      int
	Completed  int
	Pending    int
	Overdue    int
	Recurring  int
	ByPriority map[entity.Priority]int
}

// CompletionRate returns the completed share of all tasks, 0 when there are none
func (st Stats) CompletionRate() float64 {
	if st.Total == 0 {
		return 0
	}
	return float64(st.Completed) / float64(st.Total)
}

// GetStats counts the current tasks
func (s *Service) GetStats() Stats {
	today := s.Today()
	stats := Stats{ByPriority: make(map[entity.Priority]int, 3)}

	for _, task := range s.repo.List() {
		stats.Total++
		if task.Completed {
			stats.Completed++
		} else {
			stats.Pending++
		}
		if task.IsOverdue(today) {
			stats.Overdue++
		}
		if task.IsRecurring() {
			stats.Recurring++
		}
		stats.ByPriority[task.Priority]++
	}

	return stats
}
