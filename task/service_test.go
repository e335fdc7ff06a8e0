package task

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/domain"
	"todo/domain/entity"
	"todo/domain/recurrence"
	"todo/domain/repository"
	"todo/repository/memory"
)

// fixedNow is 2025-03-10 at noon local time
var fixedNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.Local)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(memory.NewTaskRepository(), WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return svc
}

func day(y int, m time.Month, d int) *civil.Date {
	return &civil.Date{Year: y, Month: m, Day: d}
}

func ptr[T any](v T) *T {
	return &v
}

func add(t *testing.T, svc *Service, req CreateTaskRequest) *entity.Task {
	t.Helper()
	task, err := svc.AddTask(req)
	require.NoError(t, err)
	return task
}

func ids(tasks []*entity.Task) []int64 {
	out := make([]int64, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.ID)
	}
	return out
}

func TestNewServiceRejectsInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{name: "Nil clock", opts: []Option{WithClock(nil)}},
		{name: "Nil logger", opts: []Option{WithLogger(nil)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewService(memory.NewTaskRepository(), tt.opts...)
			assert.Error(t, err)
		})
	}

	_, err := NewService(nil)
	assert.Error(t, err)
}

func TestBasicLifecycle(t *testing.T) {
	svc := newTestService(t)

	task := add(t, svc, CreateTaskRequest{Title: "Buy milk"})
	assert.Equal(t, int64(1), task.ID)
	assert.False(t, task.Completed)
	assert.Equal(t, entity.PriorityMedium, task.Priority)

	assert.True(t, svc.MarkComplete(1))
	got, ok := svc.GetTask(1)
	require.True(t, ok)
	assert.True(t, got.Completed)

	assert.True(t, svc.MarkIncomplete(1))
	assert.False(t, got.Completed)

	assert.True(t, svc.DeleteTask(1))
	_, ok = svc.GetTask(1)
	assert.False(t, ok)
	assert.False(t, svc.DeleteTask(1))
}

func TestAddTaskValidation(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name    string
		req     CreateTaskRequest
		wantErr error
	}{
		{name: "Empty title", req: CreateTaskRequest{Title: ""}, wantErr: domain.ErrInvalidTitle},
		{name: "Whitespace title", req: CreateTaskRequest{Title: "  \t"}, wantErr: domain.ErrInvalidTitle},
		{name: "Unknown recurrence", req: CreateTaskRequest{Title: "x", Recurrence: &recurrence.Pattern{Type: "yearly"}}, wantErr: domain.ErrInvalidRecurrence},
		{name: "Empty tag", req: CreateTaskRequest{Title: "x", Tags: []string{"ok", " "}}, wantErr: domain.ErrInvalidTag},
		{name: "Unknown priority", req: CreateTaskRequest{Title: "x", Priority: "urgent"}, wantErr: domain.ErrInvalidPriority},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddTask(tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Empty(t, svc.GetAllTasks())

	// failed adds never consume ids
	task := add(t, svc, CreateTaskRequest{Title: "first real task"})
	assert.Equal(t, int64(1), task.ID)
}

func TestAddTaskStoresAllFields(t *testing.T) {
	svc := newTestService(t)
	due := day(2025, 1, 15)
	pattern := &recurrence.Pattern{Type: recurrence.Weekly}

	task := add(t, svc, CreateTaskRequest{
		Title:       "  Review  ",
		Description: "code review",
		Priority:    entity.PriorityHigh,
		DueDate:     due,
		Tags:        []string{"work", "review", "work"},
		Recurrence:  pattern,
	})

	assert.Equal(t, "Review", task.Title)
	assert.Equal(t, "code review", task.Description)
	assert.Equal(t, entity.PriorityHigh, task.Priority)
	assert.Equal(t, []string{"work", "review"}, task.Tags)
	assert.Equal(t, *due, *task.DueDate)
	assert.Equal(t, recurrence.Weekly, task.Recurrence.Type)

	// the caller's values are copied, not shared
	due.Day = 20
	pattern.Type = recurrence.Daily
	assert.Equal(t, 15, task.DueDate.Day)
	assert.Equal(t, recurrence.Weekly, task.Recurrence.Type)
}

func TestIDsAreMonotonic(t *testing.T) {
	svc := newTestService(t)

	a := add(t, svc, CreateTaskRequest{Title: "a"})
	b := add(t, svc, CreateTaskRequest{Title: "b"})
	require.True(t, svc.DeleteTask(b.ID))
	_, err := svc.AddTask(CreateTaskRequest{Title: " "})
	require.Error(t, err)
	c := add(t, svc, CreateTaskRequest{Title: "c"})

	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
	assert.Equal(t, int64(3), c.ID)
}

func TestGetAllTasksReturnsSnapshotInCreationOrder(t *testing.T) {
	svc := newTestService(t)
	for _, title := range []string{"c", "a", "b"} {
		add(t, svc, CreateTaskRequest{Title: title})
	}

	all := svc.GetAllTasks()
	assert.Equal(t, []int64{1, 2, 3}, ids(all))

	all[0], all[2] = all[2], all[0]

	svc.MarkComplete(2)
	_, err := svc.UpdateTask(3, UpdateTaskRequest{Title: ptr("z")})
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 3}, ids(svc.GetAllTasks()))
}

func TestUpdateTask(t *testing.T) {
	svc := newTestService(t)
	task := add(t, svc, CreateTaskRequest{Title: "Original", Description: "desc"})

	ok, err := svc.UpdateTask(task.ID, UpdateTaskRequest{Description: ptr("")})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Original", task.Title)
	assert.Equal(t, "", task.Description)

	ok, err = svc.UpdateTask(task.ID, UpdateTaskRequest{Title: ptr("  New  "), Priority: ptr(entity.PriorityLow)})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "New", task.Title)
	assert.Equal(t, entity.PriorityLow, task.Priority)

	ok, err = svc.UpdateTask(99, UpdateTaskRequest{Title: ptr("x")})
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateTaskInvalidTitleLeavesTaskUnchanged(t *testing.T) {
	svc := newTestService(t)
	task := add(t, svc, CreateTaskRequest{Title: "Keep me", Description: "before"})

	ok, err := svc.UpdateTask(task.ID, UpdateTaskRequest{
		Title:       ptr("   "),
		Description: ptr("after"),
		Priority:    ptr(entity.PriorityHigh),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTitle)
	assert.False(t, ok)

	got, _ := svc.GetTask(task.ID)
	assert.Equal(t, "Keep me", got.Title)
	assert.Equal(t, "before", got.Description)
	assert.Equal(t, entity.PriorityMedium, got.Priority)

	_, err = svc.UpdateTask(task.ID, UpdateTaskRequest{Description: ptr("after"), Priority: ptr(entity.Priority("p0"))})
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)
	assert.Equal(t, "before", got.Description)
}

func TestSearchTasks(t *testing.T) {
	svc := newTestService(t)
	add(t, svc, CreateTaskRequest{Title: "Submit quarterly report", Description: "Complete Q4 financial summary"})
	add(t, svc, CreateTaskRequest{Title: "Buy groceries", Description: "Get milk, bread, and eggs"})
	add(t, svc, CreateTaskRequest{Title: "Review contract", Description: "Check legal terms"})
	add(t, svc, CreateTaskRequest{Title: "Call client", Description: "Discuss project scope"})
	add(t, svc, CreateTaskRequest{Title: "Update documentation", Description: "Review API docs"})

	tests := []struct {
		keyword  string
		expected []int64
	}{
		{keyword: "report", expected: []int64{1}},
		{keyword: "GROCERIES", expected: []int64{2}},
		{keyword: "review", expected: []int64{3, 5}},
		{keyword: "QUARTERLY", expected: []int64{1}},
		{keyword: "milk", expected: []int64{2}},
		{keyword: "nonexistent", expected: []int64{}},
		{keyword: "", expected: []int64{}},
		{keyword: "   ", expected: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(svc.SearchTasks(tt.keyword)))
		})
	}
}

func TestTags(t *testing.T) {
	svc := newTestService(t)
	task := add(t, svc, CreateTaskRequest{Title: "Tagged"})

	added, err := svc.AddTag(task.ID, "home")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = svc.AddTag(task.ID, "home")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, []string{"home"}, task.Tags)

	_, err = svc.AddTag(task.ID, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidTag)

	added, err = svc.AddTag(99, "home")
	assert.NoError(t, err)
	assert.False(t, added)

	assert.False(t, svc.RemoveTag(task.ID, "work"))
	assert.False(t, svc.RemoveTag(99, "home"))
	assert.True(t, svc.RemoveTag(task.ID, "home"))
	assert.Empty(t, task.Tags)
}

func TestReplaceTags(t *testing.T) {
	svc := newTestService(t)
	task := add(t, svc, CreateTaskRequest{Title: "Tagged", Tags: []string{"old"}})

	ok, err := svc.ReplaceTags(task.ID, []string{"b", " a ", "b"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, task.Tags)

	ok, err = svc.ReplaceTags(task.ID, []string{"c", ""})
	assert.ErrorIs(t, err, domain.ErrInvalidTag)
	assert.False(t, ok)
	assert.Equal(t, []string{"b", "a"}, task.Tags)

	ok, err = svc.ReplaceTags(99, []string{"c"})
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestGetSortedByDueDate(t *testing.T) {
	svc := newTestService(t)
	t1 := add(t, svc, CreateTaskRequest{Title: "Task 1", DueDate: day(2025, 1, 20)})
	t2 := add(t, svc, CreateTaskRequest{Title: "Task 2", DueDate: day(2025, 1, 10)})
	t3 := add(t, svc, CreateTaskRequest{Title: "Task 3"})
	t4 := add(t, svc, CreateTaskRequest{Title: "Task 4", DueDate: day(2025, 1, 15)})
	t5 := add(t, svc, CreateTaskRequest{Title: "Task 5"})
	t6 := add(t, svc, CreateTaskRequest{Title: "Task 6", DueDate: day(2025, 1, 10)})

	sorted := svc.GetSortedByDueDate()
	assert.Equal(t, []int64{t2.ID, t6.ID, t4.ID, t1.ID, t3.ID, t5.ID}, ids(sorted))

	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6}, ids(svc.GetAllTasks()))
}

func TestGetOverdueTasks(t *testing.T) {
	svc := newTestService(t)
	today := svc.Today()
	offset := func(n int) *civil.Date {
		d := today.AddDays(n)
		return &d
	}

	overdue := add(t, svc, CreateTaskRequest{Title: "Overdue", DueDate: offset(-5)})
	add(t, svc, CreateTaskRequest{Title: "Due today", DueDate: offset(0)})
	add(t, svc, CreateTaskRequest{Title: "Future", DueDate: offset(5)})
	done := add(t, svc, CreateTaskRequest{Title: "Overdue completed", DueDate: offset(-3)})
	add(t, svc, CreateTaskRequest{Title: "No due date"})
	yesterday := add(t, svc, CreateTaskRequest{Title: "Yesterday", DueDate: offset(-1)})
	svc.MarkComplete(done.ID)

	assert.Equal(t, []int64{overdue.ID, yesterday.ID}, ids(svc.GetOverdueTasks()))
}

func TestCompleteTaskNonRecurring(t *testing.T) {
	svc := newTestService(t)
	task := add(t, svc, CreateTaskRequest{Title: "One-time task"})

	next, err := svc.CompleteTask(task.ID)
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.True(t, task.Completed)
	assert.Len(t, svc.GetAllTasks(), 1)

	next, err = svc.CompleteTask(99)
	assert.NoError(t, err)
	assert.Nil(t, next)
}

func TestCompleteTaskRecurringChain(t *testing.T) {
	svc := newTestService(t)
	add(t, svc, CreateTaskRequest{Title: "filler"})
	standup := add(t, svc, CreateTaskRequest{
		Title:       "Standup",
		Description: "daily sync",
		Priority:    entity.PriorityHigh,
		DueDate:     day(2025, 1, 15),
		Tags:        []string{"team"},
		Recurrence:  &recurrence.Pattern{Type: recurrence.Daily},
	})

	next, err := svc.CompleteTask(standup.ID)
	require.NoError(t, err)
	require.NotNil(t, next)

	assert.True(t, standup.Completed)
	assert.Equal(t, standup.ID+1, next.ID)
	assert.Equal(t, civil.Date{Year: 2025, Month: time.January, Day: 16}, *next.DueDate)
	assert.False(t, next.Completed)
	assert.Equal(t, standup.Title, next.Title)
	assert.Equal(t, standup.Description, next.Description)
	assert.Equal(t, standup.Priority, next.Priority)
	assert.Equal(t, standup.Tags, next.Tags)
	assert.Equal(t, *standup.Recurrence, *next.Recurrence)

	stored, ok := svc.GetTask(next.ID)
	require.True(t, ok)
	assert.Same(t, next, stored)

	third, err := svc.CompleteTask(next.ID)
	require.NoError(t, err)
	assert.Equal(t, civil.Date{Year: 2025, Month: time.January, Day: 17}, *third.DueDate)
}

func TestCompleteTaskMonthlyClamp(t *testing.T) {
	svc := newTestService(t)
	task := add(t, svc, CreateTaskRequest{
		Title:      "Rent",
		DueDate:    day(2025, 1, 31),
		Recurrence: &recurrence.Pattern{Type: recurrence.Monthly},
	})

	next, err := svc.CompleteTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, civil.Date{Year: 2025, Month: time.February, Day: 28}, *next.DueDate)
}

func TestCompleteTaskRecurringWithoutDueDate(t *testing.T) {
	svc := newTestService(t)
	task := add(t, svc, CreateTaskRequest{
		Title:      "No date",
		Recurrence: &recurrence.Pattern{Type: recurrence.Weekly},
	})

	next, err := svc.CompleteTask(task.ID)
	assert.ErrorIs(t, err, domain.ErrMissingDueDate)
	assert.Nil(t, next)
	assert.False(t, task.Completed)
	assert.Len(t, svc.GetAllTasks(), 1)
}

func TestCompleteTaskCorruptRecurrence(t *testing.T) {
	svc := newTestService(t)
	task := add(t, svc, CreateTaskRequest{Title: "Odd", DueDate: day(2025, 1, 1)})
	task.Recurrence = &recurrence.Pattern{Type: "hourly"}

	_, err := svc.CompleteTask(task.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidRecurrence)
	assert.False(t, task.Completed)
}

func TestSetDueDateAndRecurrence(t *testing.T) {
	svc := newTestService(t)
	task := add(t, svc, CreateTaskRequest{Title: "Plan"})

	assert.True(t, svc.SetDueDate(task.ID, day(2025, 5, 1)))
	assert.Equal(t, 1, task.DueDate.Day)
	assert.True(t, svc.SetDueDate(task.ID, nil))
	assert.Nil(t, task.DueDate)
	assert.False(t, svc.SetDueDate(99, nil))

	ok, err := svc.SetRecurrence(task.ID, &recurrence.Pattern{Type: recurrence.Monthly})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, task.IsRecurring())

	_, err = svc.SetRecurrence(task.ID, &recurrence.Pattern{Type: "never"})
	assert.ErrorIs(t, err, domain.ErrInvalidRecurrence)
	assert.Equal(t, recurrence.Monthly, task.Recurrence.Type)

	ok, err = svc.SetRecurrence(task.ID, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, task.IsRecurring())
}

func TestFilterTasks(t *testing.T) {
	svc := newTestService(t)
	a := add(t, svc, CreateTaskRequest{Title: "a", Priority: entity.PriorityHigh, Tags: []string{"work", "urgent"}, DueDate: day(2025, 3, 1)})
	b := add(t, svc, CreateTaskRequest{Title: "b", Tags: []string{"work"}})
	c := add(t, svc, CreateTaskRequest{Title: "c", Priority: entity.PriorityHigh, DueDate: day(2025, 3, 20)})
	svc.MarkComplete(c.ID)

	tests := []struct {
		name     string
		filter   repository.TaskFilter
		expected []int64
	}{
		{name: "No criteria", filter: repository.TaskFilter{}, expected: []int64{a.ID, b.ID, c.ID}},
		{name: "Pending", filter: repository.TaskFilter{Completed: ptr(false)}, expected: []int64{a.ID, b.ID}},
		{name: "High priority", filter: repository.TaskFilter{Priority: ptr(entity.PriorityHigh)}, expected: []int64{a.ID, c.ID}},
		{name: "All tags", filter: repository.TaskFilter{Tags: []string{"work", "urgent"}}, expected: []int64{a.ID}},
		{name: "Due range", filter: repository.TaskFilter{DueFrom: day(2025, 3, 10), DueTo: day(2025, 3, 31)}, expected: []int64{c.ID}},
		{name: "Undated", filter: repository.TaskFilter{HasDue: ptr(false)}, expected: []int64{b.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(svc.FilterTasks(tt.filter)))
		})
	}
}

func TestGetStats(t *testing.T) {
	svc := newTestService(t)
	add(t, svc, CreateTaskRequest{Title: "a", Priority: entity.PriorityHigh, DueDate: day(2025, 3, 1)})
	b := add(t, svc, CreateTaskRequest{Title: "b", Recurrence: &recurrence.Pattern{Type: recurrence.Daily}})
	add(t, svc, CreateTaskRequest{Title: "c", Priority: entity.PriorityLow})
	svc.MarkComplete(b.ID)

	stats := svc.GetStats()
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 1, stats.Overdue)
	assert.Equal(t, 1, stats.Recurring)
	assert.Equal(t, 1, stats.ByPriority[entity.PriorityHigh])
	assert.Equal(t, 1, stats.ByPriority[entity.PriorityMedium])
	assert.Equal(t, 1, stats.ByPriority[entity.PriorityLow])
	assert.InDelta(t, 1.0/3.0, stats.CompletionRate(), 1e-9)

	assert.Zero(t, Stats{}.CompletionRate())
}

func TestCompleteTaskTwiceCreatesOneSuccessor(t *testing.T) {
	svc := newTestService(t)
	standup := add(t, svc, CreateTaskRequest{
		Title:      "Standup",
		DueDate:    day(2025, 1, 15),
		Recurrence: &recurrence.Pattern{Type: recurrence.Daily},
	})

	next, err := svc.CompleteTask(standup.ID)
	require.NoError(t, err)
	require.NotNil(t, next)

	again, err := svc.CompleteTask(standup.ID)
	require.NoError(t, err)
	assert.Nil(t, again)
	assert.True(t, standup.Completed)
	assert.Equal(t, []int64{standup.ID, next.ID}, ids(svc.GetAllTasks()))
}
