package memory

import (
	"sync"

	"todo/domain"
	"todo/domain/entity"
	"todo/domain/repository"
)

// taskRepository implements repository.TaskRepository on a slice kept in creation order
type taskRepository struct {
	mu     sync.RWMutex
	tasks  []*entity.Task
	nextID int64
}

// NewTaskRepository creates an empty in-memory task repository whose first id is 1
func NewTaskRepository() repository.TaskRepository {
	return &taskRepository{nextID: 1}
}

func (r *taskRepository) Create(task *entity.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task.ID = r.nextID
	r.tasks = append(r.tasks, task)
	r.nextID++

	return nil
}

func (r *taskRepository) FindByID(id int64) (*entity.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	return r.tasks[i], nil
}

func (r *taskRepository) Update(id int64, fn func(task *entity.Task) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	return fn(r.tasks[i])
}

func (r *taskRepository) Delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.ErrNotFound
	}

	copy(r.tasks[i:], r.tasks[i+1:])
	r.tasks[len(r.tasks)-1] = nil
	r.tasks = r.tasks[:len(r.tasks)-1]

	return nil
}

func (r *taskRepository) List() []*entity.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.Task, len(r.tasks))
	copy(out, r.tasks)
	return out
}

func (r *taskRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.tasks)
}

// indexOf does a linear scan; callers hold the lock
func (r *taskRepository) indexOf(id int64) int {
	for i, task := range r.tasks {
		if task.ID == id {
			return i
		}
	}
	return -1
}
