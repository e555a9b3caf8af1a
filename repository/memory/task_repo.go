package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/kabulqd1101/kanban/domain"
	"github.com/kabulqd1101/kanban/repository"
)

// TaskRepository keeps the task collection in process memory. The
// board owns the collection exclusively; every read hands out copies
// so callers always work on a snapshot.
type TaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]domain.Task
	order []string
}

func NewTaskRepository(seed []domain.Task) *TaskRepository {
	repo := &TaskRepository{
		tasks: make(map[string]domain.Task, len(seed)),
		order: make([]string, 0, len(seed)),
	}
	for _, task := range seed {
		if task.ID == "" {
			continue
		}
		if _, exists := repo.tasks[task.ID]; exists {
			continue
		}
		repo.tasks[task.ID] = task
		repo.order = append(repo.order, task.ID)
	}
	return repo
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	copied := task
	return &copied, nil
}

func (r *TaskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]domain.Task, 0, len(r.order))
	for _, id := range r.order {
		task := r.tasks[id]
		if !matches(task, filter) {
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil || task.ID == "" {
		return nil, domain.ErrInvalidPayload
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[task.ID]; exists {
		return nil, domain.ErrTaskExists
	}
	r.tasks[task.ID] = *task
	r.order = append(r.order, task.ID)

	created := *task
	return &created, nil
}

// Update replaces the stored task wholesale; there is no field-level merge.
func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil || task.ID == "" {
		return domain.ErrInvalidPayload
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[task.ID]; !exists {
		return domain.ErrTaskNotFound
	}
	r.tasks[task.ID] = *task
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[id]; !exists {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func matches(task domain.Task, filter repository.TaskFilter) bool {
	if filter.AssigneeID != "" && task.AssigneeID != filter.AssigneeID {
		return false
	}
	if filter.Status != "" && task.Status != filter.Status {
		return false
	}
	if filter.Query != "" {
		query := strings.ToLower(filter.Query)
		title := strings.ToLower(task.Title)
		plan := strings.ToLower(task.PlanContent)
		if !strings.Contains(title, query) && !strings.Contains(plan, query) {
			return false
		}
	}
	return true
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
