package repository

import (
	"context"

	"github.com/kabulqd1101/kanban/domain"
)

// TaskFilter narrows List results. Query is a case-insensitive
// substring match against title or plan content; an empty query
// matches everything.
type TaskFilter struct {
	Query      string
	AssigneeID string
	Status     domain.TaskStatus
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
}
