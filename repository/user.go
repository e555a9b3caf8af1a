package repository

import (
	"context"

	"github.com/kabulqd1101/kanban/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}
