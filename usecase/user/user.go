package user

import (
	"context"

	"go.uber.org/zap"

	"github.com/kabulqd1101/kanban/domain"
	"github.com/kabulqd1101/kanban/repository"
)

// UseCase exposes read-only access to the seeded roster. There is no
// user-editing flow; the roster is immutable for the process lifetime.
type UseCase struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		logger: logger,
	}
}

func (uc *UseCase) ListUsers(ctx context.Context) ([]domain.User, error) {
	return uc.users.List(ctx)
}

func (uc *UseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return uc.users.GetByID(ctx, id)
}
