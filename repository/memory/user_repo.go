package memory

import (
	"context"
	"sync"

	"github.com/kabulqd1101/kanban/domain"
	"github.com/kabulqd1101/kanban/repository"
)

// UserRepository serves the seeded team roster. Users are read-only
// for the lifetime of the process, so List always returns them in
// seed order.
type UserRepository struct {
	mu    sync.RWMutex
	users []domain.User
	index map[string]int
}

func NewUserRepository(seed []domain.User) *UserRepository {
	repo := &UserRepository{
		users: make([]domain.User, 0, len(seed)),
		index: make(map[string]int, len(seed)),
	}
	for _, user := range seed {
		if user.ID == "" {
			continue
		}
		if _, exists := repo.index[user.ID]; exists {
			continue
		}
		repo.index[user.ID] = len(repo.users)
		repo.users = append(repo.users, user)
	}
	return repo
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pos, ok := r.index[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user := r.users[pos]
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, len(r.users))
	copy(users, r.users)
	return users, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
