package task

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kabulqd1101/kanban/domain"
	"github.com/kabulqd1101/kanban/repository"
)

// UseCase manages the edit lifecycle of a single task: it builds
// drafts, finalizes them on submit and removes tasks on delete. Drafts
// are plain values; no session state is held between calls.
type UseCase struct {
	tasks  repository.TaskRepository
	users  repository.UserRepository
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// Option customizes a UseCase.
type Option func(*UseCase)

// WithClock injects the time source used for deadline defaults and
// last-updated stamps.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) {
		if now != nil {
			uc.now = now
		}
	}
}

// WithIDGenerator injects the id source for freshly created tasks.
func WithIDGenerator(newID func() string) Option {
	return func(uc *UseCase) {
		if newID != nil {
			uc.newID = newID
		}
	}
}

func New(tasks repository.TaskRepository, users repository.UserRepository, logger *zap.Logger, opts ...Option) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	uc := &UseCase{
		tasks:  tasks,
		users:  users,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *UseCase) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	return uc.tasks.List(ctx, filter)
}

func (uc *UseCase) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return uc.tasks.GetByID(ctx, id)
}

// NewDraft builds the default draft for a fresh task: status TODO,
// zero hours, deadline today, assigned to the acting user.
func (uc *UseCase) NewDraft(ctx context.Context, actingUserID string) *domain.Task {
	today := uc.now().UTC().Truncate(24 * time.Hour)
	return &domain.Task{
		Status:     domain.StatusTodo,
		AssigneeID: actingUserID,
		Deadline:   today,
	}
}

// EditDraft returns a copy of the stored task to edit. The stored
// record stays untouched until the draft is submitted.
func (uc *UseCase) EditDraft(ctx context.Context, id string) (*domain.Task, error) {
	return uc.tasks.GetByID(ctx, id)
}

// Submit finalizes a draft: it refuses an empty title, assigns a fresh
// id to new drafts, stamps the audit fields and writes the task to the
// collection (insert for new ids, wholesale replace for existing ones).
func (uc *UseCase) Submit(ctx context.Context, draft domain.Task, actingUserID string) (*domain.Task, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return nil, domain.ErrEmptyTitle
	}
	if !draft.Status.IsValid() {
		draft.Status = domain.StatusTodo
	}
	draft.AssigneeID = uc.resolveAssignee(ctx, draft.AssigneeID, actingUserID)

	now := uc.now()
	draft.LastUpdated = now
	draft.UpdatedBy = actingUserID
	draft.Deadline = normalizeDeadline(draft.Deadline, now)

	if draft.ID == "" {
		return uc.insert(ctx, draft)
	}

	if err := uc.tasks.Update(ctx, &draft); err != nil {
		if err == domain.ErrTaskNotFound {
			// Editing a task that was deleted underneath the draft;
			// re-insert it under its original id.
			return uc.tasks.Create(ctx, &draft)
		}
		return nil, err
	}
	uc.logger.Debug("task updated", zap.String("task_id", draft.ID))
	return &draft, nil
}

func (uc *UseCase) DeleteTask(ctx context.Context, id string) error {
	if err := uc.tasks.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Debug("task deleted", zap.String("task_id", id))
	return nil
}

func (uc *UseCase) insert(ctx context.Context, draft domain.Task) (*domain.Task, error) {
	// uuid collisions are theoretical; the retry keeps the id-uniqueness
	// invariant unconditional anyway.
	for attempt := 0; attempt < 3; attempt++ {
		draft.ID = uc.newID()
		created, err := uc.tasks.Create(ctx, &draft)
		if err == domain.ErrTaskExists {
			continue
		}
		if err != nil {
			return nil, err
		}
		uc.logger.Debug("task created", zap.String("task_id", created.ID))
		return created, nil
	}
	return nil, domain.ErrTaskExists
}

// resolveAssignee keeps every task owned by a roster member; an unknown
// or missing assignee lands on the submitter.
func (uc *UseCase) resolveAssignee(ctx context.Context, assigneeID, actingUserID string) string {
	if assigneeID == "" {
		return actingUserID
	}
	if uc.users != nil {
		if _, err := uc.users.GetByID(ctx, assigneeID); err != nil {
			uc.logger.Warn("unknown assignee on submit, reassigning to submitter",
				zap.String("assignee_id", assigneeID))
			return actingUserID
		}
	}
	return assigneeID
}

// normalizeDeadline pins the deadline to a canonical absolute UTC
// instant, defaulting to today when the draft carries none.
func normalizeDeadline(deadline time.Time, now time.Time) time.Time {
	if deadline.IsZero() {
		return now.UTC().Truncate(24 * time.Hour)
	}
	return deadline.UTC()
}
