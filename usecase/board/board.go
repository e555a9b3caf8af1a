package board

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/kabulqd1101/kanban/domain"
	"github.com/kabulqd1101/kanban/repository"
)

// Service derives every read-only view over the task collection:
// member swimlanes, status columns, the standup walkthrough and the
// analytics roll-up. It never mutates tasks or users and recomputes
// each view from a fresh snapshot on every call.
type Service struct {
	tasks  repository.TaskRepository
	users  repository.UserRepository
	logger *zap.Logger
	now    func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock injects the time source used by the overdue derivation.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func New(tasks repository.TaskRepository, users repository.UserRepository, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		tasks:  tasks,
		users:  users,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Swimlane groups one user's tasks on the member view.
type Swimlane struct {
	User        domain.User   `json:"user"`
	Tasks       []domain.Task `json:"tasks"`
	NetWorkload float64       `json:"net_workload"`
}

// StatusColumn is one of the four fixed board columns.
type StatusColumn struct {
	Status domain.TaskStatus `json:"status"`
	Label  string            `json:"label"`
	Tasks  []domain.Task     `json:"tasks"`
	Count  int               `json:"count"`
}

// StandupPage is one stop of the standup walkthrough: a single user
// with their done, in-progress and blocked tasks.
type StandupPage struct {
	User       domain.User   `json:"user"`
	Index      int           `json:"index"`
	TotalUsers int           `json:"total_users"`
	HasPrev    bool          `json:"has_prev"`
	HasNext    bool          `json:"has_next"`
	Done       []domain.Task `json:"done"`
	InProgress []domain.Task `json:"in_progress"`
	Blocked    []domain.Task `json:"blocked"`
}

// WorkloadRow compares one user's planned and consumed hours.
type WorkloadRow struct {
	UserID      string  `json:"user_id"`
	Name        string  `json:"name"`
	PlanHours   float64 `json:"plan_hours"`
	ActualHours float64 `json:"actual_hours"`
}

// StatusCount is one slice of the status distribution.
type StatusCount struct {
	Status domain.TaskStatus `json:"status"`
	Label  string            `json:"label"`
	Count  int               `json:"count"`
}

// AnalyticsReport is the full analytics panel payload.
type AnalyticsReport struct {
	Workload           []WorkloadRow         `json:"workload"`
	StatusDistribution []StatusCount         `json:"status_distribution"`
	CompletionRate     int                   `json:"completion_rate"`
	OverdueTasks       int                   `json:"overdue_tasks"`
	Stats              domain.DashboardStats `json:"stats"`
	RemainingBudget    float64               `json:"remaining_budget"`
}

// Swimlanes partitions the (query-filtered) tasks by assignee. Every
// seeded user gets a lane, in roster order; users with no matching
// tasks get an empty lane rather than being omitted.
func (s *Service) Swimlanes(ctx context.Context, query string) ([]Swimlane, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.List(ctx, repository.TaskFilter{Query: query})
	if err != nil {
		return nil, err
	}

	byAssignee := make(map[string][]domain.Task, len(users))
	for _, task := range tasks {
		byAssignee[task.AssigneeID] = append(byAssignee[task.AssigneeID], task)
	}

	lanes := make([]Swimlane, 0, len(users))
	for _, user := range users {
		userTasks := byAssignee[user.ID]
		if userTasks == nil {
			userTasks = []domain.Task{}
		}
		var net float64
		for i := range userTasks {
			net += userTasks[i].RemainingHours()
		}
		lanes = append(lanes, Swimlane{
			User:        user,
			Tasks:       userTasks,
			NetWorkload: net,
		})
	}
	return lanes, nil
}

// StatusColumns partitions the (query-filtered) tasks into the four
// fixed status buckets, in display order. Empty buckets are present
// with a zero count.
func (s *Service) StatusColumns(ctx context.Context, query string) ([]StatusColumn, error) {
	tasks, err := s.tasks.List(ctx, repository.TaskFilter{Query: query})
	if err != nil {
		return nil, err
	}

	byStatus := make(map[domain.TaskStatus][]domain.Task, len(domain.AllStatuses))
	for _, task := range tasks {
		byStatus[task.Status] = append(byStatus[task.Status], task)
	}

	columns := make([]StatusColumn, 0, len(domain.AllStatuses))
	for _, status := range domain.AllStatuses {
		statusTasks := byStatus[status]
		if statusTasks == nil {
			statusTasks = []domain.Task{}
		}
		columns = append(columns, StatusColumn{
			Status: status,
			Label:  domain.StatusLabel(status),
			Tasks:  statusTasks,
			Count:  len(statusTasks),
		})
	}
	return columns, nil
}

// Standup returns the walkthrough page for the user at index. The
// index is clamped into the roster range so arrow-style navigation can
// never run off either end.
func (s *Service) Standup(ctx context.Context, index int) (*StandupPage, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, domain.ErrUserNotFound
	}
	if index < 0 {
		index = 0
	}
	if index > len(users)-1 {
		index = len(users) - 1
	}

	user := users[index]
	userTasks, err := s.tasks.List(ctx, repository.TaskFilter{AssigneeID: user.ID})
	if err != nil {
		return nil, err
	}

	page := &StandupPage{
		User:       user,
		Index:      index,
		TotalUsers: len(users),
		HasPrev:    index > 0,
		HasNext:    index < len(users)-1,
		Done:       []domain.Task{},
		InProgress: []domain.Task{},
		Blocked:    []domain.Task{},
	}
	for _, task := range userTasks {
		switch task.Status {
		case domain.StatusDone:
			page.Done = append(page.Done, task)
		case domain.StatusInProgress:
			page.InProgress = append(page.InProgress, task)
		case domain.StatusBlocked:
			page.Blocked = append(page.Blocked, task)
		}
	}
	return page, nil
}

// Analytics computes the fleet-wide roll-up: per-user workload rows,
// the status distribution, the completion rate (0 on an empty
// collection) and the overdue count as of the injected clock.
func (s *Service) Analytics(ctx context.Context) (*AnalyticsReport, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.List(ctx, repository.TaskFilter{})
	if err != nil {
		return nil, err
	}

	report := &AnalyticsReport{
		Workload:           make([]WorkloadRow, 0, len(users)),
		StatusDistribution: make([]StatusCount, 0, len(domain.AllStatuses)),
	}

	hoursByUser := make(map[string]*WorkloadRow, len(users))
	for _, user := range users {
		row := WorkloadRow{UserID: user.ID, Name: user.Name}
		report.Workload = append(report.Workload, row)
		hoursByUser[user.ID] = &report.Workload[len(report.Workload)-1]
	}

	now := s.now()
	countByStatus := make(map[domain.TaskStatus]int, len(domain.AllStatuses))
	for i := range tasks {
		task := &tasks[i]
		countByStatus[task.Status]++
		report.Stats.TotalTasks++
		report.Stats.TotalPlanHours += task.PlanHours
		report.Stats.TotalActualHours += task.ActualHours
		if task.IsCompleted() {
			report.Stats.CompletedTasks++
		}
		if task.Status == domain.StatusBlocked {
			report.Stats.BlockedTasks++
		}
		if task.IsOverdue(now) {
			report.OverdueTasks++
		}
		if row, ok := hoursByUser[task.AssigneeID]; ok {
			row.PlanHours += task.PlanHours
			row.ActualHours += task.ActualHours
		}
	}

	for _, status := range domain.AllStatuses {
		report.StatusDistribution = append(report.StatusDistribution, StatusCount{
			Status: status,
			Label:  domain.StatusLabel(status),
			Count:  countByStatus[status],
		})
	}

	report.CompletionRate = completionRate(report.Stats.CompletedTasks, report.Stats.TotalTasks)
	report.RemainingBudget = report.Stats.RemainingBudget()
	return report, nil
}

// completionRate is the done share as a rounded percentage. An empty
// collection yields 0 rather than a division-by-zero value.
func completionRate(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}
