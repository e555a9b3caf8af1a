package report

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/kabulqd1101/kanban/domain"
	"github.com/kabulqd1101/kanban/internal/infrastructure/genai"
	"github.com/kabulqd1101/kanban/internal/infrastructure/reportstore"
	"github.com/kabulqd1101/kanban/repository"
)

// Fixed user-facing failure strings in the application's display
// language. The collaborator never surfaces raw errors to the user;
// causes go to the log instead.
const (
	msgWeeklyMissingKey = "错误：缺少 API Key。请先选择 Key。"
	msgWeeklyFailed     = "因 API 错误无法生成报告。"
	msgWeeklyEmpty      = "未生成报告。"
	msgGapMissingKey    = "错误：缺少 API Key。"
	msgGapFailed        = "无法分析任务。"
	msgGapEmpty         = "暂无分析结果。"
)

const weeklyTarget = "weekly"

// Service orchestrates the external report collaborator. Per target it
// admits a single in-flight request; a generation counter makes sure a
// superseded result is never archived over a newer one.
type Service struct {
	tasks     repository.TaskRepository
	users     repository.UserRepository
	generator genai.Generator
	archive   *reportstore.Store
	logger    *zap.Logger

	mu         sync.Mutex
	inFlight   map[string]bool
	generation map[string]uint64
}

func New(tasks repository.TaskRepository, users repository.UserRepository, generator genai.Generator, archive *reportstore.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		tasks:      tasks,
		users:      users,
		generator:  generator,
		archive:    archive,
		logger:     logger,
		inFlight:   make(map[string]bool),
		generation: make(map[string]uint64),
	}
}

// WeeklyReport asks the collaborator for a team status report over the
// full task collection. It always returns displayable text; only a
// concurrent duplicate request yields an error (domain.ErrReportInFlight).
func (s *Service) WeeklyReport(ctx context.Context, actingUserID string) (string, error) {
	token, err := s.begin(weeklyTarget)
	if err != nil {
		return "", err
	}
	defer s.end(weeklyTarget)

	if s.generator == nil || !s.generator.Configured() {
		s.logger.Warn("weekly report requested without a configured API key")
		return msgWeeklyMissingKey, nil
	}

	prompt, err := s.weeklyPrompt(ctx)
	if err != nil {
		s.logger.Error("failed to build weekly report prompt", zap.Error(err))
		return msgWeeklyFailed, nil
	}

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error("weekly report generation failed", zap.Error(err))
		return msgWeeklyFailed, nil
	}
	if strings.TrimSpace(text) == "" {
		s.logger.Warn("weekly report generation returned empty content")
		return msgWeeklyEmpty, nil
	}

	s.archiveIfCurrent(weeklyTarget, token, reportstore.Report{
		Kind:        reportstore.KindWeekly,
		Content:     text,
		GeneratedBy: actingUserID,
	})
	return text, nil
}

// AnalyzeGap asks the collaborator for plan-versus-actual commentary
// on a single task.
func (s *Service) AnalyzeGap(ctx context.Context, taskID, actingUserID string) (string, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return "", err
	}

	target := "gap:" + taskID
	token, err := s.begin(target)
	if err != nil {
		return "", err
	}
	defer s.end(target)

	if s.generator == nil || !s.generator.Configured() {
		s.logger.Warn("gap analysis requested without a configured API key", zap.String("task_id", taskID))
		return msgGapMissingKey, nil
	}

	text, err := s.generator.Generate(ctx, gapPrompt(task))
	if err != nil {
		s.logger.Error("gap analysis failed", zap.String("task_id", taskID), zap.Error(err))
		return msgGapFailed, nil
	}
	if strings.TrimSpace(text) == "" {
		s.logger.Warn("gap analysis returned empty content", zap.String("task_id", taskID))
		return msgGapEmpty, nil
	}

	s.archiveIfCurrent(target, token, reportstore.Report{
		Kind:        reportstore.KindGap,
		TargetID:    taskID,
		Content:     text,
		GeneratedBy: actingUserID,
	})
	return text, nil
}

// ArchivedReports lists previously generated reports, newest first.
func (s *Service) ArchivedReports(limit int) ([]reportstore.Report, error) {
	if s.archive == nil {
		return []reportstore.Report{}, nil
	}
	reports, err := s.archive.List(limit)
	if err != nil {
		return nil, err
	}
	if reports == nil {
		reports = []reportstore.Report{}
	}
	return reports, nil
}

// ArchivedReport fetches one archived report by id.
func (s *Service) ArchivedReport(id string) (*reportstore.Report, error) {
	if s.archive == nil {
		return nil, domain.NewError(domain.ErrCodeNotFound, "report not found")
	}
	report, err := s.archive.Get(id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, domain.NewError(domain.ErrCodeNotFound, "report not found")
	}
	return report, nil
}

func (s *Service) begin(target string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[target] {
		return 0, domain.ErrReportInFlight
	}
	s.inFlight[target] = true
	s.generation[target]++
	return s.generation[target], nil
}

func (s *Service) end(target string) {
	s.mu.Lock()
	s.inFlight[target] = false
	s.mu.Unlock()
}

func (s *Service) archiveIfCurrent(target string, token uint64, report reportstore.Report) {
	if s.archive == nil {
		return
	}
	s.mu.Lock()
	current := s.generation[target] == token
	s.mu.Unlock()
	if !current {
		s.logger.Debug("discarding stale report result", zap.String("target", target))
		return
	}
	if err := s.archive.Save(report); err != nil {
		s.logger.Warn("failed to archive report", zap.String("target", target), zap.Error(err))
	}
}

type taskProjection struct {
	Title    string  `json:"title"`
	Assignee string  `json:"assignee"`
	Status   string  `json:"status"`
	Plan     string  `json:"plan"`
	Actual   string  `json:"actual"`
	Gap      float64 `json:"gap"`
}

func (s *Service) weeklyPrompt(ctx context.Context) (string, error) {
	tasks, err := s.tasks.List(ctx, repository.TaskFilter{})
	if err != nil {
		return "", err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return "", err
	}

	names := make(map[string]string, len(users))
	for _, user := range users {
		names[user.ID] = user.Name
	}

	projection := make([]taskProjection, 0, len(tasks))
	for i := range tasks {
		task := &tasks[i]
		assignee, ok := names[task.AssigneeID]
		if !ok {
			assignee = "未知"
		}
		projection = append(projection, taskProjection{
			Title:    task.Title,
			Assignee: assignee,
			Status:   string(task.Status),
			Plan:     task.PlanContent,
			Actual:   task.ActualContent,
			Gap:      task.RemainingHours(),
		})
	}

	tasksJSON, err := json.Marshal(projection)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`请分析本周的任务数据，并生成一份简洁的【团队周报】。

报告必须使用中文（简体）撰写，并包含以下部分：
1. 执行摘要 (完成率、主要阻塞点)。
2. 个人高光时刻 (每个人取得了什么成就？)。
3. 风险评估 (哪些任务受阻或与计划偏差较大？)。

任务数据:
%s

请输出清晰的 Markdown 格式。`, tasksJSON), nil
}

func gapPrompt(task *domain.Task) string {
	return fmt.Sprintf(`请分析该任务“计划”与“实际”之间的偏差。
请用中文（简体）提供 1 句风险评估 和 1 句改进建议。

任务标题: %s
计划内容: %s
实际产出: %s
计划工时: %g
已用工时: %g`, task.Title, task.PlanContent, task.ActualContent, task.PlanHours, task.ActualHours)
}
