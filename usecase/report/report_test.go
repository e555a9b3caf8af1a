package report

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kabulqd1101/kanban/domain"
	"github.com/kabulqd1101/kanban/internal/infrastructure/reportstore"
	"github.com/kabulqd1101/kanban/repository/memory"
)

type stubGenerator struct {
	configured bool
	generate   func(ctx context.Context, prompt string) (string, error)
	calls      int
	mu         sync.Mutex
}

func (s *stubGenerator) Configured() bool { return s.configured }

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.generate == nil {
		return "", nil
	}
	return s.generate(ctx, prompt)
}

func (s *stubGenerator) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func boardFixture() (*memory.TaskRepository, *memory.UserRepository) {
	users := memory.NewUserRepository([]domain.User{
		{ID: "u1", Name: "Alice", Role: domain.RoleManager},
		{ID: "u2", Name: "Bob", Role: domain.RoleContributor},
	})
	tasks := memory.NewTaskRepository([]domain.Task{
		{ID: "t1", Title: "ship release", AssigneeID: "u1", Status: domain.StatusInProgress, PlanContent: "cut branch", ActualContent: "branch cut", PlanHours: 10, ActualHours: 4},
		{ID: "t2", Title: "fix flaky test", AssigneeID: "u2", Status: domain.StatusBlocked, PlanHours: 5, ActualHours: 8},
	})
	return tasks, users
}

func openArchive(t *testing.T) *reportstore.Store {
	t.Helper()
	store, err := reportstore.Open(filepath.Join(t.TempDir(), "reports.db"), "reports")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestWeeklyReport_MissingCredentialShortCircuits(t *testing.T) {
	tasks, users := boardFixture()
	gen := &stubGenerator{
		configured: false,
		generate: func(ctx context.Context, prompt string) (string, error) {
			t.Error("generator must not be invoked without a credential")
			return "", nil
		},
	}
	svc := New(tasks, users, gen, nil, nil)

	text, err := svc.WeeklyReport(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, msgWeeklyMissingKey, text)
	assert.Zero(t, gen.callCount(), "no network call may be attempted")
}

func TestWeeklyReport_GeneratorFailureDegradesToFixedString(t *testing.T) {
	tasks, users := boardFixture()
	gen := &stubGenerator{
		configured: true,
		generate: func(ctx context.Context, prompt string) (string, error) {
			return "", errors.New("upstream 500")
		},
	}
	svc := New(tasks, users, gen, nil, nil)

	text, err := svc.WeeklyReport(context.Background(), "u1")
	require.NoError(t, err, "failures never propagate past the boundary")
	assert.Equal(t, msgWeeklyFailed, text)
}

func TestWeeklyReport_EmptyResponseDegradesToFixedString(t *testing.T) {
	tasks, users := boardFixture()
	gen := &stubGenerator{configured: true}
	svc := New(tasks, users, gen, nil, nil)

	text, err := svc.WeeklyReport(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, msgWeeklyEmpty, text)
}

func TestWeeklyReport_PromptCarriesTaskProjection(t *testing.T) {
	tasks, users := boardFixture()
	var prompt string
	gen := &stubGenerator{
		configured: true,
		generate: func(ctx context.Context, p string) (string, error) {
			prompt = p
			return "周报内容", nil
		},
	}
	svc := New(tasks, users, gen, nil, nil)

	text, err := svc.WeeklyReport(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "周报内容", text)

	assert.Contains(t, prompt, "ship release")
	assert.Contains(t, prompt, "Alice", "assignee ids are resolved to names")
	assert.Contains(t, prompt, `"gap":6`)
	assert.Contains(t, prompt, `"gap":-3`)
}

func TestWeeklyReport_SuccessIsArchived(t *testing.T) {
	tasks, users := boardFixture()
	archive := openArchive(t)
	gen := &stubGenerator{
		configured: true,
		generate: func(ctx context.Context, prompt string) (string, error) {
			return "本周进展顺利。", nil
		},
	}
	svc := New(tasks, users, gen, archive, nil)

	_, err := svc.WeeklyReport(context.Background(), "u1")
	require.NoError(t, err)

	reports, err := svc.ArchivedReports(10)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, reportstore.KindWeekly, reports[0].Kind)
	assert.Equal(t, "本周进展顺利。", reports[0].Content)
	assert.Equal(t, "u1", reports[0].GeneratedBy)

	fetched, err := svc.ArchivedReport(reports[0].ID)
	require.NoError(t, err)
	assert.Equal(t, reports[0].Content, fetched.Content)
}

func TestWeeklyReport_SecondConcurrentRequestRefused(t *testing.T) {
	tasks, users := boardFixture()
	started := make(chan struct{})
	release := make(chan struct{})
	gen := &stubGenerator{
		configured: true,
		generate: func(ctx context.Context, prompt string) (string, error) {
			close(started)
			<-release
			return "最终报告", nil
		},
	}
	svc := New(tasks, users, gen, nil, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	var firstText string
	var firstErr error
	go func() {
		defer wg.Done()
		firstText, firstErr = svc.WeeklyReport(context.Background(), "u1")
	}()

	<-started
	_, err := svc.WeeklyReport(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrReportInFlight)

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)
	assert.Equal(t, "最终报告", firstText)
}

func TestAnalyzeGap_UnknownTask(t *testing.T) {
	tasks, users := boardFixture()
	svc := New(tasks, users, &stubGenerator{configured: true}, nil, nil)

	_, err := svc.AnalyzeGap(context.Background(), "missing", "u1")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestAnalyzeGap_MissingCredential(t *testing.T) {
	tasks, users := boardFixture()
	gen := &stubGenerator{
		configured: false,
		generate: func(ctx context.Context, prompt string) (string, error) {
			t.Error("generator must not be invoked without a credential")
			return "", nil
		},
	}
	svc := New(tasks, users, gen, nil, nil)

	text, err := svc.AnalyzeGap(context.Background(), "t1", "u1")
	require.NoError(t, err)
	assert.Equal(t, msgGapMissingKey, text)
	assert.Zero(t, gen.callCount())
}

func TestAnalyzeGap_PromptCarriesPlanAndActual(t *testing.T) {
	tasks, users := boardFixture()
	var prompt string
	gen := &stubGenerator{
		configured: true,
		generate: func(ctx context.Context, p string) (string, error) {
			prompt = p
			return "风险可控。建议提前同步。", nil
		},
	}
	svc := New(tasks, users, gen, nil, nil)

	text, err := svc.AnalyzeGap(context.Background(), "t1", "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, text)

	assert.Contains(t, prompt, "ship release")
	assert.Contains(t, prompt, "cut branch")
	assert.Contains(t, prompt, "branch cut")
}

func TestAnalyzeGap_DifferentTasksDoNotShareTheLatch(t *testing.T) {
	tasks, users := boardFixture()
	started := make(chan struct{})
	release := make(chan struct{})
	first := true
	var mu sync.Mutex
	gen := &stubGenerator{
		configured: true,
		generate: func(ctx context.Context, prompt string) (string, error) {
			mu.Lock()
			blocking := first
			first = false
			mu.Unlock()
			if blocking {
				close(started)
				<-release
			}
			return "分析完成", nil
		},
	}
	svc := New(tasks, users, gen, nil, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		svc.AnalyzeGap(context.Background(), "t1", "u1")
	}()

	<-started
	text, err := svc.AnalyzeGap(context.Background(), "t2", "u1")
	require.NoError(t, err, "requests for different targets may interleave")
	assert.Equal(t, "分析完成", text)

	close(release)
	wg.Wait()
}

func TestArchiveDiscardsSupersededResult(t *testing.T) {
	tasks, users := boardFixture()
	archive := openArchive(t)
	svc := New(tasks, users, &stubGenerator{configured: true}, archive, nil)

	token, err := svc.begin(weeklyTarget)
	require.NoError(t, err)
	svc.end(weeklyTarget)

	// a newer generation supersedes the captured token
	_, err = svc.begin(weeklyTarget)
	require.NoError(t, err)
	svc.end(weeklyTarget)

	svc.archiveIfCurrent(weeklyTarget, token, reportstore.Report{
		Kind:    reportstore.KindWeekly,
		Content: "stale",
	})

	reports, err := svc.ArchivedReports(10)
	require.NoError(t, err)
	assert.Empty(t, reports, "a superseded result must not be archived")
}
