package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgress_ZeroPlanTreatedAsOneHour(t *testing.T) {
	task := &Task{PlanHours: 0, ActualHours: 0.5}
	assert.InDelta(t, 50.0, task.Progress(), 0.0001)

	task = &Task{PlanHours: 0, ActualHours: 3}
	assert.Equal(t, 100.0, task.Progress(), "zero plan with consumed hours caps at 100")
}

func TestProgress_CappedAtHundred(t *testing.T) {
	task := &Task{PlanHours: 5, ActualHours: 8}
	assert.Equal(t, 100.0, task.Progress())
	assert.Equal(t, -3.0, task.RemainingHours(), "over-budget is signalled by remaining hours, not the ratio")
}

func TestProgress_Partial(t *testing.T) {
	task := &Task{PlanHours: 10, ActualHours: 4}
	assert.InDelta(t, 40.0, task.Progress(), 0.0001)
}

func TestIsOverdue_DoneNeverOverdue(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	pastDeadline := now.AddDate(0, 0, -7)

	for _, status := range AllStatuses {
		task := &Task{Status: status, Deadline: pastDeadline}
		if status == StatusDone {
			assert.False(t, task.IsOverdue(now), "done tasks are never overdue")
		} else {
			assert.True(t, task.IsOverdue(now), "past deadline with status %s", status)
		}
	}
}

func TestIsOverdue_FutureDeadline(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	task := &Task{Status: StatusInProgress, Deadline: now.AddDate(0, 0, 3)}
	assert.False(t, task.IsOverdue(now))
}

func TestStatusValidation(t *testing.T) {
	for _, status := range AllStatuses {
		assert.True(t, status.IsValid())
	}
	assert.False(t, TaskStatus("ARCHIVED").IsValid())
	assert.False(t, TaskStatus("").IsValid())
}

func TestStatusLabelsCoverAllStatuses(t *testing.T) {
	for _, status := range AllStatuses {
		assert.NotEqual(t, string(status), StatusLabel(status), "every status has a display label")
	}
}
