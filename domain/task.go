package domain

import "time"

// TaskStatus is the closed set of board columns a task can occupy.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusDone       TaskStatus = "DONE"
	StatusBlocked    TaskStatus = "BLOCKED"
)

// AllStatuses lists every status in fixed display order. Grouping code
// iterates this slice so empty columns still render.
var AllStatuses = []TaskStatus{StatusTodo, StatusInProgress, StatusDone, StatusBlocked}

// StatusLabel returns the display label for a status in the
// application's display language.
func StatusLabel(status TaskStatus) string {
	switch status {
	case StatusTodo:
		return "待办"
	case StatusInProgress:
		return "进行中"
	case StatusDone:
		return "已完成"
	case StatusBlocked:
		return "阻塞"
	default:
		return string(status)
	}
}

// IsValid reports whether the status is one of the four board columns.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone, StatusBlocked:
		return true
	}
	return false
}

// Task represents a single card on the board. Tasks are replaced
// wholesale on every save; there is no field-level patching.
type Task struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	AssigneeID    string     `json:"assignee_id"`
	Status        TaskStatus `json:"status"`
	PlanContent   string     `json:"plan_content,omitempty"`
	ActualContent string     `json:"actual_content,omitempty"`
	PlanHours     float64    `json:"plan_hours"`
	ActualHours   float64    `json:"actual_hours"`
	Deadline      time.Time  `json:"deadline"`
	LastUpdated   time.Time  `json:"last_updated"`
	UpdatedBy     string     `json:"updated_by"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusDone
}

// RemainingHours is plan minus actual. Negative means the task is over
// budget; that is a signal, not an error.
func (t *Task) RemainingHours() float64 {
	if t == nil {
		return 0
	}
	return t.PlanHours - t.ActualHours
}

// Progress returns the consumed share of the planned hours as a
// percentage, capped at 100. A zero plan is treated as a plan of one
// hour so the ratio is always defined.
func (t *Task) Progress() float64 {
	if t == nil {
		return 0
	}
	plan := t.PlanHours
	if plan <= 0 {
		plan = 1
	}
	progress := t.ActualHours / plan * 100
	if progress > 100 {
		return 100
	}
	return progress
}

// IsOverdue reports whether the deadline has passed for an unfinished
// task. It is derived from the supplied reference time on every call
// and never stored.
func (t *Task) IsOverdue(now time.Time) bool {
	if t == nil || t.Status == StatusDone {
		return false
	}
	return t.Deadline.Before(now)
}
