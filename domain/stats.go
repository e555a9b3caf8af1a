package domain

// DashboardStats is the fleet-wide roll-up shown on the analytics panel.
type DashboardStats struct {
	TotalTasks       int     `json:"total_tasks"`
	CompletedTasks   int     `json:"completed_tasks"`
	BlockedTasks     int     `json:"blocked_tasks"`
	TotalPlanHours   float64 `json:"total_plan_hours"`
	TotalActualHours float64 `json:"total_actual_hours"`
}

// RemainingBudget is the hour budget still unconsumed across the fleet.
func (s DashboardStats) RemainingBudget() float64 {
	return s.TotalPlanHours - s.TotalActualHours
}
