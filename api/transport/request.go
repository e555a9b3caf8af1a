package transport

// TaskRequest is the editor submission payload. Deadline accepts a
// date-only value (2006-01-02) or a full RFC 3339 timestamp.
type TaskRequest struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	AssigneeID    string  `json:"assignee_id"`
	Status        string  `json:"status"`
	PlanContent   string  `json:"plan_content"`
	ActualContent string  `json:"actual_content"`
	PlanHours     float64 `json:"plan_hours"`
	ActualHours   float64 `json:"actual_hours"`
	Deadline      string  `json:"deadline"`
}
