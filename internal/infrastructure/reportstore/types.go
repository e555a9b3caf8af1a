package reportstore

import (
	"time"

	"github.com/google/uuid"
)

const (
	KindWeekly = "weekly"
	KindGap    = "gap"
)

// Report is one archived collaborator response. The task collection
// itself is never persisted; the archive only keeps what the external
// service produced, for operators.
type Report struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	TargetID    string    `json:"target_id,omitempty"`
	Content     string    `json:"content"`
	GeneratedBy string    `json:"generated_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	storeKey []byte
}

func (r *Report) normalize() {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Kind == "" {
		r.Kind = KindWeekly
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
}
