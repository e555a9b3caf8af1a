package monitor

import "time"

type Status struct {
	Archive      bool      `json:"archive"`
	ArchiveSize  int       `json:"archive_size"`
	Collaborator bool      `json:"collaborator"`
	LastCheck    time.Time `json:"last_check"`
}
