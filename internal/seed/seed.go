package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/kabulqd1101/kanban/domain"
)

//go:embed board.json
var defaultBoard []byte

// Data is the fixed initial dataset the board starts from: an ordered
// roster of users and an ordered list of tasks referencing them.
type Data struct {
	Users []domain.User `json:"users"`
	Tasks []domain.Task `json:"tasks"`
}

// Load reads the seed dataset from path, falling back to the embedded
// default board when no path is configured.
func Load(path string) (*Data, error) {
	raw := defaultBoard
	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		raw = content
	}
	return Parse(raw)
}

// Parse decodes and validates a seed document.
func Parse(raw []byte) (*Data, error) {
	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode seed data: %w", err)
	}
	if len(data.Users) == 0 {
		return nil, fmt.Errorf("seed data contains no users")
	}
	for i, task := range data.Tasks {
		if task.ID == "" {
			return nil, fmt.Errorf("seed task %d has no id", i)
		}
		if !task.Status.IsValid() {
			return nil, fmt.Errorf("seed task %q has unknown status %q", task.ID, task.Status)
		}
	}
	return &data, nil
}
