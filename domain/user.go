package domain

// Role classifies a team member on the board.
type Role string

const (
	RoleManager     Role = "Manager"
	RoleContributor Role = "Contributor"
)

// User represents a seeded team member. The user set is fixed at
// startup; the application never creates, mutates or deletes users.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Role   Role   `json:"role"`
}

func (u *User) IsManager() bool {
	return u != nil && u.Role == RoleManager
}
