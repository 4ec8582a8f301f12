package users

// Role of a user on the board
type Role string

const (
	// RoleAdmin sees the tasks of the team reporting to them
	RoleAdmin Role = "Admin"
	// RoleUser sees their own tasks
	RoleUser Role = "User"
)

// User is the model for a board user
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
}

// ReportingEdge means UserID reports to ReportToUserID
type ReportingEdge struct {
	ID             string `json:"id"`
	UserID         string `json:"userId"`
	ReportToUserID string `json:"reportToUserId"`
}
