// Package service defines the backend-agnostic types and interfaces for
// project and task operations.
package service

// Project is a container of tasks owned by the logged-in user.
type Project struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Task belongs to exactly one project.
type Task struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate,omitempty"` // YYYY-MM-DD or empty
	Completed   bool   `json:"completed"`
}

// Progress is the server-computed completion snapshot of a project.
type Progress struct {
	ProjectID          int64   `json:"projectId"`
	ProjectTitle       string  `json:"projectTitle,omitempty"`
	TotalTasks         int     `json:"totalTasks"`
	CompletedTasks     int     `json:"completedTasks"`
	ProgressPercentage float64 `json:"progressPercentage"`
}

// Credentials are sent on login and registration.
// Name is only used by registration and may be empty.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// LoginResult is returned by a successful login or refresh.
type LoginResult struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType,omitempty"`
}

// NewTask is the payload for task creation.
type NewTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
}
