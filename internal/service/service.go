package service

import "context"

// Auth groups the unauthenticated session operations.
type Auth interface {
	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, creds Credentials) (LoginResult, error)

	// Register creates an account. It does not log the user in.
	// The returned string is the server's confirmation text, if any.
	Register(ctx context.Context, creds Credentials) (string, error)

	// Refresh exchanges the current bearer token for a new one.
	Refresh(ctx context.Context) (LoginResult, error)
}

// Projects groups project operations.
type Projects interface {
	// ListProjects returns all projects of the current user in server order.
	ListProjects(ctx context.Context) ([]Project, error)

	// GetProject returns a single project.
	GetProject(ctx context.Context, id int64) (Project, error)

	// CreateProject creates a project and returns it.
	CreateProject(ctx context.Context, title, description string) (Project, error)

	// Progress returns the completion snapshot of a project.
	Progress(ctx context.Context, id int64) (Progress, error)
}

// Tasks groups task operations. All are scoped to one project.
type Tasks interface {
	// ListTasks returns the tasks of a project in server order.
	ListTasks(ctx context.Context, projectID int64) ([]Task, error)

	// CreateTask creates a task in a project.
	CreateTask(ctx context.Context, projectID int64, task NewTask) (Task, error)

	// ToggleComplete flips the completion state of a task.
	ToggleComplete(ctx context.Context, projectID, taskID int64) (Task, error)

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, projectID, taskID int64) error
}

// Service defines the interface for all backend operations.
// Commands, screens and the UI never import the HTTP layer directly.
// Every method is a single round trip: no retries, no caching.
type Service interface {
	Auth
	Projects
	Tasks
}
