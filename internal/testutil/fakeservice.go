// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/api/googleapi"

	"ptask/internal/service"
)

// ErrNotFound is returned when a resource is not found.
var ErrNotFound = &googleapi.Error{Code: 404, Message: "not found"}

// Unauthorized returns an error shaped like a gateway 401.
func Unauthorized() error {
	return fmt.Errorf("%w: %w", service.ErrUnauthorized, &googleapi.Error{Code: 401})
}

// ServerError returns an error shaped like a non-auth server failure.
func ServerError(code int, message string) error {
	return &googleapi.Error{Code: code, Message: message}
}

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu       sync.Mutex
	users    map[string]string // email -> password
	projects []service.Project
	tasks    map[int64][]service.Task
	nextID   int64
	calls    map[string]int

	// Token is returned by Login and Refresh.
	Token string

	// Error injection for testing
	LoginErr         error
	RegisterErr      error
	RefreshErr       error
	ListProjectsErr  error
	GetProjectErr    error
	CreateProjectErr error
	ProgressErr      error
	ListTasksErr     error
	CreateTaskErr    error
	ToggleErr        error
	DeleteTaskErr    error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		users: make(map[string]string),
		tasks: make(map[int64][]service.Task),
		calls: make(map[string]int),
		Token: "fake-token",
	}
}

// AddUser adds an account.
func (f *FakeService) AddUser(email, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[email] = password
}

// AddProject adds a project and returns it.
func (f *FakeService) AddProject(title, description string) service.Project {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p := service.Project{ID: f.nextID, Title: title, Description: description}
	f.projects = append(f.projects, p)
	return p
}

// AddTask adds a task to a project and returns it.
func (f *FakeService) AddTask(projectID int64, title string, completed bool) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	t := service.Task{ID: f.nextID, Title: title, Completed: completed}
	f.tasks[projectID] = append(f.tasks[projectID], t)
	return t
}

// Calls returns how often the named method was invoked.
func (f *FakeService) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// TotalCalls returns the number of invocations of any method.
func (f *FakeService) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *FakeService) call(method string, injected error) error {
	f.mu.Lock()
	f.calls[method]++
	f.mu.Unlock()
	return injected
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, creds service.Credentials) (service.LoginResult, error) {
	if err := f.call("Login", f.LoginErr); err != nil {
		return service.LoginResult{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if pw, ok := f.users[creds.Email]; !ok || pw != creds.Password {
		return service.LoginResult{}, &googleapi.Error{Code: 401, Message: "Bad credentials"}
	}
	return service.LoginResult{AccessToken: f.Token, TokenType: "Bearer"}, nil
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, creds service.Credentials) (string, error) {
	if err := f.call("Register", f.RegisterErr); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[creds.Email]; exists {
		return "", &googleapi.Error{Code: 400, Message: "Email address is already taken!"}
	}
	f.users[creds.Email] = creds.Password
	return "User registered successfully", nil
}

// Refresh implements service.Service.
func (f *FakeService) Refresh(ctx context.Context) (service.LoginResult, error) {
	if err := f.call("Refresh", f.RefreshErr); err != nil {
		return service.LoginResult{}, err
	}
	return service.LoginResult{AccessToken: f.Token + "-refreshed", TokenType: "Bearer"}, nil
}

// ListProjects implements service.Service.
func (f *FakeService) ListProjects(ctx context.Context) ([]service.Project, error) {
	if err := f.call("ListProjects", f.ListProjectsErr); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]service.Project, len(f.projects))
	copy(out, f.projects)
	return out, nil
}

// GetProject implements service.Service.
func (f *FakeService) GetProject(ctx context.Context, id int64) (service.Project, error) {
	if err := f.call("GetProject", f.GetProjectErr); err != nil {
		return service.Project{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return service.Project{}, ErrNotFound
}

// CreateProject implements service.Service.
func (f *FakeService) CreateProject(ctx context.Context, title, description string) (service.Project, error) {
	if err := f.call("CreateProject", f.CreateProjectErr); err != nil {
		return service.Project{}, err
	}
	return f.AddProject(title, description), nil
}

// Progress implements service.Service.
func (f *FakeService) Progress(ctx context.Context, id int64) (service.Progress, error) {
	if err := f.call("Progress", f.ProgressErr); err != nil {
		return service.Progress{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	prog := service.Progress{ProjectID: id, TotalTasks: len(f.tasks[id])}
	for _, t := range f.tasks[id] {
		if t.Completed {
			prog.CompletedTasks++
		}
	}
	if prog.TotalTasks > 0 {
		prog.ProgressPercentage = float64(prog.CompletedTasks*100) / float64(prog.TotalTasks)
	}
	return prog, nil
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, projectID int64) ([]service.Task, error) {
	if err := f.call("ListTasks", f.ListTasksErr); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]service.Task(nil), f.tasks[projectID]...), nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, projectID int64, nt service.NewTask) (service.Task, error) {
	if err := f.call("CreateTask", f.CreateTaskErr); err != nil {
		return service.Task{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	t := service.Task{ID: f.nextID, Title: nt.Title, Description: nt.Description, DueDate: nt.DueDate}
	f.tasks[projectID] = append(f.tasks[projectID], t)
	return t, nil
}

// ToggleComplete implements service.Service.
func (f *FakeService) ToggleComplete(ctx context.Context, projectID, taskID int64) (service.Task, error) {
	if err := f.call("ToggleComplete", f.ToggleErr); err != nil {
		return service.Task{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks[projectID] {
		if t.ID == taskID {
			f.tasks[projectID][i].Completed = !t.Completed
			return f.tasks[projectID][i], nil
		}
	}
	return service.Task{}, ErrNotFound
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, projectID, taskID int64) error {
	if err := f.call("DeleteTask", f.DeleteTaskErr); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	tasks := f.tasks[projectID]
	for i, t := range tasks {
		if t.ID == taskID {
			f.tasks[projectID] = append(tasks[:i], tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

var _ service.Service = (*FakeService)(nil)
