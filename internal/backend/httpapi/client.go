// Package httpapi implements service.Service against the project/task REST API.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"ptask/internal/config"
	"ptask/internal/gateway"
	"ptask/internal/service"
	"ptask/internal/session"
)

// Client implements service.Service over a gateway.Client.
// Each method is exactly one request.
type Client struct {
	api *gateway.Client
}

// New creates a client for cfg.APIURL whose requests are stamped from store.
// onTeardown runs whenever the server rejects the credential.
func New(cfg *config.Config, store session.Store, onTeardown func(), userAgent string) *Client {
	return NewWithGateway(gateway.NewClient(cfg.APIURL, &gateway.Transport{
		Store:      store,
		OnTeardown: onTeardown,
		UserAgent:  userAgent,
	}))
}

// NewWithGateway creates a client over an existing gateway (for testing).
func NewWithGateway(api *gateway.Client) *Client {
	return &Client{api: api}
}

// Login implements service.Auth.
func (c *Client) Login(ctx context.Context, creds service.Credentials) (service.LoginResult, error) {
	var res service.LoginResult
	err := c.api.Do(ctx, http.MethodPost, "/auth/login", service.Credentials{
		Email:    creds.Email,
		Password: creds.Password,
	}, &res)
	if err != nil {
		return service.LoginResult{}, err
	}
	if res.AccessToken == "" {
		return service.LoginResult{}, errors.New("login response carried no access token")
	}
	return res, nil
}

// Register implements service.Auth.
func (c *Client) Register(ctx context.Context, creds service.Credentials) (string, error) {
	var msg string
	if err := c.api.Do(ctx, http.MethodPost, "/auth/register", creds, &msg); err != nil {
		return "", err
	}
	return msg, nil
}

// Refresh implements service.Auth.
func (c *Client) Refresh(ctx context.Context) (service.LoginResult, error) {
	var res service.LoginResult
	if err := c.api.Do(ctx, http.MethodPost, "/auth/refresh-token", nil, &res); err != nil {
		return service.LoginResult{}, err
	}
	if res.AccessToken == "" {
		return service.LoginResult{}, errors.New("refresh response carried no access token")
	}
	return res, nil
}

// ListProjects implements service.Projects.
func (c *Client) ListProjects(ctx context.Context) ([]service.Project, error) {
	var projects []service.Project
	if err := c.api.Do(ctx, http.MethodGet, "/api/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject implements service.Projects.
func (c *Client) GetProject(ctx context.Context, id int64) (service.Project, error) {
	var p service.Project
	if err := c.api.Do(ctx, http.MethodGet, projectPath(id), nil, &p); err != nil {
		return service.Project{}, err
	}
	return p, nil
}

// CreateProject implements service.Projects.
func (c *Client) CreateProject(ctx context.Context, title, description string) (service.Project, error) {
	body := struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}{title, description}

	var p service.Project
	if err := c.api.Do(ctx, http.MethodPost, "/api/projects", body, &p); err != nil {
		return service.Project{}, err
	}
	return p, nil
}

// Progress implements service.Projects.
func (c *Client) Progress(ctx context.Context, id int64) (service.Progress, error) {
	var p service.Progress
	if err := c.api.Do(ctx, http.MethodGet, projectPath(id)+"/progress", nil, &p); err != nil {
		return service.Progress{}, err
	}
	return p, nil
}

// ListTasks implements service.Tasks.
func (c *Client) ListTasks(ctx context.Context, projectID int64) ([]service.Task, error) {
	var tasks []service.Task
	if err := c.api.Do(ctx, http.MethodGet, projectPath(projectID)+"/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask implements service.Tasks.
func (c *Client) CreateTask(ctx context.Context, projectID int64, task service.NewTask) (service.Task, error) {
	var t service.Task
	if err := c.api.Do(ctx, http.MethodPost, projectPath(projectID)+"/tasks", task, &t); err != nil {
		return service.Task{}, err
	}
	return t, nil
}

// ToggleComplete implements service.Tasks.
// Servers that answer with an empty body yield a Task with only ID set.
func (c *Client) ToggleComplete(ctx context.Context, projectID, taskID int64) (service.Task, error) {
	t := service.Task{ID: taskID}
	if err := c.api.Do(ctx, http.MethodPut, taskPath(projectID, taskID)+"/complete", nil, &t); err != nil {
		return service.Task{}, err
	}
	return t, nil
}

// DeleteTask implements service.Tasks.
func (c *Client) DeleteTask(ctx context.Context, projectID, taskID int64) error {
	return c.api.Do(ctx, http.MethodDelete, taskPath(projectID, taskID), nil, nil)
}

func projectPath(id int64) string {
	return fmt.Sprintf("/api/projects/%d", id)
}

func taskPath(projectID, taskID int64) string {
	return fmt.Sprintf("/api/projects/%d/tasks/%d", projectID, taskID)
}
