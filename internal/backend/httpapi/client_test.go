package httpapi_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"ptask/internal/backend/httpapi"
	"ptask/internal/config"
	"ptask/internal/service"
	"ptask/internal/session"
	"ptask/internal/testutil"
)

func newClient(t *testing.T, srv *testutil.APIServer, store session.Store) *httpapi.Client {
	t.Helper()
	cfg := &config.Config{Dir: t.TempDir(), APIURL: srv.URL}
	return httpapi.New(cfg, store, nil, "ptask/test")
}

func TestLoginAndRegister(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	c := newClient(t, srv, session.NewMemoryStore(""))
	ctx := context.Background()

	msg, err := c.Register(ctx, service.Credentials{Email: "a@b.com", Password: "secret1", Name: "Ann"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if msg != "User registered successfully" {
		t.Errorf("unexpected register message %q", msg)
	}

	_, err = c.Register(ctx, service.Credentials{Email: "a@b.com", Password: "secret1"})
	if got := service.Message(err, ""); got != "Email address is already taken!" {
		t.Errorf("expected duplicate email message, got %q (err %v)", got, err)
	}

	res, err := c.Login(ctx, service.Credentials{Email: "a@b.com", Password: "secret1", Name: "ignored"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.AccessToken == "" {
		t.Error("expected access token")
	}

	// Login sends only email and password
	for _, r := range srv.Requests() {
		if r.Path == "/auth/login" && strings.Contains(r.Body, "name") {
			t.Errorf("login body should not carry a name: %s", r.Body)
		}
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.AddUser("a@b.com", "secret1")
	c := newClient(t, srv, session.NewMemoryStore(""))

	_, err := c.Login(context.Background(), service.Credentials{Email: "a@b.com", Password: "wrong!!"})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := service.Message(err, "fallback"); got != "Bad credentials" {
		t.Errorf("expected server message, got %q", got)
	}
}

func TestRefresh(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	tok := srv.IssueToken("a@b.com")
	c := newClient(t, srv, session.NewMemoryStore(tok))

	res, err := c.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if res.AccessToken == "" || res.AccessToken == tok {
		t.Errorf("expected a new token, got %q", res.AccessToken)
	}
}

func TestProjectsAndTasks(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	store := session.NewMemoryStore(srv.IssueToken("a@b.com"))
	c := newClient(t, srv, store)
	ctx := context.Background()

	projects, err := c.ListProjects(ctx)
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(projects) != 0 {
		t.Errorf("expected no projects, got %d", len(projects))
	}

	p, err := c.CreateProject(ctx, "Website", "Relaunch")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	got, err := c.GetProject(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if got != p {
		t.Errorf("expected %+v, got %+v", p, got)
	}

	task, err := c.CreateTask(ctx, p.ID, service.NewTask{Title: "Write copy", DueDate: "2026-11-01"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.DueDate != "2026-11-01" {
		t.Errorf("expected due date to round trip, got %q", task.DueDate)
	}
	if _, err := c.CreateTask(ctx, p.ID, service.NewTask{Title: "Deploy"}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	toggled, err := c.ToggleComplete(ctx, p.ID, task.ID)
	if err != nil {
		t.Fatalf("ToggleComplete: %v", err)
	}
	if !toggled.Completed {
		t.Error("expected task to be completed after toggle")
	}

	prog, err := c.Progress(ctx, p.ID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if prog.TotalTasks != 2 || prog.CompletedTasks != 1 || prog.ProgressPercentage != 50 {
		t.Errorf("unexpected progress %+v", prog)
	}

	// Toggling twice returns the task to its original state
	again, err := c.ToggleComplete(ctx, p.ID, task.ID)
	if err != nil {
		t.Fatalf("ToggleComplete: %v", err)
	}
	if again.Completed {
		t.Error("expected second toggle to restore completed=false")
	}

	if err := c.DeleteTask(ctx, p.ID, task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	tasks, err := c.ListTasks(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "Deploy" {
		t.Errorf("unexpected tasks after delete: %+v", tasks)
	}

	if n := srv.CountRequests(http.MethodDelete, "/api/projects/1/tasks/2"); n != 1 {
		t.Errorf("expected exactly one DELETE, got %d", n)
	}
}

func TestToggleComplete_EmptyBody(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	store := session.NewMemoryStore(srv.IssueToken("a@b.com"))
	srv.Fail(http.MethodPut, "/api/projects/3/tasks/9/complete", http.StatusOK, "")
	c := newClient(t, srv, store)

	task, err := c.ToggleComplete(context.Background(), 3, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID != 9 {
		t.Errorf("expected task id 9, got %d", task.ID)
	}
}

func TestRevokedTokenClearsSession(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	store := session.NewMemoryStore(srv.IssueToken("a@b.com"))
	srv.RevokeTokens()

	torn := false
	cfg := &config.Config{APIURL: srv.URL}
	c := httpapi.New(cfg, store, func() { torn = true }, "ptask/test")

	_, err := c.ListProjects(context.Background())
	if !service.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, ok := store.Get(); ok {
		t.Error("expected session to be cleared")
	}
	if !torn {
		t.Error("expected teardown hook to run")
	}
}
