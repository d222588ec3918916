package commands_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"ptask/internal/commands"
	"ptask/internal/config"
	"ptask/internal/exitcode"
	"ptask/internal/nav"
	"ptask/internal/screens"
	"ptask/internal/service"
	"ptask/internal/session"
	"ptask/internal/testutil"
)

// testEnv builds an Env around svc with a session already stored.
func testEnv(t *testing.T, svc *testutil.FakeService, quiet bool) *commands.Env {
	t.Helper()
	store := session.NewMemoryStore("tok")
	return &commands.Env{
		Config:  &config.Config{Dir: t.TempDir(), Quiet: quiet},
		Service: svc,
		Session: store,
		Nav:     nav.New(store),
	}
}

// runCommand is a helper to run a command against env.
func runCommand(t *testing.T, cmd commands.Command, env *commands.Env, args []string) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer
	code = cmd.Run(context.Background(), env, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func seedProject(t *testing.T, svc *testutil.FakeService) service.Project {
	t.Helper()
	p := svc.AddProject("Website", "Relaunch")
	if _, err := svc.CreateTask(context.Background(), p.ID, service.NewTask{Title: "Write copy", DueDate: "2025-03-01"}); err != nil {
		t.Fatal(err)
	}
	svc.AddTask(p.ID, "Review", true)
	return p
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, testEnv(t, nil, false), nil)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ptask 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.HelpCmd{}, testEnv(t, nil, false), nil)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, name := range []string{"Usage:", "login", "createproject", "toggle", "--api-url"} {
		if !strings.Contains(stdout, name) {
			t.Errorf("help output should contain %q", name)
		}
	}
}

func TestRegistry_AllCommandsRegistered(t *testing.T) {
	for _, name := range []string{"login", "register", "logout", "refresh", "projects", "ls",
		"createproject", "show", "add", "toggle", "rm", "ui", "help", "version"} {
		if _, ok := commands.DefaultRegistry.Find(name); !ok {
			t.Errorf("command %q not registered", name)
		}
	}
}

// Tests for projects command
func TestProjectsCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddProject("Website", "Relaunch")
	svc.AddProject("Garden", "")

	stdout, stderr, code := runCommand(t, &commands.ProjectsCmd{}, testEnv(t, svc, false), nil)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "projects", stdout)
}

func TestProjectsCommand_Empty(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, _, code := runCommand(t, &commands.ProjectsCmd{}, testEnv(t, svc, false), nil)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "no projects yet\n" {
		t.Errorf("expected empty message, got %q", stdout)
	}
}

func TestProjectsCommand_LoadFailure(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListProjectsErr = testutil.ServerError(500, "database down")

	_, stderr, code := runCommand(t, &commands.ProjectsCmd{}, testEnv(t, svc, false), nil)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	expected := "error: backend error: " + screens.MsgLoadProjects + "\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestProjectsCommand_Unauthorized(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListProjectsErr = testutil.Unauthorized()

	_, stderr, code := runCommand(t, &commands.ProjectsCmd{}, testEnv(t, svc, false), nil)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: session expired (run: ptask login)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for createproject command
func TestCreateProjectCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	cmd := &commands.CreateProjectCmd{}
	cmd.SetDescription("Relaunch")

	stdout, stderr, code := runCommand(t, cmd, testEnv(t, svc, false), []string{"Website"})

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "   1  Website\n      Relaunch\n" {
		t.Errorf("expected reloaded list, got %q", stdout)
	}
	if svc.Calls("ListProjects") != 1 {
		t.Errorf("expected a reload after create, got %d", svc.Calls("ListProjects"))
	}
}

func TestCreateProjectCommand_BlankTitle(t *testing.T) {
	svc := testutil.NewFakeService()

	_, stderr, code := runCommand(t, &commands.CreateProjectCmd{}, testEnv(t, svc, false), []string{"  "})

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: title required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if svc.TotalCalls() != 0 {
		t.Errorf("expected no calls, got %d", svc.TotalCalls())
	}
}

func TestCreateProjectCommand_ServerMessage(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.CreateProjectErr = testutil.ServerError(400, "Title must not be blank")

	_, stderr, code := runCommand(t, &commands.CreateProjectCmd{}, testEnv(t, svc, true), []string{"x"})

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: Title must not be blank\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for show command
func TestShowCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	seedProject(t, svc)
	env := testEnv(t, svc, false)

	stdout, stderr, code := runCommand(t, &commands.ShowCmd{}, env, []string{"1"})

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	testutil.GoldenString(t, "show", stdout)
	if got := env.Nav.State(); got != (nav.ProjectDetail{ProjectID: 1}) {
		t.Errorf("expected detail state, got %v", got)
	}
}

func TestShowCommand_PartialFailureShowsNothing(t *testing.T) {
	svc := testutil.NewFakeService()
	seedProject(t, svc)
	svc.ProgressErr = testutil.ServerError(500, "")

	stdout, stderr, code := runCommand(t, &commands.ShowCmd{}, testEnv(t, svc, false), []string{"1"})

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stdout != "" {
		t.Errorf("expected no partial output, got %q", stdout)
	}
	if !strings.Contains(stderr, screens.MsgLoadProject) {
		t.Errorf("expected %q, got %q", screens.MsgLoadProject, stderr)
	}
}

func TestShowCommand_InvalidID(t *testing.T) {
	svc := testutil.NewFakeService()

	_, stderr, code := runCommand(t, &commands.ShowCmd{}, testEnv(t, svc, false), []string{"abc"})

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid project id: abc\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for add command
func TestAddCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	p := svc.AddProject("Website", "")
	cmd := &commands.AddCmd{}
	cmd.SetDue("2025-03-01")

	_, stderr, code := runCommand(t, cmd, testEnv(t, svc, true), []string{"1", "Write", "copy"})

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	tasks, _ := svc.ListTasks(context.Background(), p.ID)
	if len(tasks) != 1 || tasks[0].Title != "Write copy" || tasks[0].DueDate != "2025-03-01" {
		t.Errorf("unexpected tasks %+v", tasks)
	}
	// create + one three-way reload
	if svc.Calls("GetProject") != 1 || svc.Calls("Progress") != 1 {
		t.Errorf("expected one reload, got %d/%d", svc.Calls("GetProject"), svc.Calls("Progress"))
	}
}

func TestAddCommand_BadDueDate(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddProject("Website", "")
	cmd := &commands.AddCmd{}
	cmd.SetDue("03/01/2025")

	_, stderr, code := runCommand(t, cmd, testEnv(t, svc, false), []string{"1", "Write"})

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: "+screens.MsgInvalidDue+"\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if svc.Calls("CreateTask") != 0 {
		t.Errorf("expected no create call")
	}
}

// Tests for toggle command
func TestToggleCommand_TwiceRestores(t *testing.T) {
	svc := testutil.NewFakeService()
	p := svc.AddProject("Website", "")
	task := svc.AddTask(p.ID, "Write copy", false)
	env := testEnv(t, svc, false)
	args := []string{"1", "2"}

	stdout, _, code := runCommand(t, &commands.ToggleCmd{}, env, args)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stdout, "   2  [x] Write copy") {
		t.Errorf("expected completed task, got %q", stdout)
	}

	runCommand(t, &commands.ToggleCmd{}, env, args)
	tasks, _ := svc.ListTasks(context.Background(), p.ID)
	if tasks[0].ID != task.ID || tasks[0].Completed {
		t.Errorf("expected task restored, got %+v", tasks[0])
	}
}

func TestToggleCommand_MissingArgs(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ToggleCmd{}, testEnv(t, testutil.NewFakeService(), false), []string{"1"})

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: project id and task id required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestToggleCommand_Failure(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddProject("Website", "")
	svc.ToggleErr = testutil.ServerError(500, "")

	_, stderr, code := runCommand(t, &commands.ToggleCmd{}, testEnv(t, svc, false), []string{"1", "2"})

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: "+screens.MsgUpdateTask+"\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for rm command
func TestRmCommand(t *testing.T) {
	tests := []struct {
		name        string
		yes         bool
		input       io.Reader
		wantDeletes int
		wantOut     string
	}{
		{"yes flag", true, nil, 1, ""},
		{"confirmed", false, strings.NewReader("y\n"), 1, ""},
		{"declined", false, strings.NewReader("n\n"), 0, "cancelled\n"},
		{"no input", false, strings.NewReader(""), 0, "cancelled\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := testutil.NewFakeService()
			p := svc.AddProject("Website", "")
			svc.AddTask(p.ID, "Write copy", false)
			env := testEnv(t, svc, false)
			env.In = tt.input

			cmd := &commands.RmCmd{}
			cmd.SetYes(tt.yes)
			stdout, _, code := runCommand(t, cmd, env, []string{"1", "2"})

			if code != exitcode.Success {
				t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
			}
			if got := svc.Calls("DeleteTask"); got != tt.wantDeletes {
				t.Errorf("expected %d delete calls, got %d", tt.wantDeletes, got)
			}
			if tt.wantOut != "" && stdout != tt.wantOut {
				t.Errorf("expected %q, got %q", tt.wantOut, stdout)
			}
		})
	}
}

func TestRmCommand_Prompt(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddProject("Website", "")
	env := testEnv(t, svc, true)
	env.In = strings.NewReader("no\n")

	_, stderr, _ := runCommand(t, &commands.RmCmd{}, env, []string{"1", "7"})

	if stderr != "Delete task 7? [y/N] " {
		t.Errorf("unexpected prompt %q", stderr)
	}
}
