package screens_test

import (
	"context"
	"testing"

	"ptask/internal/screens"
	"ptask/internal/service"
	"ptask/internal/testutil"
)

func newDetail(t *testing.T) (*testutil.FakeService, *screens.ProjectDetail, service.Project) {
	t.Helper()
	svc := testutil.NewFakeService()
	p := svc.AddProject("Website", "Relaunch")
	d := screens.NewProjectDetail(context.Background(), svc, p.ID)
	t.Cleanup(d.Close)
	return svc, d, p
}

func loads(svc *testutil.FakeService) [3]int {
	return [3]int{svc.Calls("GetProject"), svc.Calls("ListTasks"), svc.Calls("Progress")}
}

func TestProjectDetail_LoadAll(t *testing.T) {
	svc, d, p := newDetail(t)
	svc.AddTask(p.ID, "Copy", true)
	svc.AddTask(p.ID, "Deploy", false)

	if d.Status() != screens.StatusLoading {
		t.Errorf("expected loading, got %v", d.Status())
	}
	if err := d.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Status() != screens.StatusReady {
		t.Fatalf("expected ready, got %v", d.Status())
	}
	if d.Project().Title != "Website" || len(d.Tasks()) != 2 {
		t.Errorf("unexpected data: %+v %+v", d.Project(), d.Tasks())
	}
	if prog := d.Progress(); prog.TotalTasks != 2 || prog.CompletedTasks != 1 || prog.ProgressPercentage != 50 {
		t.Errorf("unexpected progress %+v", prog)
	}
	if got := loads(svc); got != [3]int{1, 1, 1} {
		t.Errorf("expected one fetch of each resource, got %v", got)
	}
}

func TestProjectDetail_AnyFailureFailsWhole(t *testing.T) {
	svc, d, p := newDetail(t)
	svc.AddTask(p.ID, "Copy", false)
	_ = d.Load()

	svc.ProgressErr = testutil.ServerError(500, "boom")
	if err := d.Load(); err == nil {
		t.Fatal("expected load error")
	}
	if d.Status() != screens.StatusFailed {
		t.Errorf("expected failed, got %v", d.Status())
	}
	if d.Err() != screens.MsgLoadProject {
		t.Errorf("unexpected error banner %q", d.Err())
	}
	if d.Tasks() != nil || d.Project() != nil {
		t.Error("no partial data may remain after a failed load")
	}
}

func TestProjectDetail_AddTask(t *testing.T) {
	svc, d, _ := newDetail(t)
	_ = d.Load()

	if _, err := d.AddTask(service.NewTask{Title: "  "}); !screens.IsValidation(err) {
		t.Errorf("expected validation error for blank title, got %v", err)
	}
	if _, err := d.AddTask(service.NewTask{Title: "x", DueDate: "next week"}); !screens.IsValidation(err) {
		t.Errorf("expected validation error for bad due date, got %v", err)
	}
	if svc.Calls("CreateTask") != 0 {
		t.Fatal("invalid tasks must not be sent")
	}

	res, err := d.AddTask(service.NewTask{Title: "Write copy", DueDate: "2026-11-01"})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	d.Apply(res)
	if len(d.Tasks()) != 1 || d.Tasks()[0].DueDate != "2026-11-01" {
		t.Errorf("unexpected tasks %+v", d.Tasks())
	}
	if got := loads(svc); got != [3]int{2, 2, 2} {
		t.Errorf("expected a full three-way reload, got %v", got)
	}
}

func TestProjectDetail_ToggleTwiceRestores(t *testing.T) {
	svc, d, p := newDetail(t)
	task := svc.AddTask(p.ID, "Copy", false)
	_ = d.Load()

	for i, want := range []bool{true, false} {
		res, err := d.Toggle(task.ID)
		if err != nil {
			t.Fatalf("Toggle: %v", err)
		}
		d.Apply(res)
		if got := d.Tasks()[0].Completed; got != want {
			t.Errorf("toggle %d: expected completed=%v, got %v", i+1, want, got)
		}
	}
	if got := loads(svc); got != [3]int{3, 3, 3} {
		t.Errorf("expected a reload after each toggle, got %v", got)
	}
}

func TestProjectDetail_ToggleFailure(t *testing.T) {
	svc, d, p := newDetail(t)
	task := svc.AddTask(p.ID, "Copy", false)
	svc.ToggleErr = testutil.ServerError(500, "")

	_, err := d.Toggle(task.ID)
	if err == nil || err.Error() != screens.MsgUpdateTask {
		t.Errorf("expected %q, got %v", screens.MsgUpdateTask, err)
	}
}

func TestProjectDetail_DeleteNeedsConfirmation(t *testing.T) {
	svc, d, p := newDetail(t)
	task := svc.AddTask(p.ID, "Copy", false)
	_ = d.Load()

	var asked string
	_, deleted, err := d.Delete(task.ID, func(prompt string) bool {
		asked = prompt
		return false
	})
	if err != nil || deleted {
		t.Fatalf("declined delete must not send: deleted=%v err=%v", deleted, err)
	}
	if asked != screens.MsgConfirmDelete {
		t.Errorf("unexpected prompt %q", asked)
	}
	if svc.Calls("DeleteTask") != 0 {
		t.Error("no DELETE may be issued without confirmation")
	}

	res, deleted, err := d.Delete(task.ID, screens.Confirmed)
	if err != nil || !deleted {
		t.Fatalf("confirmed delete failed: deleted=%v err=%v", deleted, err)
	}
	d.Apply(res)
	if svc.Calls("DeleteTask") != 1 {
		t.Errorf("expected exactly one DELETE, got %d", svc.Calls("DeleteTask"))
	}
	if got := loads(svc); got != [3]int{2, 2, 2} {
		t.Errorf("expected a full three-way reload after delete, got %v", got)
	}
	if len(d.Tasks()) != 0 {
		t.Errorf("expected no tasks, got %+v", d.Tasks())
	}
}

func TestProjectDetail_UnauthorizedIsVisible(t *testing.T) {
	svc, d, _ := newDetail(t)
	svc.ListTasksErr = testutil.Unauthorized()

	err := d.Load()
	if !service.IsUnauthorized(err) {
		t.Errorf("expected unauthorized to be unwrappable, got %v", err)
	}
}

func TestProjectDetail_ClosedDropsResult(t *testing.T) {
	_, d, _ := newDetail(t)
	res := d.Fetch()
	d.Close()
	if d.Apply(res) {
		t.Error("results after close must be dropped")
	}
	if d.Status() != screens.StatusLoading {
		t.Errorf("dropped result must not change state, got %v", d.Status())
	}
}
