package screens

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"ptask/internal/service"
)

// Confirm asks the user a yes/no question.
type Confirm func(prompt string) bool

// Confirmed is a Confirm for callers that already asked.
func Confirmed(string) bool { return true }

// DetailResult is the outcome of one three-way project fetch.
// Either all of Project, Tasks and Progress are set, or Err is.
type DetailResult struct {
	gen      uint64
	Project  service.Project
	Tasks    []service.Task
	Progress service.Progress
	Err      error
}

// ProjectDetail is the screen for one project and its tasks.
type ProjectDetail struct {
	svc       service.Service
	life      *Lifetime
	projectID int64

	project  *service.Project
	tasks    []service.Task
	progress service.Progress
	err      string
	loading  bool
}

// NewProjectDetail mounts the detail screen for projectID.
func NewProjectDetail(parent context.Context, svc service.Service, projectID int64) *ProjectDetail {
	return &ProjectDetail{svc: svc, life: NewLifetime(parent), projectID: projectID, loading: true}
}

// Close unmounts the screen.
func (d *ProjectDetail) Close() { d.life.Close() }

// ProjectID returns the project this screen shows.
func (d *ProjectDetail) ProjectID() int64 { return d.projectID }

// Status reports loading, failed or ready. A detail screen is never empty;
// a project without tasks is ready.
func (d *ProjectDetail) Status() Status {
	switch {
	case d.loading:
		return StatusLoading
	case d.err != "" || d.project == nil:
		return StatusFailed
	default:
		return StatusReady
	}
}

// Project returns the loaded project, or nil.
func (d *ProjectDetail) Project() *service.Project { return d.project }

// Tasks returns the loaded tasks.
func (d *ProjectDetail) Tasks() []service.Task { return d.tasks }

// Progress returns the loaded progress snapshot.
func (d *ProjectDetail) Progress() service.Progress { return d.progress }

// Err returns the error banner text.
func (d *ProjectDetail) Err() string { return d.err }

// MarkLoading flags a reload as in progress.
func (d *ProjectDetail) MarkLoading() { d.loading = true }

// Fetch loads the project, its tasks and its progress concurrently and
// settles only when all three have. Any failure fails the whole fetch.
// Safe to call off the UI goroutine.
func (d *ProjectDetail) Fetch() DetailResult {
	gen := d.life.next()
	res := DetailResult{gen: gen}

	g, ctx := errgroup.WithContext(d.life.Context())
	g.Go(func() error {
		p, err := d.svc.GetProject(ctx, d.projectID)
		res.Project = p
		return err
	})
	g.Go(func() error {
		tasks, err := d.svc.ListTasks(ctx, d.projectID)
		res.Tasks = tasks
		return err
	})
	g.Go(func() error {
		p, err := d.svc.Progress(ctx, d.projectID)
		res.Progress = p
		return err
	})

	if err := g.Wait(); err != nil {
		return DetailResult{gen: gen, Err: &RequestError{Msg: MsgLoadProject, Err: err}}
	}
	return res
}

// Apply merges a fetch result. It returns false when the result was stale
// and has been dropped. A failed fetch clears any previously shown data.
func (d *ProjectDetail) Apply(res DetailResult) bool {
	if !d.life.current(res.gen) {
		return false
	}
	d.loading = false
	if res.Err != nil {
		d.err = res.Err.Error()
		d.project = nil
		d.tasks = nil
		d.progress = service.Progress{}
		return true
	}
	p := res.Project
	d.err = ""
	d.project = &p
	d.tasks = res.Tasks
	d.progress = res.Progress
	return true
}

// Load fetches and applies in one step.
func (d *ProjectDetail) Load() error {
	d.MarkLoading()
	res := d.Fetch()
	d.Apply(res)
	return res.Err
}

// ValidateNewTask checks a task before it is sent. Only the title is
// required; a due date, when given, must be YYYY-MM-DD.
func ValidateNewTask(t service.NewTask) error {
	if strings.TrimSpace(t.Title) == "" {
		return &ValidationError{Msg: MsgTitleRequired}
	}
	if t.DueDate != "" {
		if _, err := time.Parse(dueDateLayout, t.DueDate); err != nil {
			return &ValidationError{Msg: MsgInvalidDue}
		}
	}
	return nil
}

// AddTask creates a task and reloads all three resources.
func (d *ProjectDetail) AddTask(t service.NewTask) (DetailResult, error) {
	if err := ValidateNewTask(t); err != nil {
		return DetailResult{}, err
	}
	if _, err := d.svc.CreateTask(d.life.Context(), d.projectID, t); err != nil {
		return DetailResult{}, requestError(err, MsgAddTask)
	}
	return d.Fetch(), nil
}

// Toggle flips a task's completion and reloads all three resources.
func (d *ProjectDetail) Toggle(taskID int64) (DetailResult, error) {
	if _, err := d.svc.ToggleComplete(d.life.Context(), d.projectID, taskID); err != nil {
		return DetailResult{}, requestError(err, MsgUpdateTask)
	}
	return d.Fetch(), nil
}

// Delete asks confirm and, only if it agrees, deletes the task and reloads
// all three resources. deleted reports whether a request was sent.
func (d *ProjectDetail) Delete(taskID int64, confirm Confirm) (res DetailResult, deleted bool, err error) {
	if confirm == nil || !confirm(MsgConfirmDelete) {
		return DetailResult{}, false, nil
	}
	if err := d.svc.DeleteTask(d.life.Context(), d.projectID, taskID); err != nil {
		return DetailResult{}, true, requestError(err, MsgDeleteTask)
	}
	return d.Fetch(), true, nil
}
