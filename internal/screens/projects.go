package screens

import (
	"context"
	"strings"

	"ptask/internal/service"
)

// Status distinguishes the render states of a loadable screen.
type Status int

const (
	StatusLoading Status = iota
	StatusEmpty
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusEmpty:
		return "empty"
	case StatusReady:
		return "ready"
	default:
		return "failed"
	}
}

// ProjectsResult is the outcome of one project list fetch.
type ProjectsResult struct {
	gen      uint64
	Projects []service.Project
	Err      error
}

// ProjectList is the project overview screen.
type ProjectList struct {
	svc  service.Projects
	life *Lifetime

	projects []service.Project
	err      string
	loading  bool
}

// NewProjectList mounts a project list. It starts in the loading state.
func NewProjectList(parent context.Context, svc service.Projects) *ProjectList {
	return &ProjectList{svc: svc, life: NewLifetime(parent), loading: true}
}

// Close unmounts the screen.
func (l *ProjectList) Close() { l.life.Close() }

// Status reports which of loading, empty, ready or failed to render.
func (l *ProjectList) Status() Status {
	switch {
	case l.loading:
		return StatusLoading
	case l.err != "":
		return StatusFailed
	case len(l.projects) == 0:
		return StatusEmpty
	default:
		return StatusReady
	}
}

// Projects returns the loaded projects.
func (l *ProjectList) Projects() []service.Project { return l.projects }

// Err returns the error banner text.
func (l *ProjectList) Err() string { return l.err }

// MarkLoading flags a reload as in progress.
func (l *ProjectList) MarkLoading() { l.loading = true }

// Fetch loads all projects. Safe to call off the UI goroutine.
func (l *ProjectList) Fetch() ProjectsResult {
	gen := l.life.next()
	projects, err := l.svc.ListProjects(l.life.Context())
	if err != nil {
		return ProjectsResult{gen: gen, Err: &RequestError{Msg: MsgLoadProjects, Err: err}}
	}
	return ProjectsResult{gen: gen, Projects: projects}
}

// Apply merges a fetch result. It returns false when the result was stale
// and has been dropped.
func (l *ProjectList) Apply(res ProjectsResult) bool {
	if !l.life.current(res.gen) {
		return false
	}
	l.loading = false
	if res.Err != nil {
		l.err = res.Err.Error()
		return true
	}
	l.err = ""
	l.projects = res.Projects
	return true
}

// Load fetches and applies in one step.
func (l *ProjectList) Load() error {
	l.MarkLoading()
	res := l.Fetch()
	l.Apply(res)
	return res.Err
}

// Create creates a project and then reloads the whole list.
// A blank title is rejected locally. Safe to call off the UI goroutine;
// merge the returned result with Apply.
func (l *ProjectList) Create(title, description string) (ProjectsResult, error) {
	if strings.TrimSpace(title) == "" {
		return ProjectsResult{}, &ValidationError{Msg: MsgTitleRequired}
	}
	if _, err := l.svc.CreateProject(l.life.Context(), title, description); err != nil {
		return ProjectsResult{}, requestError(err, MsgCreateProject)
	}
	return l.Fetch(), nil
}
