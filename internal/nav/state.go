// Package nav holds the top-level navigation state machine.
//
// The selected project lives inside the ProjectDetail state, so a selected
// project without the detail screen cannot be represented.
package nav

import "fmt"

// State is one of Auth, ProjectList or ProjectDetail.
type State interface {
	fmt.Stringer
	state()
}

// Auth is the login/register screen.
type Auth struct{}

// ProjectList is the list of all projects.
type ProjectList struct{}

// ProjectDetail shows one project and its tasks.
type ProjectDetail struct {
	ProjectID int64
}

func (Auth) state()          {}
func (ProjectList) state()   {}
func (ProjectDetail) state() {}

func (Auth) String() string            { return "auth" }
func (ProjectList) String() string     { return "projects" }
func (s ProjectDetail) String() string { return fmt.Sprintf("project(%d)", s.ProjectID) }

// ActiveProject returns the selected project, which exists only in
// ProjectDetail.
func ActiveProject(s State) (int64, bool) {
	if d, ok := s.(ProjectDetail); ok {
		return d.ProjectID, true
	}
	return 0, false
}
