package tui

import (
	"ptask/internal/nav"
	"ptask/internal/screens"
)

// navChangedMsg is sent when the controller moved, possibly from a request
// goroutine after the server rejected the credential.
type navChangedMsg struct {
	from, to nav.State
}

// authDoneMsg carries a finished login or registration.
type authDoneMsg struct {
	res screens.AuthResult
}

// projectsMsg carries a project list load. err is set when a create failed
// before any reload was issued.
type projectsMsg struct {
	screen *screens.ProjectList
	res    screens.ProjectsResult
	err    error
	reload bool
}

// detailMsg carries a project detail load, possibly following a task change.
type detailMsg struct {
	screen *screens.ProjectDetail
	res    screens.DetailResult
	err    error
	reload bool
}
