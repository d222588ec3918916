package nav

import (
	"log/slog"
	"sync"

	"ptask/internal/session"
)

// Navigation targets accepted by Navigate.
const (
	TargetProjects  = "projects"
	TargetDashboard = "dashboard"
)

// Listener observes transitions.
type Listener func(from, to State)

// Controller decides which screen is visible.
//
// Every action returns whether it changed the state. Actions that are not
// defined for the current state are ignored rather than reported as errors.
// Controller is safe for concurrent use; listeners run without the lock held.
type Controller struct {
	mu        sync.Mutex
	state     State
	store     session.Store
	listeners []Listener
	log       *slog.Logger
}

// New creates a controller. It starts in ProjectList when store holds a
// credential and in Auth otherwise; the credential is not validated here.
func New(store session.Store) *Controller {
	c := &Controller{store: store, log: slog.Default().With("component", "nav")}
	if _, ok := store.Get(); ok {
		c.state = ProjectList{}
	} else {
		c.state = Auth{}
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers l to be called after every transition.
func (c *Controller) Subscribe(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// LoginSucceeded moves Auth to ProjectList. The caller stores the credential.
func (c *Controller) LoginSucceeded() bool {
	return c.transition("login", func(s State) (State, bool) {
		if _, ok := s.(Auth); ok {
			return ProjectList{}, true
		}
		return s, false
	})
}

// Logout clears the session and returns to Auth from any state.
func (c *Controller) Logout() bool {
	c.clearSession("logout")
	return c.transition("logout", toAuth)
}

// ForceTeardown is the reaction to an authorization failure. It ends in the
// same state as Logout. The gateway has normally cleared the store already;
// clearing again is harmless.
func (c *Controller) ForceTeardown() bool {
	c.clearSession("teardown")
	return c.transition("teardown", toAuth)
}

// Select opens a project from the list.
func (c *Controller) Select(projectID int64) bool {
	return c.transition("select", func(s State) (State, bool) {
		if _, ok := s.(ProjectList); ok {
			return ProjectDetail{ProjectID: projectID}, true
		}
		return s, false
	})
}

// Back returns from a project to the list.
func (c *Controller) Back() bool {
	return c.transition("back", backToList)
}

// Navigate handles chrome navigation. "projects" and "dashboard" act like
// Back; anything else is ignored.
func (c *Controller) Navigate(target string) bool {
	switch target {
	case TargetProjects, TargetDashboard:
		return c.transition("navigate", backToList)
	default:
		c.log.Debug("ignored navigation target", "target", target)
		return false
	}
}

func toAuth(s State) (State, bool) {
	_, already := s.(Auth)
	return Auth{}, !already
}

func backToList(s State) (State, bool) {
	if _, ok := s.(ProjectDetail); ok {
		return ProjectList{}, true
	}
	return s, false
}

func (c *Controller) clearSession(reason string) {
	if err := c.store.Clear(); err != nil {
		c.log.Warn("failed to clear session", "reason", reason, "err", err)
	}
}

func (c *Controller) transition(action string, next func(State) (State, bool)) bool {
	c.mu.Lock()
	from := c.state
	to, changed := next(from)
	if !changed {
		c.mu.Unlock()
		c.log.Debug("ignored action", "action", action, "state", from.String())
		return false
	}
	c.state = to
	listeners := append([]Listener(nil), c.listeners...)
	c.mu.Unlock()

	c.log.Debug("transition", "action", action, "from", from.String(), "to", to.String())
	for _, l := range listeners {
		l(from, to)
	}
	return true
}
