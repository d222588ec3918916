package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"ptask/internal/nav"
	"ptask/internal/screens"
)

// listView renders screens.ProjectList with a cursor and a create form.
type listView struct {
	screen *screens.ProjectList
	nav    *nav.Controller
	cursor int

	creating bool
	inputs   []textinput.Model // title, description
	focus    int
	busy     bool
	banner   string
}

func newListView(screen *screens.ProjectList, ctrl *nav.Controller) *listView {
	title := textinput.New()
	title.Placeholder = "Project title"
	title.CharLimit = 200
	title.Width = 40

	desc := textinput.New()
	desc.Placeholder = "Description (optional)"
	desc.Width = 40

	return &listView{screen: screen, nav: ctrl, inputs: []textinput.Model{title, desc}}
}

func (v *listView) load() tea.Cmd {
	v.screen.MarkLoading()
	screen := v.screen
	return func() tea.Msg {
		return projectsMsg{screen: screen, res: screen.Fetch(), reload: true}
	}
}

func (v *listView) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case projectsMsg:
		if msg.screen != v.screen {
			return nil
		}
		v.busy = false
		if msg.err != nil {
			v.banner = msg.err.Error()
			return nil
		}
		if msg.reload && v.screen.Apply(msg.res) {
			v.clampCursor()
		}
		return nil

	case tea.KeyMsg:
		if v.creating {
			return v.updateCreate(msg)
		}
		switch msg.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(v.screen.Projects())-1 {
				v.cursor++
			}
		case "enter":
			if id, ok := v.selectedID(); ok {
				v.nav.Select(id)
			}
		case "n":
			v.creating = true
			v.banner = ""
			v.inputs[0].Reset()
			v.inputs[1].Reset()
			return v.setFocus(0)
		case "r":
			return v.load()
		}
	}
	return nil
}

func (v *listView) updateCreate(msg tea.KeyMsg) tea.Cmd {
	if v.busy {
		return nil
	}
	switch msg.String() {
	case "esc":
		v.creating = false
		v.banner = ""
		return nil
	case "tab", "shift+tab":
		return v.setFocus(1 - v.focus)
	case "enter":
		title := v.inputs[0].Value()
		desc := v.inputs[1].Value()
		if strings.TrimSpace(title) == "" {
			v.banner = screens.MsgTitleRequired
			return nil
		}
		v.busy = true
		v.creating = false
		v.banner = ""
		screen := v.screen
		return func() tea.Msg {
			res, err := screen.Create(title, desc)
			return projectsMsg{screen: screen, res: res, err: err, reload: err == nil}
		}
	}
	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	return cmd
}

func (v *listView) setFocus(i int) tea.Cmd {
	v.focus = i
	var cmd tea.Cmd
	for j := range v.inputs {
		if j == i {
			cmd = v.inputs[j].Focus()
		} else {
			v.inputs[j].Blur()
		}
	}
	return cmd
}

func (v *listView) selectedID() (int64, bool) {
	projects := v.screen.Projects()
	if v.screen.Status() != screens.StatusReady || v.cursor >= len(projects) {
		return 0, false
	}
	return projects[v.cursor].ID, true
}

func (v *listView) clampCursor() {
	if n := len(v.screen.Projects()); v.cursor >= n {
		v.cursor = max(n-1, 0)
	}
}

func (v *listView) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Projects"))
	b.WriteString("\n\n")

	switch v.screen.Status() {
	case screens.StatusLoading:
		b.WriteString(mutedStyle.Render("Loading projects..."))
		b.WriteString("\n")
	case screens.StatusFailed:
		b.WriteString(errorStyle.Render(v.screen.Err()))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("r: retry"))
		b.WriteString("\n")
	case screens.StatusEmpty:
		b.WriteString(mutedStyle.Render("No projects yet. Press n to create one."))
		b.WriteString("\n")
	case screens.StatusReady:
		for i, p := range v.screen.Projects() {
			line := fmt.Sprintf("%4d  %s", p.ID, p.Title)
			if i == v.cursor {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
			if p.Description != "" {
				b.WriteString(mutedStyle.Render("        " + p.Description))
				b.WriteString("\n")
			}
		}
	}

	if v.creating {
		b.WriteString("\n")
		b.WriteString(boxStyle.Render(titleStyle.Render("New project") + "\n" +
			v.inputs[0].View() + "\n" + v.inputs[1].View()))
		b.WriteString("\n")
	}
	if v.busy {
		b.WriteString(mutedStyle.Render("Saving..."))
		b.WriteString("\n")
	}
	b.WriteString(banner(v.banner, ""))
	b.WriteString("\n")
	if v.creating {
		b.WriteString(helpStyle.Render("tab: next field  enter: create  esc: cancel"))
	} else {
		b.WriteString(helpStyle.Render("↑/↓: move  enter: open  n: new project  r: reload  ctrl+l: logout  ctrl+c: quit"))
	}
	return b.String()
}
