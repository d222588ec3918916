package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"ptask/internal/nav"
	"ptask/internal/output"
	"ptask/internal/screens"
	"ptask/internal/service"
)

const (
	taskTitle = iota
	taskDescription
	taskDue
)

// detailView renders screens.ProjectDetail: header, progress and tasks,
// plus the add form and the delete confirmation.
type detailView struct {
	screen *screens.ProjectDetail
	nav    *nav.Controller
	cursor int

	adding  bool
	inputs  []textinput.Model // title, description, due
	focus   int
	confirm int64 // task awaiting delete confirmation, 0 for none
	busy    bool
	banner  string
}

func newDetailView(screen *screens.ProjectDetail, ctrl *nav.Controller) *detailView {
	title := textinput.New()
	title.Placeholder = "Task title"
	title.CharLimit = 200
	title.Width = 40

	desc := textinput.New()
	desc.Placeholder = "Description (optional)"
	desc.Width = 40

	due := textinput.New()
	due.Placeholder = "Due YYYY-MM-DD (optional)"
	due.CharLimit = 10
	due.Width = 40

	return &detailView{screen: screen, nav: ctrl, inputs: []textinput.Model{title, desc, due}}
}

func (v *detailView) load() tea.Cmd {
	v.screen.MarkLoading()
	screen := v.screen
	return func() tea.Msg {
		return detailMsg{screen: screen, res: screen.Fetch(), reload: true}
	}
}

// mutate runs a task change and the reload that follows it.
func (v *detailView) mutate(run func(*screens.ProjectDetail) (screens.DetailResult, error)) tea.Cmd {
	v.busy = true
	v.banner = ""
	screen := v.screen
	return func() tea.Msg {
		res, err := run(screen)
		return detailMsg{screen: screen, res: res, err: err, reload: err == nil}
	}
}

func (v *detailView) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case detailMsg:
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
		if v.busy {
			return nil
		}
		if v.confirm != 0 {
			return v.updateConfirm(msg)
		}
		if v.adding {
			return v.updateAdd(msg)
		}
		switch msg.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(v.screen.Tasks())-1 {
				v.cursor++
			}
		case "esc", "backspace":
			v.nav.Back()
		case "p":
			v.nav.Navigate(nav.TargetProjects)
		case "r":
			return v.load()
		case "a":
			if v.screen.Status() != screens.StatusReady {
				return nil
			}
			v.adding = true
			v.banner = ""
			for i := range v.inputs {
				v.inputs[i].Reset()
			}
			return v.setFocus(taskTitle)
		case " ", "space":
			if id, ok := v.selectedID(); ok {
				return v.mutate(func(s *screens.ProjectDetail) (screens.DetailResult, error) {
					return s.Toggle(id)
				})
			}
		case "d":
			if id, ok := v.selectedID(); ok {
				v.confirm = id
				v.banner = ""
			}
		}
	}
	return nil
}

func (v *detailView) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		id := v.confirm
		v.confirm = 0
		return v.mutate(func(s *screens.ProjectDetail) (screens.DetailResult, error) {
			res, _, err := s.Delete(id, screens.Confirmed)
			return res, err
		})
	case "n", "N", "esc":
		v.confirm = 0
	}
	return nil
}

func (v *detailView) updateAdd(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		v.adding = false
		v.banner = ""
		return nil
	case "tab", "down":
		return v.setFocus((v.focus + 1) % len(v.inputs))
	case "shift+tab", "up":
		return v.setFocus((v.focus + len(v.inputs) - 1) % len(v.inputs))
	case "enter":
		t := service.NewTask{
			Title:       v.inputs[taskTitle].Value(),
			Description: v.inputs[taskDescription].Value(),
			DueDate:     strings.TrimSpace(v.inputs[taskDue].Value()),
		}
		if err := screens.ValidateNewTask(t); err != nil {
			v.banner = err.Error()
			return nil
		}
		v.adding = false
		return v.mutate(func(s *screens.ProjectDetail) (screens.DetailResult, error) {
			return s.AddTask(t)
		})
	}
	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	return cmd
}

func (v *detailView) setFocus(i int) tea.Cmd {
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

func (v *detailView) selectedID() (int64, bool) {
	tasks := v.screen.Tasks()
	if v.screen.Status() != screens.StatusReady || v.cursor >= len(tasks) {
		return 0, false
	}
	return tasks[v.cursor].ID, true
}

func (v *detailView) clampCursor() {
	if n := len(v.screen.Tasks()); v.cursor >= n {
		v.cursor = max(n-1, 0)
	}
}

func (v *detailView) view() string {
	var b strings.Builder

	switch v.screen.Status() {
	case screens.StatusLoading:
		b.WriteString(mutedStyle.Render("Loading project..."))
		b.WriteString("\n")
	case screens.StatusFailed:
		b.WriteString(errorStyle.Render(v.screen.Err()))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("r: retry  esc: back"))
		b.WriteString("\n")
	default:
		v.viewProject(&b)
	}

	if v.adding {
		b.WriteString("\n")
		b.WriteString(boxStyle.Render(titleStyle.Render("New task") + "\n" +
			v.inputs[taskTitle].View() + "\n" +
			v.inputs[taskDescription].View() + "\n" +
			v.inputs[taskDue].View()))
		b.WriteString("\n")
	}
	if v.confirm != 0 {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(screens.MsgConfirmDelete + " (y/n)"))
		b.WriteString("\n")
	}
	if v.busy {
		b.WriteString(mutedStyle.Render("Saving..."))
		b.WriteString("\n")
	}
	b.WriteString(banner(v.banner, ""))
	b.WriteString("\n")

	switch {
	case v.adding:
		b.WriteString(helpStyle.Render("tab: next field  enter: add  esc: cancel"))
	case v.confirm != 0:
		b.WriteString(helpStyle.Render("y: delete  n: keep"))
	default:
		b.WriteString(helpStyle.Render("↑/↓: move  space: toggle  a: add  d: delete  esc/p: projects  ctrl+l: logout"))
	}
	return b.String()
}

func (v *detailView) viewProject(b *strings.Builder) {
	p := v.screen.Project()
	prog := v.screen.Progress()

	b.WriteString(titleStyle.Render(p.Title))
	b.WriteString("\n")
	if p.Description != "" {
		b.WriteString(mutedStyle.Render(p.Description))
		b.WriteString("\n")
	}
	b.WriteString(progressLine(prog))
	b.WriteString("\n\n")

	tasks := v.screen.Tasks()
	if len(tasks) == 0 {
		b.WriteString(mutedStyle.Render("No tasks yet. Press a to add one."))
		b.WriteString("\n")
		return
	}
	for i, t := range tasks {
		line := fmt.Sprintf("%s %s", output.Checkbox(t.Completed), t.Title)
		if t.DueDate != "" {
			line += mutedStyle.Render("  due " + t.DueDate)
		}
		switch {
		case i == v.cursor:
			b.WriteString(selectedStyle.Render("> ") + line)
		case t.Completed:
			b.WriteString("  " + doneStyle.Render(line))
		default:
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
}

func progressLine(prog service.Progress) string {
	return fmt.Sprintf("%s %d%%  %d of %d tasks completed",
		output.ProgressBar(prog.ProgressPercentage), output.Percent(prog.ProgressPercentage),
		prog.CompletedTasks, prog.TotalTasks)
}
