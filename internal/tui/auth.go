package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"ptask/internal/screens"
)

const (
	fieldEmail = iota
	fieldPassword
	fieldName
)

// authView renders screens.AuthForm with one text input per field.
type authView struct {
	form   screens.AuthForm
	inputs []textinput.Model
	focus  int
	busy   bool
}

func newAuthView(form screens.AuthForm) authView {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 254
	email.Width = 40

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.Width = 40

	name := textinput.New()
	name.Placeholder = "name (optional)"
	name.CharLimit = 100
	name.Width = 40

	v := authView{form: form, inputs: []textinput.Model{email, password, name}}
	v.inputs[fieldEmail].Focus()
	return v
}

// fields is the number of inputs shown in the current mode.
func (v authView) fields() int {
	if v.form.Mode == screens.ModeRegister {
		return 3
	}
	return 2
}

func (v authView) setFocus(i int) (authView, tea.Cmd) {
	v.focus = i
	var cmd tea.Cmd
	for j := range v.inputs {
		if j == i {
			cmd = v.inputs[j].Focus()
		} else {
			v.inputs[j].Blur()
		}
	}
	return v, cmd
}

func (v authView) update(ctx context.Context, msg tea.Msg) (authView, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		v.busy = false
		v.form.Apply(msg.res)
		if msg.res.Outcome == screens.Registered {
			v.inputs[fieldPassword].Reset()
			v.inputs[fieldName].Reset()
			return v.setFocus(fieldPassword)
		}
		return v, nil

	case tea.KeyMsg:
		if v.busy {
			return v, nil
		}
		switch msg.String() {
		case "tab", "down":
			return v.setFocus((v.focus + 1) % v.fields())
		case "shift+tab", "up":
			return v.setFocus((v.focus + v.fields() - 1) % v.fields())
		case "ctrl+r":
			v.form.ToggleMode()
			if v.focus >= v.fields() {
				return v.setFocus(fieldEmail)
			}
			return v, nil
		case "enter":
			return v.submit(ctx)
		}
	}

	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	return v, cmd
}

// submit copies the inputs into the form and runs it off the UI goroutine.
// A local validation failure is shown without issuing a command.
func (v authView) submit(ctx context.Context) (authView, tea.Cmd) {
	v.form.Email = strings.TrimSpace(v.inputs[fieldEmail].Value())
	v.form.Password = v.inputs[fieldPassword].Value()
	v.form.Name = v.inputs[fieldName].Value()

	if err := v.form.Validate(); err != nil {
		v.form.Apply(screens.AuthResult{Outcome: screens.AuthFailed, Err: err})
		return v, nil
	}

	v.busy = true
	form := v.form
	return v, func() tea.Msg {
		return authDoneMsg{res: form.Submit(ctx)}
	}
}

func (v authView) view() string {
	var b strings.Builder
	if v.form.Mode == screens.ModeRegister {
		b.WriteString(titleStyle.Render("Create an account"))
	} else {
		b.WriteString(titleStyle.Render("Sign in"))
	}
	b.WriteString("\n\n")

	labels := []string{"Email", "Password", "Name"}
	for i := 0; i < v.fields(); i++ {
		b.WriteString(mutedStyle.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(v.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if v.busy {
		b.WriteString(mutedStyle.Render("Please wait..."))
		b.WriteString("\n")
	}
	b.WriteString(banner(v.form.Err, v.form.Notice))

	other := "register"
	if v.form.Mode == screens.ModeRegister {
		other = "login"
	}
	b.WriteString(helpStyle.Render("tab: next field  enter: submit  ctrl+r: " + other + "  ctrl+c: quit"))
	return boxStyle.Render(b.String())
}
