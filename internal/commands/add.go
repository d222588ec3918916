package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"ptask/internal/exitcode"
	"ptask/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
	due         string
}

// SetDescription sets the description (for testing).
func (c *AddCmd) SetDescription(desc string) {
	c.description = desc
}

// SetDue sets the due date (for testing).
func (c *AddCmd) SetDue(due string) {
	c.due = due
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return nil }
func (c *AddCmd) Synopsis() string  { return "Add a task to a project" }
func (c *AddCmd) Usage() string {
	return "ptask add [common flags] [--description <text>] [--due YYYY-MM-DD] <project-id> <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
	fs.StringVar(&c.due, "due", "", "")
}

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintln(errOut, "error: project id and title required")
		return exitcode.UserError
	}
	projectID, err := parseID("project", args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	detail := openDetail(ctx, env, projectID)
	defer detail.Close()

	res, err := detail.AddTask(service.NewTask{
		Title:       strings.Join(args[1:], " "),
		Description: c.description,
		DueDate:     strings.TrimSpace(c.due),
	})
	if err != nil {
		return reportError(errOut, err)
	}
	return finishMutation(detail, res, env, out, errOut)
}
