package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"ptask/internal/exitcode"
	"ptask/internal/screens"
)

func init() {
	Register(&CreateProjectCmd{})
}

// CreateProjectCmd implements the createproject command.
// On success it prints the reloaded project list unless quiet.
type CreateProjectCmd struct {
	description string
}

// SetDescription sets the description (for testing).
func (c *CreateProjectCmd) SetDescription(desc string) {
	c.description = desc
}

func (c *CreateProjectCmd) Name() string      { return "createproject" }
func (c *CreateProjectCmd) Aliases() []string { return []string{"newproject"} }
func (c *CreateProjectCmd) Synopsis() string  { return "Create a project" }
func (c *CreateProjectCmd) Usage() string {
	return "ptask createproject [common flags] [--description <text>] <title...>"
}
func (c *CreateProjectCmd) NeedsAuth() bool { return true }

func (c *CreateProjectCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
}

func (c *CreateProjectCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	list := screens.NewProjectList(ctx, env.Service)
	defer list.Close()

	res, err := list.Create(title, c.description)
	if err != nil {
		return reportError(errOut, err)
	}
	list.Apply(res)

	if env.Config.Quiet {
		return exitcode.Success
	}
	if res.Err != nil {
		// The project exists; only the refresh failed.
		fmt.Fprintln(out, "ok")
		fmt.Fprintf(errOut, "warning: %v\n", res.Err)
		return exitcode.Success
	}
	return printProjects(list, out)
}
