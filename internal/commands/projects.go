package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"ptask/internal/exitcode"
	"ptask/internal/output"
	"ptask/internal/screens"
)

func init() {
	Register(&ProjectsCmd{})
}

// ProjectsCmd implements the projects command.
type ProjectsCmd struct{}

func (c *ProjectsCmd) Name() string      { return "projects" }
func (c *ProjectsCmd) Aliases() []string { return []string{"ls"} }
func (c *ProjectsCmd) Synopsis() string  { return "List your projects" }
func (c *ProjectsCmd) Usage() string     { return "ptask projects [common flags]" }
func (c *ProjectsCmd) NeedsAuth() bool   { return true }

func (c *ProjectsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ProjectsCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	list := screens.NewProjectList(ctx, env.Service)
	defer list.Close()

	if err := list.Load(); err != nil {
		return reportError(errOut, err)
	}
	return printProjects(list, out)
}

func printProjects(list *screens.ProjectList, out io.Writer) int {
	if list.Status() == screens.StatusEmpty {
		fmt.Fprintln(out, "no projects yet")
		return exitcode.Success
	}
	for _, p := range list.Projects() {
		output.FormatProject(out, p)
	}
	return exitcode.Success
}
