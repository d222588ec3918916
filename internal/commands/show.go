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
	Register(&ShowCmd{})
}

// ShowCmd implements the show command: one project, its progress and tasks.
type ShowCmd struct{}

func (c *ShowCmd) Name() string      { return "show" }
func (c *ShowCmd) Aliases() []string { return []string{"open"} }
func (c *ShowCmd) Synopsis() string  { return "Show a project and its tasks" }
func (c *ShowCmd) Usage() string     { return "ptask show [common flags] <project-id>" }
func (c *ShowCmd) NeedsAuth() bool   { return true }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: project id required")
		return exitcode.UserError
	}
	projectID, err := parseID("project", args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	detail := openDetail(ctx, env, projectID)
	defer detail.Close()

	if err := detail.Load(); err != nil {
		return reportError(errOut, err)
	}
	printDetail(detail, out)
	return exitcode.Success
}

// openDetail selects projectID in the controller and mounts its screen.
func openDetail(ctx context.Context, env *Env, projectID int64) *screens.ProjectDetail {
	if env.Nav != nil {
		env.Nav.Select(projectID)
	}
	return screens.NewProjectDetail(ctx, env.Service, projectID)
}

func printDetail(detail *screens.ProjectDetail, out io.Writer) {
	output.FormatProjectHeader(out, *detail.Project(), detail.Progress())
	fmt.Fprintln(out)
	tasks := detail.Tasks()
	if len(tasks) == 0 {
		fmt.Fprintln(out, "no tasks yet")
		return
	}
	for _, t := range tasks {
		output.FormatTask(out, t)
	}
}
