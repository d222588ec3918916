package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"ptask/internal/exitcode"
	"ptask/internal/screens"
)

func init() {
	Register(&ToggleCmd{})
}

// ToggleCmd implements the toggle command. Toggling twice restores the task.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string      { return "toggle" }
func (c *ToggleCmd) Aliases() []string { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string  { return "Flip a task between open and completed" }
func (c *ToggleCmd) Usage() string     { return "ptask toggle [common flags] <project-id> <task-id>" }
func (c *ToggleCmd) NeedsAuth() bool   { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	projectID, taskID, err := parseProjectAndTask(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	detail := openDetail(ctx, env, projectID)
	defer detail.Close()

	res, err := detail.Toggle(taskID)
	if err != nil {
		return reportError(errOut, err)
	}
	return finishMutation(detail, res, env, out, errOut)
}

// finishMutation applies the reload that follows a task change and prints
// the refreshed project. A failed reload is a warning; the change itself
// went through.
func finishMutation(detail *screens.ProjectDetail, res screens.DetailResult, env *Env, out, errOut io.Writer) int {
	detail.Apply(res)
	if res.Err != nil {
		fmt.Fprintf(errOut, "warning: %v\n", res.Err)
		if !env.Config.Quiet {
			fmt.Fprintln(out, "ok")
		}
		return exitcode.Success
	}
	if !env.Config.Quiet {
		printDetail(detail, out)
	}
	return exitcode.Success
}
