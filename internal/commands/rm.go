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
	Register(&RmCmd{})
}

// RmCmd implements the rm command. It asks on stdin unless --yes is given.
type RmCmd struct {
	yes bool
}

// SetYes skips the confirmation prompt (for testing).
func (c *RmCmd) SetYes(yes bool) {
	c.yes = yes
}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "ptask rm [common flags] [--yes] <project-id> <task-id>" }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.yes, "yes", false, "")
	fs.BoolVar(&c.yes, "y", false, "")
}

func (c *RmCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	projectID, taskID, err := parseProjectAndTask(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	confirm := screens.Confirm(screens.Confirmed)
	if !c.yes {
		ask := promptConfirm(env.In, errOut)
		confirm = func(string) bool {
			return ask(fmt.Sprintf("Delete task %d?", taskID))
		}
	}

	detail := openDetail(ctx, env, projectID)
	defer detail.Close()

	res, deleted, err := detail.Delete(taskID, confirm)
	if err != nil {
		return reportError(errOut, err)
	}
	if !deleted {
		if !env.Config.Quiet {
			fmt.Fprintln(out, "cancelled")
		}
		return exitcode.Success
	}
	return finishMutation(detail, res, env, out, errOut)
}
