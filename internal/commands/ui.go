package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"ptask/internal/exitcode"
	"ptask/internal/tui"
)

func init() {
	Register(&UICmd{})
}

// UICmd starts the interactive terminal UI. It needs no session; without
// one the UI opens on the sign-in screen.
type UICmd struct{}

func (c *UICmd) Name() string      { return "ui" }
func (c *UICmd) Aliases() []string { return []string{"tui"} }
func (c *UICmd) Synopsis() string  { return "Interactive mode" }
func (c *UICmd) Usage() string     { return "ptask ui [common flags]" }
func (c *UICmd) NeedsAuth() bool   { return false }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UICmd) OwnsTerminal() bool { return true }

func (c *UICmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	opts := tui.Options{
		Service: env.Service,
		Session: env.Session,
		Nav:     env.Nav,
		In:      env.In,
		Out:     out,
	}
	if err := tui.Run(ctx, opts); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
