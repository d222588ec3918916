package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"ptask/internal/exitcode"
)

func init() {
	Register(&RefreshCmd{})
}

// RefreshCmd exchanges the stored credential for a fresh one.
type RefreshCmd struct{}

func (c *RefreshCmd) Name() string      { return "refresh" }
func (c *RefreshCmd) Aliases() []string { return nil }
func (c *RefreshCmd) Synopsis() string  { return "Renew the stored session" }
func (c *RefreshCmd) Usage() string     { return "ptask refresh [common flags]" }
func (c *RefreshCmd) NeedsAuth() bool   { return true }

func (c *RefreshCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RefreshCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	res, err := env.Service.Refresh(ctx)
	if err != nil {
		return reportError(errOut, err)
	}
	if err := env.Session.Set(res.AccessToken); err != nil {
		fmt.Fprintf(errOut, "error: failed to save session: %v\n", err)
		return exitcode.AuthError
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
