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
	Register(&RegisterCmd{})
}

// RegisterCmd implements the register command. It does not log in.
type RegisterCmd struct {
	password string
	name     string
}

// SetPassword sets the password (for testing).
func (c *RegisterCmd) SetPassword(pw string) {
	c.password = pw
}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string  { return "Create an account" }
func (c *RegisterCmd) Usage() string {
	return "ptask register [common flags] [--name <name>] [--password <pw>] <email>"
}
func (c *RegisterCmd) NeedsAuth() bool { return false }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.name, "name", "", "")
}

func (c *RegisterCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	form := screens.NewAuthForm(env.Service, env.Session, env.Nav)
	form.ToggleMode()
	form.Name = c.name
	if code := fillCredentials(&form, c.password, env, args, errOut); code != exitcode.Success {
		return code
	}

	res := form.Submit(ctx)
	if res.Err != nil {
		return reportAuthError(errOut, res.Err)
	}
	form.Apply(res)

	if !env.Config.Quiet {
		fmt.Fprintln(out, form.Notice)
	}
	return exitcode.Success
}
