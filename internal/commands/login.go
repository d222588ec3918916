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
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
// The password is read from the first line of stdin unless --password is set.
type LoginCmd struct {
	password string
}

// SetPassword sets the password (for testing).
func (c *LoginCmd) SetPassword(pw string) {
	c.password = pw
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Sign in and store the session" }
func (c *LoginCmd) Usage() string     { return "ptask login [common flags] [--password <pw>] <email>" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.password, "password", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	form := screens.NewAuthForm(env.Service, env.Session, env.Nav)
	code := fillCredentials(&form, c.password, env, args, errOut)
	if code != exitcode.Success {
		return code
	}

	res := form.Submit(ctx)
	if res.Err != nil {
		return reportAuthError(errOut, res.Err)
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// fillCredentials takes the email from args and the password from the flag
// or from stdin.
func fillCredentials(form *screens.AuthForm, password string, env *Env, args []string, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: email required")
		return exitcode.UserError
	}
	if len(args) > 1 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[1])
		return exitcode.UserError
	}
	form.Email = strings.TrimSpace(args[0])

	if password == "" {
		pw, err := readLine(env.In, errOut, "Password: ")
		if err != nil && err != errNoInput {
			fmt.Fprintf(errOut, "error: failed to read password: %v\n", err)
			return exitcode.UserError
		}
		password = pw
	}
	form.Password = password
	return exitcode.Success
}
