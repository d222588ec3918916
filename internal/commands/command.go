// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"ptask/internal/config"
	"ptask/internal/nav"
	"ptask/internal/service"
	"ptask/internal/session"
)

// Env is everything a command may use.
type Env struct {
	// Config is always provided.
	Config *config.Config

	// Service talks to the API. Its requests carry Session's credential.
	Service service.Service

	// Session is the stored credential.
	Session session.Store

	// Nav is the navigation controller; a rejected credential drives it to Auth.
	Nav *nav.Controller

	// In is read by interactive prompts.
	In io.Reader
}

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires a stored session.
	// Commands like help, version, login, register, logout return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int
}

// TerminalOwner is implemented by commands that take over the terminal.
// The dispatcher sends their logs to a file instead of stderr.
type TerminalOwner interface {
	OwnsTerminal() bool
}
