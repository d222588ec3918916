package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"ptask/internal/commands"
	"ptask/internal/config"
	"ptask/internal/exitcode"
	"ptask/internal/logging"
	"ptask/internal/nav"
	"ptask/internal/service"
	"ptask/internal/session"
)

// ServiceFactory creates a Service from config.
// Requests it makes must carry store's credential, and onTeardown must run
// when the server rejects that credential.
type ServiceFactory func(ctx context.Context, cfg *config.Config, store session.Store, onTeardown func()) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
	in       io.Reader
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
		in:       os.Stdin,
	}
}

// SetInput replaces stdin for prompts (for testing).
func (d *Dispatcher) SetInput(in io.Reader) {
	d.in = in
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> list projects
	if len(args) == 0 {
		return d.dispatch(ctx, "projects", nil, out, errOut)
	}

	cmdName := args[0]

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir, apiURL string
	var quiet, debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.StringVar(&apiURL, "api-url", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		return reportFlagError(errOut, err)
	}

	// A leftover leading dash means a flag after a positional argument
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	if apiURL != "" {
		if err := cfg.SetAPIURL(apiURL); err != nil {
			fmt.Fprintf(errOut, "error: %s\n", err)
			return exitcode.UserError
		}
	}
	cfg.Quiet = quiet
	cfg.Debug = cfg.Debug || debug

	closeLog, err := setupLogging(cmd, cfg, errOut)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	defer closeLog()

	store := session.NewFileStore(cfg.SessionPath())
	if cmd.NeedsAuth() {
		if _, ok := store.Get(); !ok {
			fmt.Fprintln(errOut, "error: not logged in (run: ptask login)")
			return exitcode.AuthError
		}
	}
	ctrl := nav.New(store)

	var svc service.Service
	if d.factory != nil {
		svc, err = d.factory(ctx, cfg, store, func() { ctrl.ForceTeardown() })
		if err != nil {
			fmt.Fprintf(errOut, "error: backend error: %s\n", err)
			return exitcode.BackendError
		}
	}

	env := &commands.Env{
		Config:  cfg,
		Service: svc,
		Session: store,
		Nav:     ctrl,
		In:      d.in,
	}
	return cmd.Run(ctx, env, positionalArgs, out, errOut)
}

func reportFlagError(errOut io.Writer, err error) int {
	errStr := err.Error()

	// Missing flag value
	if strings.Contains(errStr, "flag needs an argument") {
		flagName := strings.TrimSpace(errStr[strings.LastIndex(errStr, ":")+1:])
		fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagName)
		return exitcode.UserError
	}

	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
		return exitcode.UserError
	}

	fmt.Fprintf(errOut, "error: %s\n", errStr)
	return exitcode.UserError
}

// setupLogging sends logs to errOut, or to the log file for commands that
// own the terminal.
func setupLogging(cmd commands.Command, cfg *config.Config, errOut io.Writer) (func(), error) {
	if owner, ok := cmd.(commands.TerminalOwner); !ok || !owner.OwnsTerminal() {
		logging.Setup(errOut, cfg.Debug)
		return func() {}, nil
	}

	if err := cfg.EnsureDir(); err != nil {
		return nil, fmt.Errorf("failed to create config dir: %w", err)
	}
	f, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logging.Setup(f, cfg.Debug)
	return func() { f.Close() }, nil
}
