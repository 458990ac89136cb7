// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"kazam/internal/config"
	"kazam/internal/service"
	"kazam/internal/session"
	"kazam/internal/tasks"
)

// Env carries the wired application state into a command.
type Env struct {
	// Cfg is always provided (config dir, paths, base URL).
	Cfg *config.Config

	// Svc is the remote-store client.
	Svc service.Service

	// Session is the session store, already restored from disk.
	Session *session.Store

	// Tasks is the task collection manager, subscribed to Session.
	Tasks *tasks.Manager
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

	// NeedsAuth returns true if the command requires a session.
	// Commands like help, version, login, logout return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int
}
