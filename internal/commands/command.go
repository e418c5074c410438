// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"tasksync/internal/config"
	"tasksync/internal/controller"
	"tasksync/internal/logging"
	"tasksync/internal/output"
	"tasksync/internal/service"
)

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

	// NeedsBackend returns true if the command talks to the task service.
	// Commands like version and serve return false.
	NeedsBackend() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *pflag.FlagSet)

	// Run executes the command with positional arguments after flag
	// parsing and returns the exit code.
	Run(ctx context.Context, env *Env, args []string) int
}

// Env is what a command runs against.
type Env struct {
	// Config is always provided.
	Config *config.Config

	// Service is nil if NeedsBackend() returns false.
	Service service.Service

	Logger *slog.Logger
	In     io.Reader
	Out    io.Writer
	Err    io.Writer
}

// Controller creates a controller over the environment's service.
func (e *Env) Controller() *controller.Controller {
	return controller.New(e.Service, controller.WithLogger(e.logger()))
}

// Formatter creates an output formatter for stdout.
func (e *Env) Formatter() *output.Formatter {
	return output.New(e.Out, e.Config.Format, e.Config.Quiet)
}

func (e *Env) logger() *slog.Logger {
	if e.Logger == nil {
		return logging.Discard()
	}
	return e.Logger
}
