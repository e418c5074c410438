package commands

import (
	"context"

	"github.com/spf13/pflag"

	"tasksync/internal/exitcode"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `tasksync` (no args) and `tasksync list`.
type ListCmd struct{}

func (c *ListCmd) Name() string                    { return "list" }
func (c *ListCmd) Aliases() []string               { return []string{"ls"} }
func (c *ListCmd) Synopsis() string                { return "List tasks" }
func (c *ListCmd) Usage() string                   { return "tasksync list" }
func (c *ListCmd) NeedsBackend() bool              { return true }
func (c *ListCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *ListCmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) > 0 {
		return reportRefError(env.Err, errUnexpectedArg(args[0]))
	}

	ctl := env.Controller()
	if err := ctl.Load(ctx); err != nil {
		return reportError(env.Err, err)
	}

	if err := env.Formatter().Tasks(ctl.Tasks()); err != nil {
		return reportError(env.Err, err)
	}
	return exitcode.Success
}
