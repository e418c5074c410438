package commands

import (
	"context"

	"github.com/spf13/pflag"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string                    { return "rm" }
func (c *RmCmd) Aliases() []string               { return []string{"delete"} }
func (c *RmCmd) Synopsis() string                { return "Delete a task" }
func (c *RmCmd) Usage() string                   { return "tasksync rm <n | id:ID>" }
func (c *RmCmd) NeedsBackend() bool              { return true }
func (c *RmCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, env *Env, args []string) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return reportRefError(env.Err, err)
	}

	ctl := env.Controller()
	if err := ctl.Load(ctx); err != nil {
		return reportError(env.Err, err)
	}

	num, task, err := resolveTask(ctl.Tasks(), ref)
	if err != nil {
		return reportRefError(env.Err, err)
	}

	if err := ctl.Remove(ctx, task.ID); err != nil {
		return reportError(env.Err, err)
	}
	return printResult(env, num, task)
}
