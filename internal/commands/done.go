package commands

import (
	"context"

	"github.com/spf13/pflag"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command. It flips completion, so running it
// on a completed task reopens it.
type DoneCmd struct{}

func (c *DoneCmd) Name() string                    { return "done" }
func (c *DoneCmd) Aliases() []string               { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string                { return "Toggle a task's completion" }
func (c *DoneCmd) Usage() string                   { return "tasksync done <n | id:ID>" }
func (c *DoneCmd) NeedsBackend() bool              { return true }
func (c *DoneCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, env *Env, args []string) int {
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

	updated, err := ctl.Toggle(ctx, task)
	if err != nil {
		return reportError(env.Err, err)
	}
	return printResult(env, num, updated)
}
