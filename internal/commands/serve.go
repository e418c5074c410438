package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"tasksync/internal/devserver"
	"tasksync/internal/exitcode"
)

// DefaultServeAddr matches the host and port of the default base URL.
const DefaultServeAddr = "127.0.0.1:8000"

func init() {
	Register(&ServeCmd{})
}

// ServeCmd runs the development task server.
type ServeCmd struct {
	addr string
	db   string
}

func (c *ServeCmd) Name() string       { return "serve" }
func (c *ServeCmd) Aliases() []string  { return nil }
func (c *ServeCmd) Synopsis() string   { return "Run the development task server" }
func (c *ServeCmd) Usage() string      { return "tasksync serve [--addr <host:port>] [--db <path>]" }
func (c *ServeCmd) NeedsBackend() bool { return false }

func (c *ServeCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.addr, "addr", DefaultServeAddr, "listen address")
	fs.StringVar(&c.db, "db", "", "sqlite database path (in-memory when empty)")
}

func (c *ServeCmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) > 0 {
		return reportRefError(env.Err, errUnexpectedArg(args[0]))
	}

	var store devserver.Store = devserver.NewMemoryStore()
	if c.db != "" {
		sqlite, err := devserver.OpenSQLite(c.db)
		if err != nil {
			fmt.Fprintf(env.Err, "error: %v\n", err)
			return exitcode.UserError
		}
		store = sqlite
	}
	defer store.Close()

	if !env.Config.Quiet {
		fmt.Fprintf(env.Err, "serving tasks on http://%s/tasks/\n", c.addr)
	}

	if err := devserver.New(store, env.logger()).Run(ctx, c.addr); err != nil {
		fmt.Fprintf(env.Err, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
