// Package cli mounts the registered commands on a cobra root and runs them.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"tasksync/internal/commands"
	"tasksync/internal/config"
	"tasksync/internal/exitcode"
	"tasksync/internal/logging"
	"tasksync/internal/service"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// globalFlags are shared by every command.
type globalFlags struct {
	configDir string
	quiet     bool
	debug     bool
	format    string
	backend   string
	baseURL   string
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// With no command, list runs. Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	var flags globalFlags
	code := exitcode.Success

	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "Keep a task list in sync with a remote task service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("format") && !config.IsValidFormat(flags.format) {
				return fmt.Errorf("invalid format %q: must be one of %s", flags.format, strings.Join(config.ValidFormats, ", "))
			}
			return nil
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configDir, "config", "", "config directory")
	pf.BoolVarP(&flags.quiet, "quiet", "q", false, "suppress informational output")
	pf.BoolVar(&flags.debug, "debug", false, "log debug output to stderr")
	pf.StringVar(&flags.format, "format", config.DefaultFormat, "output format: text, json or yaml")
	pf.StringVar(&flags.backend, "backend", "", "task service backend: rest or googletasks")
	pf.StringVar(&flags.baseURL, "base-url", "", "base URL of the REST task collection")

	for _, c := range d.registry.All() {
		sub := &cobra.Command{
			Use:     strings.TrimPrefix(c.Usage(), config.AppName+" "),
			Aliases: c.Aliases(),
			Short:   c.Synopsis(),
			RunE: func(cmd *cobra.Command, args []string) error {
				code = d.dispatchCommand(cmd, c, &flags, args)
				return nil
			},
		}
		c.RegisterFlags(sub.Flags())
		root.AddCommand(sub)
	}

	if list, ok := d.registry.Find("list"); ok {
		root.RunE = func(cmd *cobra.Command, args []string) error {
			code = d.dispatchCommand(cmd, list, &flags, args)
			return nil
		}
	}

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return code
}

func (d *Dispatcher) dispatchCommand(cmd *cobra.Command, c commands.Command, flags *globalFlags, args []string) int {
	ctx := cmd.Context()
	errOut := cmd.ErrOrStderr()

	cfg, err := d.loadConfig(cmd, flags)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	logger, closer := logging.New(cfg, errOut)
	defer closer.Close()

	env := &commands.Env{
		Config: cfg,
		Logger: logger,
		In:     cmd.InOrStdin(),
		Out:    cmd.OutOrStdout(),
		Err:    errOut,
	}

	if c.NeedsBackend() {
		if d.factory == nil {
			fmt.Fprintln(errOut, "error: no backend configured")
			return exitcode.AuthError
		}
		svc, err := d.factory(ctx, cfg, logger)
		if err != nil {
			// Credentials and configuration problems both stop before any
			// call and share the exit code; only the wording differs.
			msg := err.Error()
			if errors.Is(err, service.ErrCredentials) {
				msg = "auth error: " + msg
			}
			fmt.Fprintf(errOut, "error: %s\n", msg)
			return exitcode.AuthError
		}
		env.Service = svc
	}

	return c.Run(ctx, env, args)
}

// loadConfig reads config and environment, then applies explicit flags.
func (d *Dispatcher) loadConfig(cmd *cobra.Command, flags *globalFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configDir)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("quiet") {
		cfg.Quiet = flags.quiet
	}
	if changed("debug") {
		cfg.Debug = flags.debug
	}
	if changed("format") {
		cfg.Format = flags.format
	}
	if changed("backend") {
		cfg.Backend = flags.backend
	}
	if changed("base-url") {
		cfg.BaseURL = flags.baseURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
