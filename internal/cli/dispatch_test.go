package cli_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasksync/internal/cli"
	"tasksync/internal/commands"
	"tasksync/internal/config"
	"tasksync/internal/exitcode"
	"tasksync/internal/service"
	"tasksync/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService
// and records the config it was built from.
func testFactory(svc *testutil.FakeService, seen **config.Config) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Service, error) {
		if seen != nil {
			*seen = cfg
		}
		return svc, nil
	}
}

func run(t *testing.T, factory cli.ServiceFactory, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, key := range []string{"TASKSYNC_BACKEND", "TASKSYNC_BASE_URL", "TASKSYNC_FORMAT", "TASKSYNC_DEBUG", "TASKSYNC_QUIET", "TASKSYNC_LOG_FILE"} {
		t.Setenv(key, "")
	}

	var out, errOut bytes.Buffer
	d := cli.NewDispatcher(commands.DefaultRegistry, factory)
	code = d.Run(context.Background(), args, strings.NewReader(""), &out, &errOut)
	return out.String(), errOut.String(), code
}

func seeded() *testutil.FakeService {
	svc := testutil.NewFakeService()
	svc.AddTask("a", "Buy milk", "2 liters", false)
	return svc
}

func TestDispatcher_NoArgsLists(t *testing.T) {
	stdout, stderr, code := run(t, testFactory(seeded(), nil))

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Equal(t, "   1  [ ] Buy milk\n          2 liters\n", stdout)
}

func TestDispatcher_Aliases(t *testing.T) {
	for _, name := range []string{"list", "ls"} {
		stdout, _, code := run(t, testFactory(seeded(), nil), name)
		assert.Equal(t, exitcode.Success, code, name)
		assert.Contains(t, stdout, "Buy milk", name)
	}

	svc := seeded()
	_, _, code := run(t, testFactory(svc, nil), "toggle", "1")
	assert.Equal(t, exitcode.Success, code)
	assert.True(t, svc.Tasks()[0].Completed)

	_, _, code = run(t, testFactory(svc, nil), "delete", "id:a")
	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, svc.Tasks())
}

func TestDispatcher_AddWithFlags(t *testing.T) {
	svc := testutil.NewFakeService()
	stdout, stderr, code := run(t, testFactory(svc, nil), "add", "-d", "Sunday", "Call", "mom")

	require.Equal(t, exitcode.Success, code, stderr)
	assert.Equal(t, "ok\n", stdout)
	assert.Equal(t, []service.Task{{ID: "1", Title: "Call mom", Description: "Sunday"}}, svc.Tasks())

	// Flag values do not leak into the next run.
	_, stderr, code = run(t, testFactory(svc, nil), "add", "Another")
	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: description required\n", stderr)
}

func TestDispatcher_GlobalFlags(t *testing.T) {
	var seen *config.Config
	stdout, _, code := run(t, testFactory(seeded(), &seen),
		"--quiet", "--format", "json", "--base-url", "http://example.test/tasks", "list")

	require.Equal(t, exitcode.Success, code)
	require.NotNil(t, seen)
	assert.True(t, seen.Quiet)
	assert.Equal(t, "json", seen.Format)
	assert.Equal(t, "http://example.test/tasks", seen.BaseURL)
	assert.Contains(t, stdout, `"title": "Buy milk"`)
}

func TestDispatcher_InvalidFormat(t *testing.T) {
	svc := seeded()
	_, stderr, code := run(t, testFactory(svc, nil), "--format", "xml", "list")

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: invalid format \"xml\": must be one of text, json, yaml\n", stderr)
	assert.Zero(t, svc.TotalCalls())
}

func TestDispatcher_InvalidBackend(t *testing.T) {
	_, stderr, code := run(t, testFactory(seeded(), nil), "--backend", "fax", "list")

	assert.Equal(t, exitcode.AuthError, code)
	assert.Contains(t, stderr, `invalid backend "fax"`)
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	_, stderr, code := run(t, testFactory(seeded(), nil), "unknowncmd")

	assert.Equal(t, exitcode.UserError, code)
	assert.True(t, strings.HasPrefix(stderr, `error: unknown command "unknowncmd"`), stderr)
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	_, stderr, code := run(t, testFactory(seeded(), nil), "list", "--bogus")

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: unknown flag: --bogus\n", stderr)
}

func TestDispatcher_Help(t *testing.T) {
	stdout, stderr, code := run(t, testFactory(seeded(), nil), "help")

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "Usage:")
	for _, name := range []string{"add", "done", "list", "rm", "serve", "shell", "version"} {
		assert.Contains(t, stdout, name)
	}
}

func TestDispatcher_VersionNeedsNoBackend(t *testing.T) {
	factory := func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Service, error) {
		t.Fatal("factory must not be called")
		return nil, nil
	}
	stdout, _, code := run(t, factory, "version")

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "tasksync 0.1.0\n", stdout)
}

func TestDispatcher_CredentialsError(t *testing.T) {
	factory := func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Service, error) {
		return nil, fmt.Errorf("%w: failed to read token.json", service.ErrCredentials)
	}
	_, stderr, code := run(t, factory, "list")

	assert.Equal(t, exitcode.AuthError, code)
	assert.Equal(t, "error: auth error: credentials unavailable: failed to read token.json\n", stderr)
}

func TestDispatcher_BackendConfigError(t *testing.T) {
	factory := func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Service, error) {
		return nil, fmt.Errorf("invalid base url: %s", "ftp://x")
	}
	_, stderr, code := run(t, factory, "list")

	assert.Equal(t, exitcode.AuthError, code)
	assert.Equal(t, "error: invalid base url: ftp://x\n", stderr)
}
