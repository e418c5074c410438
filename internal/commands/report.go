package commands

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"tasksync/internal/exitcode"
	"tasksync/internal/service"
)

// describeError renders err for the user and picks its exit code.
func describeError(err error) (string, int) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		if errors.Is(ve.Err, service.ErrUnknownTask) {
			return "task not found", exitcode.UserError
		}
		return ve.Err.Error(), exitcode.UserError
	case errors.Is(err, service.ErrCredentials):
		return fmt.Sprintf("auth error: %v", err), exitcode.AuthError
	case service.IsUnauthorized(err):
		return fmt.Sprintf("auth error: %v", err), exitcode.AuthError
	case service.IsNotFound(err):
		return "task not found", exitcode.UserError
	case service.StatusCode(err) == http.StatusUnprocessableEntity:
		return fmt.Sprintf("invalid task: %v", err), exitcode.UserError
	default:
		return fmt.Sprintf("backend error: %v", err), exitcode.BackendError
	}
}

// reportError prints err to errOut and returns its exit code.
func reportError(errOut io.Writer, err error) int {
	msg, code := describeError(err)
	fmt.Fprintf(errOut, "error: %s\n", msg)
	return code
}

// reportRefError prints a task reference problem.
func reportRefError(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: %v\n", err)
	return exitcode.UserError
}

// printResult confirms a single-task command: "ok" in text mode unless
// quiet, the task itself in json or yaml.
func printResult(env *Env, num int, task service.Task) int {
	f := env.Formatter()
	if f.IsText() {
		f.Notice("ok")
		return exitcode.Success
	}
	if err := f.Task(num, task); err != nil {
		return reportError(env.Err, err)
	}
	return exitcode.Success
}

func errUnexpectedArg(arg string) error {
	return fmt.Errorf("unexpected argument: %s", arg)
}
