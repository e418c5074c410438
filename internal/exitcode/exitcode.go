// Package exitcode defines process exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error: bad arguments, invalid task
	// reference, failed validation, or a task the service no longer has.
	UserError = 1

	// AuthError indicates missing credentials, rejected credentials or an
	// invalid configuration.
	AuthError = 2

	// BackendError indicates the task service failed or was unreachable.
	BackendError = 3
)
