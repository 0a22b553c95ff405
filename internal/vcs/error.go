package vcs

import (
	"errors"
	"fmt"
	"os/exec"
)

// ReconcileError reports a failed reconciliation step. The checkout is
// left in whatever partial state the failing step produced; callers
// retry by reconciling again.
type ReconcileError struct {
	Step string // "clone", "fetch", "checkout", "reset", "update", "relocate"
	Err  error
}

func (e *ReconcileError) Error() string {
	return fmt.Sprintf("reconcile: %s: %v", e.Step, e.Err)
}

func (e *ReconcileError) Unwrap() error { return e.Err }

// ExitCode returns the exit status of the underlying command, or -1 if
// the failure was not a command exiting non-zero.
func (e *ReconcileError) ExitCode() int {
	var exit *exec.ExitError
	if errors.As(e.Err, &exit) {
		return exit.ExitCode()
	}
	return -1
}
