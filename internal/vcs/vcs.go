package vcs

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/qiniu/x/log"
)

// Kind identifies the version-control tool that manages a checkout.
type Kind int

const (
	Git Kind = iota
	Subversion
)

func (k Kind) String() string {
	switch k {
	case Git:
		return "git"
	case Subversion:
		return "svn"
	}
	return "unknown"
}

// Marker returns the metadata directory whose presence identifies a
// valid checkout of this kind.
func (k Kind) Marker() string {
	switch k {
	case Git:
		return ".git"
	case Subversion:
		return ".svn"
	}
	return ""
}

// Tool abstracts the command vocabulary of a version-control system.
//
// rev can be a branch, tag, or fixed revision; the empty string selects
// the newest content on the default branch.
type Tool interface {
	Kind() Kind

	// Checkout creates a fresh checkout of remote at rev in dir.
	// dir must not exist.
	Checkout(ctx context.Context, remote, rev, dir string) error

	// Update refreshes an existing checkout in dir so that it matches
	// rev exactly, discarding local modifications. This is destructive,
	// not a merge.
	Update(ctx context.Context, remote, rev, dir string) error
}

func runTool(ctx context.Context, bin, dir string, args ...string) error {
	_, err := toolOutput(ctx, bin, dir, args...)
	return err
}

func toolOutput(ctx context.Context, bin, dir string, args ...string) (string, error) {
	log.Debugf("run: %s %s", bin, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, bin, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", &commandError{err: err, stderr: msg}
		}
		return "", err
	}
	return stdout.String(), nil
}

// commandError keeps the original error (and with it the exit status)
// while surfacing the tool's stderr in the message.
type commandError struct {
	err    error
	stderr string
}

func (e *commandError) Error() string { return e.stderr }
func (e *commandError) Unwrap() error { return e.err }
