// Package sudo runs commands as the superuser. The escalation method
// is resolved once, when the Runner is created, and carried as a value;
// no process-wide state is involved.
package sudo

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/qiniu/x/log"
	"golang.org/x/sys/unix"
)

// Method selects how commands are escalated.
type Method string

const (
	MethodAuto Method = "auto"
	MethodSudo Method = "sudo"
	MethodSu   Method = "su"
	MethodSSH  Method = "ssh"

	// MethodNone runs commands directly; chosen by auto-detection when
	// the process already has euid 0.
	MethodNone Method = "none"
)

// ParseMethod validates a method selector from config or flags.
func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case MethodAuto, MethodSudo, MethodSu, MethodSSH, MethodNone:
		return m, nil
	}
	return "", fmt.Errorf("unknown sudo method: %q", s)
}

// Runner executes commands with a fixed privilege-escalation method.
type Runner struct {
	method Method
}

// New creates a Runner, resolving MethodAuto to a concrete method.
func New(m Method) (*Runner, error) {
	resolved, err := detect(m)
	if err != nil {
		return nil, err
	}
	if resolved != m {
		log.Debugf("privilege escalation: using %s", resolved)
	}
	return &Runner{method: resolved}, nil
}

// Method returns the resolved escalation method.
func (r *Runner) Method() Method { return r.method }

func detect(m Method) (Method, error) {
	if m != MethodAuto {
		return m, nil
	}
	if unix.Geteuid() == 0 {
		return MethodNone, nil
	}
	if _, err := exec.LookPath("sudo"); err == nil {
		return MethodSudo, nil
	}
	return MethodSu, nil
}

// Run executes name with args as the superuser, inheriting the
// process's standard streams (apt-get and su may prompt).
func (r *Runner) Run(ctx context.Context, name string, args ...string) error {
	argv := r.argv(name, args)
	log.Debugf("run: %s", strings.Join(argv, " "))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// argv builds the escalated argument vector. Command words are never
// spliced into a shell string: the su path hands them to the shell as
// positional parameters.
func (r *Runner) argv(name string, args []string) []string {
	switch r.method {
	case MethodSudo:
		return append([]string{"sudo", name}, args...)
	case MethodSu:
		argv := []string{"su", "root", "-c", `exec "$0" "$@"`, name}
		return append(argv, args...)
	case MethodSSH:
		return append([]string{"ssh", "root@localhost", name}, args...)
	default:
		return append([]string{name}, args...)
	}
}
