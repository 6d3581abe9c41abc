// Package executor runs the external inventory tools some platforms depend
// on: system_profiler on macOS, usbconfig and pciconf on FreeBSD.
//
// Every command runs with a timeout. On Unix the command gets its own process
// group and the whole group is killed when the timeout fires, so a hung tool
// cannot leave children behind. Only allowlisted tools are run. Callers depend
// on the Runner interface; tests substitute Canned output.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single tool invocation.
const DefaultTimeout = 30 * time.Second

var (
	// ErrTimeout is returned when a command is killed by its timeout.
	ErrTimeout = errors.New("command timed out")
	// ErrNotAllowed is returned for tools outside the allowlist.
	ErrNotAllowed = errors.New("command not allowed")
	// ErrNotFound is returned when the tool is not installed or has no canned output.
	ErrNotFound = errors.New("command not found")
)

// Runner runs a command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExitError reports a command that ran and exited non-zero.
type ExitError struct {
	Command string
	Code    int
	Stderr  string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d: %s", e.Command, e.Code, strings.TrimSpace(e.Stderr))
}

// Executor runs allowlisted tools found in $PATH.
type Executor struct {
	// Timeout applies to each Run. Zero means DefaultTimeout.
	Timeout time.Duration
	tools   *toolCache
}

// New creates an Executor that may run the given tools, or DefaultTools if
// none are named.
func New(timeout time.Duration, tools ...string) *Executor {
	if len(tools) == 0 {
		tools = DefaultTools
	}
	return &Executor{Timeout: timeout, tools: newToolCache(tools)}
}

// Run executes name with args and returns stdout.
func (e *Executor) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	path, err := e.tools.lookup(name)
	if err != nil {
		return nil, err
	}

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	killProcessGroup(cmd)
	// Orphaned grandchildren holding the pipes must not block Wait.
	cmd.WaitDelay = 5 * time.Second

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s after %s: %w", name, timeout, ErrTimeout)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &ExitError{Command: name, Code: exitErr.ExitCode(), Stderr: stderr.String()}
		}
		return nil, fmt.Errorf("execution of %s failed: %w", name, err)
	}
	return stdout.Bytes(), nil
}

// Canned is a Runner that replays fixed output keyed by the full command
// line, arguments separated by single spaces.
type Canned map[string][]byte

func (c Canned) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	out, ok := c[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return out, nil
}
