package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// interruptGrace is how long a cancelled command may take to exit before it is killed
const interruptGrace = 10 * time.Second

// CommandRunner defines the interface for running external commands
// This allows mocking exec.Command in tests
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	LookPath(name string) (string, error)
}

// ExecCommandRunner is the production implementation using os/exec
type ExecCommandRunner struct{}

// Run executes a command. On failure the returned error carries the tail of stderr.
func (r *ExecCommandRunner) Run(ctx context.Context, name string, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	// On cancellation ask the process to stop so ffmpeg can close its output
	cmd.Cancel = func() error {
		if err := cmd.Process.Signal(os.Interrupt); err != nil {
			return cmd.Process.Kill()
		}
		return nil
	}
	cmd.WaitDelay = interruptGrace
	if err := cmd.Run(); err != nil {
		return &RunError{Err: err, Stderr: lastLine(stderr.String())}
	}
	return nil
}

// Output executes a command and returns its output
func (r *ExecCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Output()
}

// LookPath resolves name against PATH
func (r *ExecCommandRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// RunError is returned when a command exits unsuccessfully
type RunError struct {
	Err    error
	Stderr string
}

func (e *RunError) Error() string {
	if e.Stderr == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Stderr)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit code, or -1 if the process never ran
func (e *RunError) ExitCode() int {
	if exitErr, ok := e.Err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
