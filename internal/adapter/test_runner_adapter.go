package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

// waitDelay bounds how long a killed process may keep its pipes open.
const waitDelay = 2 * time.Second

// TestRun is the raw result of one test command execution.
type TestRun struct {
	ExitCode int
	// Output is stdout, or stderr when stdout is empty.
	Output   string
	TimedOut bool
	Duration time.Duration
}

// TestRunnerAdapter abstracts test execution operations for mutation testing.
type TestRunnerAdapter interface {
	// RunTest runs command in workDir under a hard deadline. A non-nil error
	// means the command could not be run or ctx was cancelled; test failures
	// and timeouts are reported through TestRun.
	RunTest(ctx context.Context, workDir m.Path, command []string, timeout time.Duration) (TestRun, error)
}

// LocalTestRunnerAdapter runs test commands as child processes. Each child
// gets its own process group so a timeout kills everything it spawned.
type LocalTestRunnerAdapter struct{}

// NewLocalTestRunnerAdapter constructs a LocalTestRunnerAdapter.
func NewLocalTestRunnerAdapter() *LocalTestRunnerAdapter {
	return &LocalTestRunnerAdapter{}
}

// RunTest executes command and classifies how it ended.
func (a *LocalTestRunnerAdapter) RunTest(ctx context.Context, workDir m.Path, command []string, timeout time.Duration) (TestRun, error) {
	if len(command) == 0 {
		return TestRun{}, errors.New("empty test command")
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// #nosec G204 - the command is configured by the user running the harness
	cmd := exec.CommandContext(runCtx, command[0], command[1:]...)
	cmd.Dir = string(workDir)
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)
	cmd.Cancel = func() error {
		return killProcessGroup(cmd)
	}

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	run := TestRun{
		Output:   stdout.String(),
		Duration: time.Since(start),
	}
	if run.Output == "" {
		run.Output = stderr.String()
	}

	if ctx.Err() != nil {
		return run, ctx.Err()
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		run.TimedOut = true
		if run.Output == "" {
			run.Output = "<timeout>"
		}

		return run, nil
	}

	if err == nil {
		return run, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		run.ExitCode = exitErr.ExitCode()
		return run, nil
	}

	return run, fmt.Errorf("run %s: %w", command[0], err)
}
