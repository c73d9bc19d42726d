// Package runner executes the external command line tools the pipeline
// delegates to (yt-dlp, ffmpeg, whisper) behind a small interface so that
// tests can replace them.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Result captures one finished command invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner abstracts process execution for testability.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// ExecRunner executes commands via os/exec.
type ExecRunner struct{}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes one command and captures stdout, stderr and the exit code.
// A non-zero exit is returned as a *CommandError.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmdPath, err := exec.LookPath(name)
	if err != nil {
		return Result{ExitCode: -1}, fmt.Errorf("%s not found: %w", name, err)
	}

	cmd := exec.CommandContext(ctx, cmdPath, args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	result := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: 0,
	}
	if err != nil {
		result.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
		return result, &CommandError{Name: name, Result: result, Err: err}
	}
	return result, nil
}

// CommandError reports a failed command with its captured stderr.
type CommandError struct {
	Name   string
	Result Result
	Err    error
}

func (e *CommandError) Error() string {
	msg := lastLine(e.Result.Stderr)
	if msg == "" {
		return fmt.Sprintf("%s exited with code %d", e.Name, e.Result.ExitCode)
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Name, e.Result.ExitCode, msg)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// lastLine returns the last non-empty line, which is where yt-dlp, ffmpeg
// and whisper print their actual error.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
