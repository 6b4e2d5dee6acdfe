// Package script executes package lifecycle scripts through the platform
// shell.
package script

import (
	"context"
	"io"
	"os"
	"os/exec"
	"runtime"

	"github.com/tressel-dev/tressel/internal/logger"
)

//go:generate mockgen -destination=./mocks/runner.go -package=mocks . Runner

// Runner executes a single script command in a working directory with extra
// environment variables layered over the process environment. It returns the
// command's exit code alongside any execution error.
type Runner interface {
	Run(ctx context.Context, command, dir string, env map[string]string) (int, error)
}

// ShellRunner runs commands through the platform shell, matching how package
// managers on the npm registry execute lifecycle scripts.
type ShellRunner struct {
	// Stdout and Stderr receive the script's output. Nil streams are
	// inherited from the parent process.
	Stdout io.Writer
	Stderr io.Writer
}

// NewShellRunner creates a runner that inherits the parent's output streams.
func NewShellRunner() *ShellRunner {
	return &ShellRunner{}
}

// Run executes command via the shell and waits for it to finish.
func (r *ShellRunner) Run(ctx context.Context, command, dir string, env map[string]string) (int, error) {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/C", command)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", command)
	}
	cmd.Dir = dir
	cmd.Env = os.Environ()
	for key, value := range env {
		cmd.Env = append(cmd.Env, key+"="+value)
	}
	if r.Stdout != nil {
		cmd.Stdout = r.Stdout
	} else {
		cmd.Stdout = os.Stdout
	}
	if r.Stderr != nil {
		cmd.Stderr = r.Stderr
	} else {
		cmd.Stderr = os.Stderr
	}

	logger.Debug("Running script", logger.Fields{"dir": dir, "command": command})

	err := cmd.Run()
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode(), err
	}
	if err != nil {
		return -1, err
	}
	return 0, nil
}
