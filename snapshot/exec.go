/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Runner runs external commands.
type Runner interface {
	// Run executes name with args in dir and returns its standard output.
	// A command that cannot start or exits non-zero yields a *CommandError.
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// ExecRunner implements Runner with os/exec.
type ExecRunner struct {
	// Stderr, when set, also receives the standard error of every command
	// (cargo reports index updates and downloads there).
	Stderr io.Writer
}

// NewExecRunner creates a runner that executes real processes.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if r.Stderr != nil {
		cmd.Stderr = io.MultiWriter(&stderr, r.Stderr)
	}

	if err := cmd.Run(); err != nil {
		cmdErr := &CommandError{
			Name:   name,
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cmdErr.ExitCode = exitErr.ExitCode()
		}
		return nil, cmdErr
	}
	return stdout.Bytes(), nil
}

// CommandError represents a failed external command.
type CommandError struct {
	Name     string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	command := strings.Join(append([]string{e.Name}, e.Args...), " ")
	if e.ExitCode > 0 {
		if e.Stderr != "" {
			return fmt.Sprintf("%s: exit status %d: %s", command, e.ExitCode, e.Stderr)
		}
		return fmt.Sprintf("%s: exit status %d", command, e.ExitCode)
	}
	return fmt.Sprintf("could not start command %s: %v", e.Name, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
