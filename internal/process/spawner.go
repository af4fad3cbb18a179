// SPDX-License-Identifier: MPL-2.0

package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

var (
	// ErrScriptNotFound is returned when the entry script does not exist.
	ErrScriptNotFound = errors.New("script not found")
	// ErrInterpreterNotFound is returned when the interpreter cannot be resolved.
	ErrInterpreterNotFound = errors.New("interpreter not found")
)

type (
	// Command describes one child interpreter process.
	// The child's argument vector is Interpreter, RuntimeArgs, Script, ScriptArgs.
	Command struct {
		Interpreter string
		RuntimeArgs []string
		Script      string
		ScriptArgs  []string
		// Env is the complete KEY=VALUE environment block of the child.
		Env []string
		// Dir is the working directory; empty means the parent's.
		Dir string

		// Nil streams are inherited from the parent process.
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// Process is a handle on a started child.
	Process interface {
		Pid() int
		// Wait blocks until the child terminates. A non-nil error means the
		// child could not be observed to completion.
		Wait() (ExitStatus, error)
	}

	// Spawner creates child processes.
	Spawner interface {
		Spawn(ctx context.Context, cmd Command) (Process, error)
	}

	// ExecSpawner spawns children with os/exec.
	ExecSpawner struct{}

	execProcess struct {
		cmd *exec.Cmd
	}
)

// Argv returns the full argument vector, interpreter first.
func (c Command) Argv() []string {
	argv := make([]string, 0, 2+len(c.RuntimeArgs)+len(c.ScriptArgs))
	argv = append(argv, c.Interpreter)
	argv = append(argv, c.RuntimeArgs...)
	argv = append(argv, c.Script)
	return append(argv, c.ScriptArgs...)
}

// NewExecSpawner creates the os/exec backed Spawner.
func NewExecSpawner() *ExecSpawner {
	return &ExecSpawner{}
}

// Spawn starts the child. The child is not tied to ctx cancellation: once
// started it runs until it exits on its own or is signalled by the OS.
func (s *ExecSpawner) Spawn(ctx context.Context, c Command) (Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	interpreter, err := exec.LookPath(c.Interpreter)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInterpreterNotFound, c.Interpreter, err)
	}
	// A relative interpreter stays relative to the parent's directory, not c.Dir.
	if !filepath.IsAbs(interpreter) {
		if interpreter, err = filepath.Abs(interpreter); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInterpreterNotFound, c.Interpreter, err)
		}
	}

	if info, statErr := os.Stat(scriptLocation(c)); statErr != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrScriptNotFound, c.Script, statErr)
	} else if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrScriptNotFound, c.Script)
	}

	argv := c.Argv()
	// #nosec G204 -- the interpreter and script are the explicit launch target
	cmd := exec.CommandContext(context.WithoutCancel(ctx), interpreter, argv[1:]...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	cmd.Stdin = inheritReader(c.Stdin, os.Stdin)
	cmd.Stdout = inheritWriter(c.Stdout, os.Stdout)
	cmd.Stderr = inheritWriter(c.Stderr, os.Stderr)

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", c.Interpreter, err)
	}

	return &execProcess{cmd: cmd}, nil
}

// Pid returns the operating system process ID of the child.
func (p *execProcess) Pid() int { return p.cmd.Process.Pid }

// Wait waits for the child and converts its termination state.
func (p *execProcess) Wait() (ExitStatus, error) {
	err := p.cmd.Wait()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return ExitStatus{}, err
		}
	}
	return statusFromState(p.cmd.ProcessState), nil
}

// scriptLocation resolves the script relative to the child's working directory.
func scriptLocation(c Command) string {
	if c.Dir == "" || filepath.IsAbs(c.Script) {
		return c.Script
	}
	return filepath.Join(c.Dir, c.Script)
}

// inheritReader passes the parent's file through unwrapped so the child
// gets the descriptor itself instead of a copying goroutine.
func inheritReader(r io.Reader, parent *os.File) io.Reader {
	if r == nil {
		return parent
	}
	return r
}

func inheritWriter(w io.Writer, parent *os.File) io.Writer {
	if w == nil {
		return parent
	}
	return w
}
