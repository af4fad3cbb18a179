// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"context"
	"os"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/invowk/scriptrun/internal/process"
	"github.com/invowk/scriptrun/internal/runargs"
)

const (
	// DefaultInterpreter is the runtime binary children are started with.
	DefaultInterpreter = "node"
	// LogPrefix tags the launcher's diagnostic lines.
	LogPrefix = "scriptrun:scripts-runner"
)

type (
	// Request is one launch: the script, its arguments, extra interpreter
	// flags appended after the derived ones, and extra environment variables
	// that override the inherited environment.
	Request struct {
		ScriptPath  string
		ScriptArgs  []string
		RuntimeArgs []string
		Env         map[string]string
	}

	// Launcher starts scripts as child interpreter processes.
	// A Launcher holds only configuration and is safe for concurrent use.
	Launcher struct {
		spawner     process.Spawner
		interpreter string
		host        runargs.HostMode
		environ     func() []string
		dir         string
		logger      *log.Logger
	}

	// Option configures a Launcher.
	Option func(*Launcher)

	// Run is an in-flight launch. It settles exactly once.
	Run struct {
		script string
		pid    int

		once   sync.Once
		done   chan struct{}
		status process.ExitStatus
		err    error
	}
)

// WithSpawner replaces the os/exec spawner.
func WithSpawner(s process.Spawner) Option {
	return func(l *Launcher) { l.spawner = s }
}

// WithInterpreter sets the runtime binary; empty keeps DefaultInterpreter.
func WithInterpreter(interpreter string) Option {
	return func(l *Launcher) {
		if interpreter != "" {
			l.interpreter = interpreter
		}
	}
}

// WithHostMode sets how the launching process itself is executing.
func WithHostMode(host runargs.HostMode) Option {
	return func(l *Launcher) { l.host = host }
}

// WithEnviron replaces os.Environ as the inherited environment source.
func WithEnviron(environ func() []string) Option {
	return func(l *Launcher) { l.environ = environ }
}

// WithDir sets the children's working directory.
func WithDir(dir string) Option {
	return func(l *Launcher) { l.dir = dir }
}

// WithLogger replaces the default diagnostic logger.
func WithLogger(logger *log.Logger) Option {
	return func(l *Launcher) { l.logger = logger }
}

// New creates a Launcher. Without options it spawns DefaultInterpreter with
// os/exec, inherits os.Environ, and logs at debug level to stderr.
func New(opts ...Option) *Launcher {
	l := &Launcher{
		spawner:     process.NewExecSpawner(),
		interpreter: DefaultInterpreter,
		environ:     os.Environ,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: LogPrefix})
	}
	return l
}

// Interpreter returns the runtime binary children are started with.
func (l *Launcher) Interpreter() string { return l.interpreter }

// Command resolves req into the exact child process description without spawning it.
func (l *Launcher) Command(req Request) process.Command {
	return process.Command{
		Interpreter: l.interpreter,
		RuntimeArgs: runargs.Effective(req.ScriptPath, l.host, req.RuntimeArgs),
		Script:      req.ScriptPath,
		ScriptArgs:  slices.Clone(req.ScriptArgs),
		Env:         MergeEnv(l.environ(), req.Env),
		Dir:         l.dir,
	}
}

// Start spawns the child for req and returns immediately. Spawn failures
// settle the returned Run with a *LaunchError.
func (l *Launcher) Start(ctx context.Context, req Request) *Run {
	run := &Run{script: req.ScriptPath, done: make(chan struct{})}

	proc, err := l.spawner.Spawn(ctx, l.Command(req))
	if err != nil {
		run.settle(process.ExitStatus{}, &LaunchError{Script: req.ScriptPath, Err: err})
		return run
	}
	run.pid = proc.Pid()

	go func() {
		status, err := proc.Wait()
		if err != nil {
			run.settle(process.ExitStatus{}, &LaunchError{Script: req.ScriptPath, Err: err})
			return
		}
		l.logger.Debug("script finished", "script", req.ScriptPath, "status", status.String())
		run.settle(status, nil)
	}()

	return run
}

// RunScript launches req and waits for the outcome.
func (l *Launcher) RunScript(ctx context.Context, req Request) (process.ExitStatus, error) {
	return l.Start(ctx, req).Result()
}

// Script returns the launched script path.
func (r *Run) Script() string { return r.script }

// Pid returns the child's process ID, or 0 if it never started.
func (r *Run) Pid() int { return r.pid }

// Done is closed once the Run has settled.
func (r *Run) Done() <-chan struct{} { return r.done }

// Result blocks until the Run settles and returns its outcome.
func (r *Run) Result() (process.ExitStatus, error) {
	<-r.done
	return r.status, r.err
}

// settle records the first outcome; later calls are ignored.
func (r *Run) settle(status process.ExitStatus, err error) {
	r.once.Do(func() {
		r.status = status
		r.err = err
		close(r.done)
	})
}
