// SPDX-License-Identifier: MPL-2.0

package hardhat

import (
	"context"
	"maps"
	"os"

	"github.com/charmbracelet/log"

	"github.com/invowk/scriptrun/internal/launcher"
	"github.com/invowk/scriptrun/internal/process"
	"github.com/invowk/scriptrun/internal/runargs"
)

// LogPrefix tags the framework launcher's diagnostic lines.
const LogPrefix = "scriptrun:hardhat"

type (
	// ScriptStarter starts a plain script launch; *launcher.Launcher implements it.
	ScriptStarter interface {
		Start(ctx context.Context, req launcher.Request) *launcher.Run
	}

	// Launcher runs scripts with the framework context injected.
	Launcher struct {
		scripts    ScriptStarter
		deriveEnv  EnvDeriver
		installDir string
		logger     *log.Logger
	}

	// Option configures a Launcher.
	Option func(*Launcher)
)

// WithEnvDeriver replaces EnvVars as the argument-to-environment mapping.
func WithEnvDeriver(d EnvDeriver) Option {
	return func(l *Launcher) { l.deriveEnv = d }
}

// WithInstallDir sets where the register module is resolved from.
func WithInstallDir(dir string) Option {
	return func(l *Launcher) { l.installDir = dir }
}

// WithLogger replaces the default diagnostic logger.
func WithLogger(logger *log.Logger) Option {
	return func(l *Launcher) { l.logger = logger }
}

// New creates a framework-aware Launcher on top of scripts. When no install
// directory is given, the running executable's directory is used.
func New(scripts ScriptStarter, opts ...Option) (*Launcher, error) {
	l := &Launcher{scripts: scripts, deriveEnv: EnvVars}
	for _, opt := range opts {
		opt(l)
	}
	if l.installDir == "" {
		dir, err := InstallDir()
		if err != nil {
			return nil, err
		}
		l.installDir = dir
	}
	if l.logger == nil {
		l.logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: LogPrefix})
	}
	return l, nil
}

// PreloadArgs returns the flag pair that loads the register module.
func (l *Launcher) PreloadArgs() []string {
	return []string{runargs.RequireFlag, RegisterPath(l.installDir)}
}

// Request composes the plain launch request for req under args: the preload
// pair goes before the caller's runtime flags, and the caller's variables
// override the derived ones.
func (l *Launcher) Request(args Arguments, req launcher.Request) launcher.Request {
	runtimeArgs := append(l.PreloadArgs(), req.RuntimeArgs...)

	env := maps.Clone(l.deriveEnv(args))
	if env == nil {
		env = make(map[string]string, len(req.Env))
	}
	maps.Copy(env, req.Env)

	return launcher.Request{
		ScriptPath:  req.ScriptPath,
		ScriptArgs:  req.ScriptArgs,
		RuntimeArgs: runtimeArgs,
		Env:         env,
	}
}

// StartWithContext starts req inside the framework context and returns immediately.
func (l *Launcher) StartWithContext(ctx context.Context, args Arguments, req launcher.Request) *launcher.Run {
	l.logger.Info("creating framework subprocess", "script", req.ScriptPath)
	return l.scripts.Start(ctx, l.Request(args, req))
}

// RunScriptWithContext runs req inside the framework context and waits for the outcome.
func (l *Launcher) RunScriptWithContext(ctx context.Context, args Arguments, req launcher.Request) (process.ExitStatus, error) {
	return l.StartWithContext(ctx, args, req).Result()
}
