// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/invowk/scriptrun/internal/config"
	"github.com/invowk/scriptrun/internal/process"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root
	// for the CLI layer.
	App struct {
		Config  config.Provider
		Spawner process.Spawner
		// Environ is the environment scriptrun itself was started with.
		Environ func() []string
		stdout  io.Writer
		stderr  io.Writer

		verbose bool
		cfgFile string
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config  config.Provider
		Spawner process.Spawner
		Environ func() []string
		Stdout  io.Writer
		Stderr  io.Writer
	}
)

// NewApp creates an App, filling unset dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:  deps.Config,
		Spawner: deps.Spawner,
		Environ: deps.Environ,
		stdout:  deps.Stdout,
		stderr:  deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.Spawner == nil {
		app.Spawner = process.NewExecSpawner()
	}
	if app.Environ == nil {
		app.Environ = os.Environ
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// loadConfig loads configuration honoring the --config flag and applies
// the config's verbose setting when the flag was not given.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.cfgFile})
	if err != nil {
		return nil, err
	}
	if cfg.UI.Verbose {
		a.verbose = true
	}
	return cfg, nil
}
