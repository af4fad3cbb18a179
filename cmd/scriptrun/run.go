// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"mvdan.cc/sh/v3/shell"

	"github.com/invowk/scriptrun/internal/config"
	"github.com/invowk/scriptrun/internal/hardhat"
	"github.com/invowk/scriptrun/internal/issue"
	"github.com/invowk/scriptrun/internal/launcher"
	"github.com/invowk/scriptrun/internal/process"
)

type runFlags struct {
	runtimeArgs     []string
	runtimeArgsLine string
	env             []string
	noFramework     bool
	network         string
	frameworkConfig string
	showStackTraces bool
	maxMemory       int
	dryRun          bool
}

func newRunCommand(app *App) *cobra.Command {
	var flags runFlags

	runCmd := &cobra.Command{
		Use:   "run [flags] <script> [script args...]",
		Short: "Run a script in a child interpreter",
		Long: `Run a script in a child interpreter process.

Everything after the script path is passed to the script. The exit code of
scriptrun is the script's exit code.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runScript(cmd.Context(), app, flags, args[0], trimSeparator(args[1:]))
			var exitErr *ExitError
			if errors.As(err, &exitErr) {
				cmd.SilenceErrors = true
			}
			return err
		},
	}

	// Flags after the script path belong to the script.
	runCmd.Flags().SetInterspersed(false)
	runCmd.Flags().StringArrayVar(&flags.runtimeArgs, "runtime-arg", nil, "extra interpreter flag for the child (repeatable)")
	runCmd.Flags().StringVar(&flags.runtimeArgsLine, "runtime-args", "", "extra interpreter flags as one shell-quoted string")
	runCmd.Flags().StringArrayVarP(&flags.env, "env", "e", nil, "extra environment variable KEY=VALUE for the child (repeatable)")
	runCmd.Flags().BoolVar(&flags.noFramework, "no-framework", false, "run without the framework register module and HARDHAT_* variables")
	runCmd.Flags().StringVar(&flags.network, "network", "", "framework network forwarded as HARDHAT_NETWORK")
	runCmd.Flags().StringVar(&flags.frameworkConfig, "hardhat-config", "", "framework config file forwarded as HARDHAT_CONFIG")
	runCmd.Flags().BoolVar(&flags.showStackTraces, "show-stack-traces", false, "forward HARDHAT_SHOW_STACK_TRACES=true")
	runCmd.Flags().IntVar(&flags.maxMemory, "max-memory", 0, "framework memory limit in MB forwarded as HARDHAT_MAX_MEMORY")
	runCmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "print the resolved child command without running it")

	return runCmd
}

// runScript resolves configuration and flags into a launch and runs it.
// A non-zero script exit is returned as an *ExitError carrying the code.
func runScript(ctx context.Context, app *App, flags runFlags, script string, scriptArgs []string) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		renderError(app.stderr, err, issue.ConfigLoadFailedId, app.verbose)
		return &ExitError{Code: 1, Err: err}
	}

	host, err := cfg.Runtime.HostMode()
	if err != nil {
		return err
	}
	extraArgs, err := splitRuntimeArgs(flags)
	if err != nil {
		return err
	}
	extraEnv, err := parseEnvFlags(flags.env)
	if err != nil {
		return err
	}

	logger := newLogger(app)
	scripts := launcher.New(
		launcher.WithSpawner(app.Spawner),
		launcher.WithInterpreter(cfg.Runtime.Interpreter),
		launcher.WithHostMode(host),
		launcher.WithEnviron(app.Environ),
		launcher.WithDir(cfg.Runtime.WorkDir),
		launcher.WithLogger(logger),
	)

	req := launcher.Request{
		ScriptPath:  script,
		ScriptArgs:  scriptArgs,
		RuntimeArgs: extraArgs,
		Env:         extraEnv,
	}

	if cfg.Framework.Enabled && !flags.noFramework {
		fwArgs, argErr := frameworkArguments(app.Environ(), cfg.Framework, flags)
		if argErr != nil {
			renderError(app.stderr, argErr, issueForError(argErr), app.verbose)
			return &ExitError{Code: 1, Err: argErr}
		}
		hh, hhErr := hardhat.New(scripts,
			hardhat.WithInstallDir(cfg.Framework.InstallDir),
			hardhat.WithLogger(logger.WithPrefix(hardhat.LogPrefix)),
		)
		if hhErr != nil {
			return hhErr
		}
		if flags.dryRun {
			fwReq := hh.Request(fwArgs, req)
			renderDryRun(app.stdout, scripts.Command(fwReq), fwReq.Env)
			return nil
		}
		status, runErr := hh.RunScriptWithContext(ctx, fwArgs, req)
		return reportOutcome(app, status, runErr)
	}

	if flags.dryRun {
		renderDryRun(app.stdout, scripts.Command(req), req.Env)
		return nil
	}
	status, runErr := scripts.RunScript(ctx, req)
	return reportOutcome(app, status, runErr)
}

// reportOutcome renders a launch error or maps the exit status to an ExitError.
func reportOutcome(app *App, status process.ExitStatus, err error) error {
	if err != nil {
		renderError(app.stderr, err, issueForError(err), app.verbose)
		return &ExitError{Code: 1, Err: err}
	}
	return exitErrorFor(status)
}

// trimSeparator drops one leading "--" separator. Interspersed flag parsing is
// off, so pflag keeps a "--" that follows the script path.
func trimSeparator(args []string) []string {
	if len(args) > 0 && args[0] == "--" {
		return args[1:]
	}
	return args
}

// newLogger creates the diagnostic logger; debug lines appear only in verbose mode.
func newLogger(app *App) *log.Logger {
	level := log.InfoLevel
	if app.verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(app.stderr, log.Options{Prefix: launcher.LogPrefix, Level: level})
}

// frameworkArguments layers framework arguments: inherited HARDHAT_* variables,
// then the config file, then command-line flags.
func frameworkArguments(environ []string, cfg config.FrameworkConfig, flags runFlags) (hardhat.Arguments, error) {
	args, err := hardhat.ArgumentsFromEnv(environ)
	if err != nil {
		return hardhat.Arguments{}, err
	}

	args.Network = firstNonEmpty(flags.network, cfg.Network, args.Network)
	args.Config = firstNonEmpty(flags.frameworkConfig, cfg.Config, args.Config)
	args.ShowStackTraces = args.ShowStackTraces || cfg.ShowStackTraces || flags.showStackTraces
	args.Verbose = args.Verbose || cfg.Verbose
	switch {
	case flags.maxMemory > 0:
		args.MaxMemory = flags.maxMemory
	case cfg.MaxMemory > 0:
		args.MaxMemory = cfg.MaxMemory
	}
	return args, nil
}

func splitRuntimeArgs(flags runFlags) ([]string, error) {
	args := append([]string(nil), flags.runtimeArgs...)
	if strings.TrimSpace(flags.runtimeArgsLine) == "" {
		return args, nil
	}
	fields, err := shell.Fields(flags.runtimeArgsLine, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid --runtime-args %q: %w", flags.runtimeArgsLine, err)
	}
	return append(args, fields...), nil
}

// parseEnvFlags parses KEY=VALUE pairs; later pairs win.
func parseEnvFlags(pairs []string) (map[string]string, error) {
	env := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid --env value %q (expected KEY=VALUE)", pair)
		}
		env[key] = value
	}
	return env, nil
}

// exitErrorFor maps a child's ExitStatus to the CLI's exit code. A signal
// termination exits with 128+signal, the shell convention.
func exitErrorFor(status process.ExitStatus) error {
	if status.Success() {
		return nil
	}
	if code, ok := status.ExitCode(); ok {
		return &ExitError{Code: code}
	}
	if sig, ok := status.Signal.(syscall.Signal); ok {
		return &ExitError{Code: 128 + int(sig)}
	}
	return &ExitError{Code: 1}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
