// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invowk/scriptrun/internal/config"
	"github.com/invowk/scriptrun/internal/issue"
)

// newConfigCommand creates the `scriptrun config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage scriptrun configuration",
		Long: `Manage scriptrun configuration.

Configuration is read from config.cue (or config.toml) in:
  - Linux: $XDG_CONFIG_HOME/scriptrun (default ~/.config/scriptrun)
  - macOS: ~/Library/Application Support/scriptrun
  - Windows: %APPDATA%\scriptrun
or from the current directory. SCRIPTRUN_<SECTION>_<KEY> variables override
file values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app)
		},
	})

	var initDir string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfig(initDir)
			if err != nil {
				return fmt.Errorf("failed to create config: %w", err)
			}
			fmt.Fprintf(app.stdout, "%s %s\n", TitleStyle.Render("Created"), path)
			return nil
		},
	}
	initCmd.Flags().StringVar(&initDir, "dir", "", "directory to create config.cue in (default: the config directory)")
	cfgCmd.AddCommand(initCmd)

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		renderError(app.stderr, err, issue.ConfigLoadFailedId, app.verbose)
		return &ExitError{Code: 1, Err: err}
	}

	path, err := config.Resolve(config.LoadOptions{ConfigFilePath: app.cfgFile})
	if err != nil || path == "" {
		fmt.Fprintf(app.stdout, "// %s\n", SubtitleStyle.Render("(using defaults)"))
	} else {
		fmt.Fprintf(app.stdout, "// %s\n", path)
	}
	fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
	return nil
}

func showConfigPath(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "%s %s\n", LabelStyle.Render("Config directory:"), cfgDir)

	path, err := config.Resolve(config.LoadOptions{ConfigFilePath: app.cfgFile})
	if err != nil {
		return err
	}
	if path == "" {
		path = SubtitleStyle.Render("(none, using defaults)")
	}
	fmt.Fprintf(app.stdout, "%s %s\n", LabelStyle.Render("Config file:"), path)
	return nil
}
