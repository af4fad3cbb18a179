// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/invowk/scriptrun/internal/issue"
)

const (
	// AppName is the application name.
	AppName = "scriptrun"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the default config file extension.
	ConfigFileExt = "cue"
	// TOMLFileExt is the alternative config file extension.
	TOMLFileExt = "toml"
	// EnvPrefix prefixes environment overrides, e.g. SCRIPTRUN_RUNTIME_INTERPRETER.
	EnvPrefix = "SCRIPTRUN"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the scriptrun configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// loadWithOptions performs option-driven config loading.
// Precedence, lowest first: defaults, config file, SCRIPTRUN_* environment.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath := opts.ConfigFilePath
	if resolvedPath != "" {
		if !fileExists(resolvedPath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'scriptrun config path' to see where configuration is read from").
				Wrap(fmt.Errorf("config file not found: %s", resolvedPath)).
				BuildError()
		}
	} else {
		found, err := findConfigFile(opts.ConfigDirPath)
		if err != nil {
			return nil, "", err
		}
		resolvedPath = found
	}

	if resolvedPath != "" {
		if err := loadFileIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file syntax is valid").
				WithSuggestion("Verify the configuration values match the expected schema").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check SCRIPTRUN_* environment variables for stray values").
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

func setDefaults(v *viper.Viper, defaults *Config) {
	v.SetDefault("runtime.interpreter", defaults.Runtime.Interpreter)
	v.SetDefault("runtime.host_args", defaults.Runtime.HostArgs)
	v.SetDefault("runtime.source_mode", defaults.Runtime.SourceMode)
	v.SetDefault("runtime.transpile_only", defaults.Runtime.TranspileOnly)
	v.SetDefault("runtime.work_dir", defaults.Runtime.WorkDir)
	v.SetDefault("framework.enabled", defaults.Framework.Enabled)
	v.SetDefault("framework.install_dir", defaults.Framework.InstallDir)
	v.SetDefault("framework.network", defaults.Framework.Network)
	v.SetDefault("framework.config", defaults.Framework.Config)
	v.SetDefault("framework.show_stack_traces", defaults.Framework.ShowStackTraces)
	v.SetDefault("framework.verbose", defaults.Framework.Verbose)
	v.SetDefault("framework.max_memory", defaults.Framework.MaxMemory)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
}

// findConfigFile looks for config.cue, then config.toml, first in the config
// directory and then in the current directory. It returns "" when none exists.
func findConfigFile(configDirPath string) (string, error) {
	cfgDir := configDirPath
	if cfgDir == "" {
		dir, err := ConfigDir()
		if err != nil {
			return "", err
		}
		cfgDir = dir
	}

	for _, dir := range []string{cfgDir, "."} {
		for _, ext := range []string{ConfigFileExt, TOMLFileExt} {
			candidate := filepath.Join(dir, ConfigFileName+"."+ext)
			if fileExists(candidate) {
				return candidate, nil
			}
		}
	}
	return "", nil
}

func loadFileIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var configMap map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case "." + TOMLFileExt:
		if err := toml.Unmarshal(data, &configMap); err != nil {
			return fmt.Errorf("invalid TOML in %s: %w", path, err)
		}
	default:
		if configMap, err = decodeCUE(data, path); err != nil {
			return err
		}
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// decodeCUE validates a CUE file against the #Config schema and decodes it.
// Concrete(false) is used because every config field is optional.
func decodeCUE(data []byte, path string) (map[string]any, error) {
	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return nil, fmt.Errorf("invalid CUE in %s: %w", path, userValue.Err())
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return nil, fmt.Errorf("%s does not match the config schema: %w", path, err)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return configMap, nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default config.cue into dir unless one exists,
// and returns its path.
func CreateDefaultConfig(dir string) (string, error) {
	if dir == "" {
		cfgDir, err := ConfigDir()
		if err != nil {
			return "", err
		}
		dir = cfgDir
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, nil
	}

	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return cfgPath, nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// scriptrun configuration file\n\n")

	sb.WriteString("runtime: {\n")
	fmt.Fprintf(&sb, "\tinterpreter: %q\n", cfg.Runtime.Interpreter)
	if cfg.Runtime.HostArgs != "" {
		fmt.Fprintf(&sb, "\thost_args: %q\n", cfg.Runtime.HostArgs)
	}
	fmt.Fprintf(&sb, "\tsource_mode: %v\n", cfg.Runtime.SourceMode)
	fmt.Fprintf(&sb, "\ttranspile_only: %v\n", cfg.Runtime.TranspileOnly)
	if cfg.Runtime.WorkDir != "" {
		fmt.Fprintf(&sb, "\twork_dir: %q\n", cfg.Runtime.WorkDir)
	}
	sb.WriteString("}\n")

	sb.WriteString("\nframework: {\n")
	fmt.Fprintf(&sb, "\tenabled: %v\n", cfg.Framework.Enabled)
	for _, field := range []struct{ key, value string }{
		{"install_dir", cfg.Framework.InstallDir},
		{"network", cfg.Framework.Network},
		{"config", cfg.Framework.Config},
	} {
		if field.value != "" {
			fmt.Fprintf(&sb, "\t%s: %q\n", field.key, field.value)
		}
	}
	fmt.Fprintf(&sb, "\tshow_stack_traces: %v\n", cfg.Framework.ShowStackTraces)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.Framework.Verbose)
	if cfg.Framework.MaxMemory > 0 {
		fmt.Fprintf(&sb, "\tmax_memory: %d\n", cfg.Framework.MaxMemory)
	}
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}
