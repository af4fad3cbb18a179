// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/shell"

	"github.com/invowk/scriptrun/internal/runargs"
)

var (
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrInvalidHostArgs is returned when runtime.host_args cannot be split into flags.
	ErrInvalidHostArgs = errors.New("invalid host args")
)

type (
	// Config holds the application configuration.
	Config struct {
		// Runtime configures the child interpreter.
		Runtime RuntimeConfig `json:"runtime" mapstructure:"runtime"`
		// Framework configures the framework context injected into children.
		Framework FrameworkConfig `json:"framework" mapstructure:"framework"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// RuntimeConfig configures how children are started.
	RuntimeConfig struct {
		// Interpreter is the runtime binary (default: node)
		Interpreter string `json:"interpreter" mapstructure:"interpreter"`
		// HostArgs are the host's own runtime flags as one shell-quoted string.
		HostArgs string `json:"host_args" mapstructure:"host_args"`
		// SourceMode marks the host as running from uncompiled sources.
		SourceMode bool `json:"source_mode" mapstructure:"source_mode"`
		// TranspileOnly uses the transpilation hook without type checking.
		TranspileOnly bool `json:"transpile_only" mapstructure:"transpile_only"`
		// WorkDir is the children's working directory (default: current directory)
		WorkDir string `json:"work_dir" mapstructure:"work_dir"`
	}

	// FrameworkConfig configures the framework context.
	FrameworkConfig struct {
		// Enabled runs scripts with the framework context (default: true)
		Enabled bool `json:"enabled" mapstructure:"enabled"`
		// InstallDir overrides where the register module is resolved from.
		InstallDir string `json:"install_dir" mapstructure:"install_dir"`
		// Network is the default network forwarded to scripts.
		Network string `json:"network" mapstructure:"network"`
		// Config is the framework config file forwarded to scripts.
		Config string `json:"config" mapstructure:"config"`
		// ShowStackTraces and Verbose are forwarded as framework flags.
		ShowStackTraces bool `json:"show_stack_traces" mapstructure:"show_stack_traces"`
		Verbose         bool `json:"verbose" mapstructure:"verbose"`
		// MaxMemory is the memory limit in MB forwarded to scripts; 0 means unset.
		MaxMemory int `json:"max_memory" mapstructure:"max_memory"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// InvalidConfigError is returned when a loaded Config fails validation.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Runtime: RuntimeConfig{
			Interpreter: "node",
		},
		Framework: FrameworkConfig{
			Enabled: true,
		},
	}
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Validate checks constraints the file schema cannot express, including
// values that arrived through environment overrides.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Runtime.Interpreter) == "" {
		errs = append(errs, errors.New("runtime.interpreter must not be empty"))
	}
	if _, err := c.Runtime.SplitHostArgs(); err != nil {
		errs = append(errs, err)
	}
	if c.Framework.MaxMemory < 0 {
		errs = append(errs, fmt.Errorf("framework.max_memory must not be negative, got %d", c.Framework.MaxMemory))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// SplitHostArgs splits HostArgs into flags using shell quoting rules.
// Environment references are expanded from the current environment.
func (r RuntimeConfig) SplitHostArgs() ([]string, error) {
	if strings.TrimSpace(r.HostArgs) == "" {
		return nil, nil
	}
	fields, err := shell.Fields(r.HostArgs, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: runtime.host_args %q: %w", ErrInvalidHostArgs, r.HostArgs, err)
	}
	return fields, nil
}

// HostMode returns the host execution mode the runtime section describes.
func (r RuntimeConfig) HostMode() (runargs.HostMode, error) {
	hostArgs, err := r.SplitHostArgs()
	if err != nil {
		return runargs.HostMode{}, err
	}
	return runargs.HostMode{
		RuntimeArgs:   hostArgs,
		SourceMode:    r.SourceMode,
		TranspileOnly: r.TranspileOnly,
	}, nil
}
