// SPDX-License-Identifier: MPL-2.0

// Package config handles scriptrun configuration using Viper, with CUE or TOML as the file format.
//
// Configuration is loaded from config.cue (or config.toml) in the scriptrun configuration
// directory: $XDG_CONFIG_HOME/scriptrun on Linux, ~/Library/Application Support/scriptrun on
// macOS, %APPDATA%\scriptrun on Windows. CUE files are validated against the embedded
// #Config schema. Every key can be overridden through SCRIPTRUN_<SECTION>_<KEY> environment
// variables, e.g. SCRIPTRUN_RUNTIME_INTERPRETER.
package config
