// SPDX-License-Identifier: MPL-2.0

package hardhat

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment variable derived from Arguments.
const EnvPrefix = "HARDHAT_"

// ErrInvalidArgumentValue is the sentinel error wrapped by InvalidArgumentValueError.
var ErrInvalidArgumentValue = errors.New("invalid framework argument value")

type (
	// Arguments are the framework-level arguments forwarded to child scripts.
	Arguments struct {
		Network         string
		Config          string
		TSConfig        string
		ShowStackTraces bool
		Verbose         bool
		Emoji           bool
		Typecheck       bool
		Flamegraph      bool
		MaxMemory       int
	}

	// EnvDeriver maps framework arguments to environment variables.
	EnvDeriver func(Arguments) map[string]string

	// InvalidArgumentValueError is returned when a HARDHAT_* variable cannot be parsed.
	InvalidArgumentValueError struct {
		Name  string
		Value string
	}

	param struct {
		name string
		get  func(Arguments) (string, bool)
		set  func(*Arguments, string) error
	}
)

var params = []param{
	stringParam("network", func(a *Arguments) *string { return &a.Network }),
	stringParam("config", func(a *Arguments) *string { return &a.Config }),
	stringParam("tsconfig", func(a *Arguments) *string { return &a.TSConfig }),
	boolParam("showStackTraces", func(a *Arguments) *bool { return &a.ShowStackTraces }),
	boolParam("verbose", func(a *Arguments) *bool { return &a.Verbose }),
	boolParam("emoji", func(a *Arguments) *bool { return &a.Emoji }),
	boolParam("typecheck", func(a *Arguments) *bool { return &a.Typecheck }),
	boolParam("flamegraph", func(a *Arguments) *bool { return &a.Flamegraph }),
	{
		name: "maxMemory",
		get: func(a Arguments) (string, bool) {
			return strconv.Itoa(a.MaxMemory), a.MaxMemory > 0
		},
		set: func(a *Arguments, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return &InvalidArgumentValueError{Name: "maxMemory", Value: v}
			}
			a.MaxMemory = n
			return nil
		},
	},
}

// Error implements the error interface.
func (e *InvalidArgumentValueError) Error() string {
	return fmt.Sprintf("invalid value %q for %s", e.Value, EnvName(e.Name))
}

// Unwrap returns ErrInvalidArgumentValue for errors.Is.
func (e *InvalidArgumentValueError) Unwrap() error { return ErrInvalidArgumentValue }

// EnvName converts a camelCase argument name to its environment variable,
// e.g. showStackTraces -> HARDHAT_SHOW_STACK_TRACES.
func EnvName(name string) string {
	var sb strings.Builder
	sb.WriteString(EnvPrefix)
	for i, r := range name {
		if r >= 'A' && r <= 'Z' && i > 0 {
			sb.WriteByte('_')
		}
		sb.WriteRune(r)
	}
	return strings.ToUpper(sb.String())
}

// EnvVars is the default EnvDeriver. Booleans are always set; strings only
// when non-empty and the memory limit only when positive.
func EnvVars(args Arguments) map[string]string {
	env := make(map[string]string, len(params))
	for _, p := range params {
		if v, ok := p.get(args); ok {
			env[EnvName(p.name)] = v
		}
	}
	return env
}

// ArgumentsFromEnv reads framework arguments back from a KEY=VALUE list,
// the inverse of EnvVars. Unset variables keep their zero value.
func ArgumentsFromEnv(environ []string) (Arguments, error) {
	values := make(map[string]string)
	for _, kv := range environ {
		if key, value, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(key, EnvPrefix) {
			values[key] = value
		}
	}

	var args Arguments
	var errs []error
	for _, p := range params {
		if v, ok := values[EnvName(p.name)]; ok {
			if err := p.set(&args, v); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return args, errors.Join(errs...)
}

func stringParam(name string, field func(*Arguments) *string) param {
	return param{
		name: name,
		get: func(a Arguments) (string, bool) {
			v := *field(&a)
			return v, v != ""
		},
		set: func(a *Arguments, v string) error {
			*field(a) = v
			return nil
		},
	}
}

func boolParam(name string, field func(*Arguments) *bool) param {
	return param{
		name: name,
		get: func(a Arguments) (string, bool) {
			return strconv.FormatBool(*field(&a)), true
		},
		set: func(a *Arguments, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return &InvalidArgumentValueError{Name: name, Value: v}
			}
			*field(a) = b
			return nil
		},
	}
}
