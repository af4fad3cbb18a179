// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/invowk/scriptrun/internal/process"
	"github.com/invowk/scriptrun/internal/process/processtest"
	"github.com/invowk/scriptrun/internal/runargs"
	"github.com/invowk/scriptrun/internal/testutil"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping: POSIX shell scripts are not available on Windows")
	}
}

// shellLauncher returns a Launcher that runs scripts with sh.
func shellLauncher(opts ...Option) *Launcher {
	base := []Option{
		WithInterpreter("sh"),
		WithLogger(log.New(&bytes.Buffer{})),
	}
	return New(append(base, opts...)...)
}

func TestRunScript_ExitCodes(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	dir := t.TempDir()
	l := shellLauncher()

	for _, code := range []int{0, 1, 2, 42, 127, 255} {
		t.Run(fmt.Sprintf("exit %d", code), func(t *testing.T) {
			t.Parallel()

			script := testutil.WriteScript(t, dir, fmt.Sprintf("exit%d.sh", code), fmt.Sprintf("exit %d\n", code))
			status, err := l.RunScript(context.Background(), Request{ScriptPath: script})
			if err != nil {
				t.Fatalf("RunScript() error: %v", err)
			}
			got, ok := status.ExitCode()
			if !ok || got != code {
				t.Errorf("RunScript() exit code = (%d, %v), want (%d, true)", got, ok, code)
			}
		})
	}
}

func TestRunScript_ScriptArguments(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	dir := t.TempDir()
	script := testutil.WriteScript(t, dir, "args.sh", `[ "$#" -eq 2 ] && [ "$1" = "a b" ] && [ "$2" = "c" ] || exit 9`+"\n")

	status, err := shellLauncher().RunScript(context.Background(), Request{
		ScriptPath: script,
		ScriptArgs: []string{"a b", "c"},
	})
	if err != nil {
		t.Fatalf("RunScript() error: %v", err)
	}
	if !status.Success() {
		t.Errorf("script did not receive its arguments, status %v", status)
	}
}

func TestRunScript_EnvironmentOverride(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	dir := t.TempDir()
	script := testutil.WriteScript(t, dir, "env.sh", `[ "$TARGET" = "override" ] && [ "$KEPT" = "inherited" ] || exit 7`+"\n")

	l := shellLauncher(WithEnviron(func() []string {
		return []string{"TARGET=inherited", "KEPT=inherited", "PATH=" + os.Getenv("PATH")}
	}))
	status, err := l.RunScript(context.Background(), Request{
		ScriptPath: script,
		Env:        map[string]string{"TARGET": "override"},
	})
	if err != nil {
		t.Fatalf("RunScript() error: %v", err)
	}
	if !status.Success() {
		t.Errorf("child did not observe merged environment, status %v", status)
	}
}

func TestRunScript_MissingScriptFails(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	missing := filepath.Join(t.TempDir(), "does-not-exist.sh")
	var logs bytes.Buffer
	l := New(WithInterpreter("sh"), WithLogger(log.NewWithOptions(&logs, log.Options{Level: log.DebugLevel})))

	status, err := l.RunScript(context.Background(), Request{ScriptPath: missing})
	if err == nil {
		t.Fatalf("RunScript() = %v, want error", status)
	}
	if !errors.Is(err, ErrLaunchFailed) {
		t.Errorf("error %v does not wrap ErrLaunchFailed", err)
	}
	if !errors.Is(err, process.ErrScriptNotFound) {
		t.Errorf("error %v does not wrap process.ErrScriptNotFound", err)
	}
	var launchErr *LaunchError
	if !errors.As(err, &launchErr) || launchErr.Script != missing {
		t.Errorf("errors.As(*LaunchError) failed or wrong script: %v", err)
	}
	if logs.Len() != 0 {
		t.Errorf("launch failure must not log, got %q", logs.String())
	}
}

func TestRunScript_LogsTermination(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	dir := t.TempDir()
	script := testutil.WriteScript(t, dir, "five.sh", "exit 5\n")

	var logs bytes.Buffer
	l := New(WithInterpreter("sh"), WithLogger(log.NewWithOptions(&logs, log.Options{Level: log.DebugLevel, Prefix: LogPrefix})))

	if _, err := l.RunScript(context.Background(), Request{ScriptPath: script}); err != nil {
		t.Fatalf("RunScript() error: %v", err)
	}

	out := logs.String()
	if strings.Count(out, "script finished") != 1 {
		t.Errorf("want exactly one termination line, got %q", out)
	}
	for _, want := range []string{LogPrefix, script, "status=5"} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q missing %q", out, want)
		}
	}
}

func TestRunScript_ConcurrentLaunches(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)

	dir := t.TempDir()
	l := shellLauncher()

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := range n {
		script := testutil.WriteScript(t, dir, fmt.Sprintf("job%d.sh", i), fmt.Sprintf("exit %d\n", i))
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, err := l.RunScript(context.Background(), Request{ScriptPath: script})
			if err != nil {
				errs <- err
				return
			}
			if code, ok := status.ExitCode(); !ok || code != i {
				errs <- fmt.Errorf("script %d exited with %v", i, status)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestCommand_RuntimeArgumentOrder(t *testing.T) {
	t.Parallel()

	l := New(
		WithSpawner(&processtest.Recorder{}),
		WithHostMode(runargs.HostMode{RuntimeArgs: []string{"--inspect-brk=9229"}}),
		WithEnviron(func() []string { return []string{"A=1"} }),
	)
	c := l.Command(Request{
		ScriptPath:  "deploy.ts",
		ScriptArgs:  []string{"--dry"},
		RuntimeArgs: []string{"--trace-warnings"},
		Env:         map[string]string{"B": "2"},
	})

	wantArgs := []string{"--inspect", runargs.RequireFlag, runargs.RegisterModule, "--trace-warnings"}
	if !slices.Equal(c.RuntimeArgs, wantArgs) {
		t.Errorf("RuntimeArgs = %q, want %q", c.RuntimeArgs, wantArgs)
	}
	if c.Interpreter != DefaultInterpreter {
		t.Errorf("Interpreter = %q, want %q", c.Interpreter, DefaultInterpreter)
	}
	if !slices.Equal(c.Env, []string{"A=1", "B=2"}) {
		t.Errorf("Env = %q", c.Env)
	}
	if c.Stdin != nil || c.Stdout != nil || c.Stderr != nil {
		t.Error("standard streams must be inherited")
	}
}

func TestStart_SpawnErrorSettlesOnce(t *testing.T) {
	t.Parallel()

	spawnErr := errors.New("permission denied")
	rec := &processtest.Recorder{SpawnErr: spawnErr}
	run := New(WithSpawner(rec)).Start(context.Background(), Request{ScriptPath: "x.js"})

	select {
	case <-run.Done():
	case <-time.After(time.Second):
		t.Fatal("Run did not settle after spawn error")
	}

	_, err := run.Result()
	if !errors.Is(err, spawnErr) || !errors.Is(err, ErrLaunchFailed) {
		t.Errorf("Result() error = %v", err)
	}
	if run.Pid() != 0 {
		t.Errorf("Pid() = %d for a child that never started", run.Pid())
	}
	if len(rec.Commands()) != 1 {
		t.Errorf("spawned %d times, want exactly 1", len(rec.Commands()))
	}
}

func TestStart_WaitErrorIsLaunchFailure(t *testing.T) {
	t.Parallel()

	waitErr := errors.New("wait: no child processes")
	var logs bytes.Buffer
	l := New(
		WithSpawner(&processtest.Recorder{WaitErr: waitErr, Status: process.Exited(0)}),
		WithLogger(log.NewWithOptions(&logs, log.Options{Level: log.DebugLevel})),
	)

	_, err := l.RunScript(context.Background(), Request{ScriptPath: "x.js"})
	if !errors.Is(err, waitErr) {
		t.Errorf("RunScript() error = %v, want %v", err, waitErr)
	}
	if logs.Len() != 0 {
		t.Errorf("failure must not log, got %q", logs.String())
	}
}

func TestStart_ResultAvailableRepeatedly(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	rec := &processtest.Recorder{Status: process.Killed(nil), Release: release}
	run := New(WithSpawner(rec), WithLogger(log.New(&bytes.Buffer{}))).Start(context.Background(), Request{ScriptPath: "x.js"})

	select {
	case <-run.Done():
		t.Fatal("Run settled before the child terminated")
	default:
	}
	close(release)

	for range 2 {
		status, err := run.Result()
		if err != nil {
			t.Fatalf("Result() error: %v", err)
		}
		if _, ok := status.ExitCode(); ok {
			t.Errorf("signal termination reported an exit code: %v", status)
		}
	}
	if run.Pid() == 0 {
		t.Error("Pid() = 0 for a started child")
	}
}
